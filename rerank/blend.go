package rerank

import (
	"context"
	"math"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// AnchorFinalScore 是锚定候选的最终分哨兵值，保证排序后恒居首位。
const AnchorFinalScore = math.MaxFloat64

// BlendNode 融合优先分、置信度与匹配强度，写入 item.FinalScore。
//
//   - 锚定候选：final = AnchorFinalScore（哨兵，绝对置顶）
//   - 兴趣匹配：final = priority*0.55 + confidence*0.15 + match*0.30
//   - 未匹配：  final = priority*0.45 + confidence*0.08
type BlendNode struct{}

func (n *BlendNode) Name() string        { return "rerank.blend" }
func (n *BlendNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *BlendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil {
			continue
		}
		switch {
		case it.Anchor:
			it.FinalScore = AnchorFinalScore
		case it.MatchScore > 0:
			it.FinalScore = it.PriorityScore*0.55 + it.Confidence*0.15 + it.MatchScore*0.30
		default:
			it.FinalScore = it.PriorityScore*0.45 + it.Confidence*0.08
		}
	}
	return items, nil
}

var _ pipeline.Node = (*BlendNode)(nil)
