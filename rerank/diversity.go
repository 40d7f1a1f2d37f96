package rerank

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// DiversityNode 做轻量的品类打散：候选明显多于 topK（超过 1.5 倍）时，
// 对头部（前 topK*0.8 个位置）重复出现的品类施加 2% 的分数惩罚。
// 惩罚很小，只在同分附近改变顺序，不会把强匹配压出头部。
type DiversityNode struct{}

func (n *DiversityNode) Name() string        { return "rerank.diversity" }
func (n *DiversityNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *DiversityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	topK := rctx.TopK
	if topK < 1 {
		topK = 1
	}
	if float64(len(items)) <= float64(topK)*1.5 {
		return items, nil
	}

	headLimit := float64(topK) * 0.8
	seen := make(map[string]bool, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Exhibit != nil {
			category := it.Exhibit.Category
			if category != "" && seen[category] && float64(len(out)) < headLimit {
				it.FinalScore *= 0.98
			}
			seen[category] = true
		}
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*DiversityNode)(nil)
