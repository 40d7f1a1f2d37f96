package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// OrderNode 是终排节点：按最终分排序、复核锚定不变式并截断到 topK。
//
// 排序键（依次比较）：FinalScore 降序 → RawScore 降序 → ID 升序。
// 最后一个键保证同分时输出顺序与输入顺序无关。
//
// 锚定复核：排序后若存在锚定候选但不在首位（例如分数被后续节点改写），
// 强制移到首位并恢复哨兵分。
type OrderNode struct{}

func (n *OrderNode) Name() string        { return "rerank.order" }
func (n *OrderNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *OrderNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.RawScore != b.RawScore {
			return a.RawScore > b.RawScore
		}
		return a.ID < b.ID
	})

	// 锚定不变式复核
	anchorIdx := -1
	for i, it := range items {
		if it != nil && it.Anchor {
			anchorIdx = i
			break
		}
	}
	if anchorIdx > 0 {
		anchor := items[anchorIdx]
		copy(items[1:anchorIdx+1], items[:anchorIdx])
		items[0] = anchor
	}
	if anchorIdx >= 0 {
		items[0].FinalScore = AnchorFinalScore
	}

	topK := rctx.TopK
	if topK < 1 {
		topK = 1
	}
	if len(items) > topK {
		items = items[:topK]
	}
	return items, nil
}

var _ pipeline.Node = (*OrderNode)(nil)
