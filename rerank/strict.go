package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// StrictNode 执行严格兴趣筛选：访客带兴趣时，头部位置只允许兴趣匹配的候选。
//
// 流程：
//  1. 匹配候选的优先分 priority = raw + match*2.0，按（锚定优先，优先分降序）排序
//  2. 未匹配候选按 raw 降序排序
//  3. strict_k = min(15, max(10, topK))
//  4. 带兴趣：匹配数 >= strict_k 取前 strict_k；>= topK 取前 topK；
//     有则全取；一个都没有时退化为未匹配前 topK，优先分 = raw*0.2
//  5. 无兴趣：匹配优先，不足 topK 用未匹配补齐，补齐者优先分 = raw*0.5
type StrictNode struct{}

func (n *StrictNode) Name() string        { return "rerank.strict" }
func (n *StrictNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *StrictNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	topK := rctx.TopK
	if topK < 1 {
		topK = 1
	}

	matched := make([]*core.Item, 0, len(items))
	unmatched := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Matched {
			it.PriorityScore = it.RawScore + it.MatchScore*2.0
			matched = append(matched, it)
		} else {
			it.PriorityScore = 0
			unmatched = append(unmatched, it)
		}
	}

	// 同分平局按 RawScore 降序再 ID 升序：截断边界上的取舍
	// 不能依赖输入顺序
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Anchor != b.Anchor {
			return a.Anchor
		}
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.RawScore != b.RawScore {
			return a.RawScore > b.RawScore
		}
		return a.ID < b.ID
	})
	sort.SliceStable(unmatched, func(i, j int) bool {
		a, b := unmatched[i], unmatched[j]
		if a.RawScore != b.RawScore {
			return a.RawScore > b.RawScore
		}
		return a.ID < b.ID
	})

	strictK := min(15, max(10, topK))

	if rctx.Visitor != nil && rctx.Visitor.HasInterests() {
		switch {
		case len(matched) >= strictK:
			return matched[:strictK], nil
		case len(matched) >= topK:
			return matched[:topK], nil
		case len(matched) > 0:
			return matched, nil
		default:
			// 没有任何兴趣匹配：退化为未匹配候选，重罚优先分
			fallback := unmatched
			if len(fallback) > topK {
				fallback = fallback[:topK]
			}
			for _, it := range fallback {
				it.PriorityScore = it.RawScore * 0.2
			}
			return fallback, nil
		}
	}

	// 无兴趣：匹配优先，未匹配补齐
	if len(matched) >= topK {
		return matched[:topK], nil
	}
	out := matched
	for _, it := range unmatched {
		if len(out) >= topK {
			break
		}
		it.PriorityScore = it.RawScore * 0.5
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*StrictNode)(nil)
