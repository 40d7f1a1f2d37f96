package rerank

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// MatchNode 判定候选是否与访客兴趣直接匹配，写入 item.Matched 与 item.MatchScore。
//
// 匹配判定（三者任一成立即算匹配）：
//   - tag_hits > 0
//   - category_hits > 0
//   - interest_jaccard > 0.25
//
// 匹配强度：
//
//	match_score = tag_hits*2.0 + category_hits*1.5 + interest_jaccard*1.0
type MatchNode struct{}

func (n *MatchNode) Name() string        { return "rerank.match" }
func (n *MatchNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MatchNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil {
			continue
		}
		tagHits := it.Feature("tag_hits")
		categoryHits := it.Feature("category_hits")
		jaccard := it.Feature("interest_jaccard")

		if tagHits > 0 || categoryHits > 0 || jaccard > 0.25 {
			it.Matched = true
			it.MatchScore = tagHits*2.0 + categoryHits*1.5 + jaccard*1.0
		} else {
			it.Matched = false
			it.MatchScore = 0
		}
	}
	return items, nil
}

var _ pipeline.Node = (*MatchNode)(nil)
