package rerank

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// ConfidenceNode 根据已构建的特征计算推荐置信度，写入 item.Confidence。
// 置信度是特征的固定加权和，独立于模型输出，供后续融合阶段使用。
//
// 扩展特征模式：
//
//	tag_hits*0.25 + category_hits*0.20 + desc_similarity*0.20 +
//	expanded_coverage_full*0.15 + interest_jaccard*0.10 + bigram_overlap*0.10
//
// 基础特征模式：
//
//	tag_hits*0.30 + category_hits*0.25 + desc_similarity*0.20 +
//	interest_jaccard*0.15 + category_similarity*0.10
type ConfidenceNode struct{}

func (n *ConfidenceNode) Name() string        { return "rerank.confidence" }
func (n *ConfidenceNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *ConfidenceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Confidence = Confidence(it.Features, rctx.Advanced)
	}
	return items, nil
}

// Confidence 计算单个候选的置信度。
func Confidence(features map[string]float64, advanced bool) float64 {
	if advanced {
		return features["tag_hits"]*0.25 +
			features["category_hits"]*0.20 +
			features["desc_similarity"]*0.20 +
			features["expanded_coverage_full"]*0.15 +
			features["interest_jaccard"]*0.10 +
			features["bigram_overlap"]*0.10
	}
	return features["tag_hits"]*0.3 +
		features["category_hits"]*0.25 +
		features["desc_similarity"]*0.2 +
		features["interest_jaccard"]*0.15 +
		features["category_similarity"]*0.1
}

var _ pipeline.Node = (*ConfidenceNode)(nil)
