package rank

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/feature"
	"github.com/rushteam/exhibitkit/model"
	"github.com/rushteam/exhibitkit/pipeline"
	"github.com/rushteam/exhibitkit/pkg/utils"
)

// ScorerNode 是精排节点：为每个候选构建特征向量并用集成模型批量打分。
// - 特征构建按候选并发执行（索引写入，结果顺序与输入一致）
// - 写入 labels：rank_model
// - 更新 item.RawScore 并按分数降序稳定排序
type ScorerNode struct {
	Builder  *feature.Builder
	Metadata *feature.Metadata
	Scaler   feature.FeatureScaler // 可为 nil
	Ensemble *model.Ensemble

	// Concurrency 特征构建的最大并发数（<=0 时取 8）
	Concurrency int
}

func (n *ScorerNode) Name() string        { return "rank.scorer" }
func (n *ScorerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScorerNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if n.Builder == nil || n.Metadata == nil || n.Ensemble == nil {
		return nil, fmt.Errorf("rank.scorer: builder/metadata/ensemble are required")
	}

	vectors := make([][]float64, len(items))
	eg, _ := errgroup.WithContext(ctx)
	limit := n.Concurrency
	if limit <= 0 {
		limit = 8
	}
	eg.SetLimit(limit)

	for i, it := range items {
		i, it := i, it
		eg.Go(func() error {
			if it == nil || it.Exhibit == nil {
				vectors[i] = make([]float64, len(n.Metadata.FeatureColumns))
				return nil
			}
			var feats map[string]float64
			if rctx.Advanced {
				feats = n.Builder.BuildAdvanced(rctx.Visitor, it.Exhibit)
			} else {
				feats = n.Builder.Build(rctx.Visitor, it.Exhibit)
			}
			// 注入节点写入的实时特征并入特征 map
			for k, v := range it.Features {
				if _, ok := feats[k]; !ok {
					feats[k] = v
				}
			}
			if n.Scaler != nil {
				feats = n.Scaler.Normalize(feats)
			}
			it.Features = feats
			vectors[i] = n.Metadata.Vector(feats)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	scores, err := n.Ensemble.ScoreBatch(vectors)
	if err != nil {
		return nil, fmt.Errorf("rank.scorer: %w", err)
	}

	for i, it := range items {
		if it == nil {
			continue
		}
		it.RawScore = scores[i]
		it.PutLabel("rank_model", utils.Label{Value: memberNames(n.Ensemble), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].RawScore > items[j].RawScore
	})
	return items, nil
}

func memberNames(e *model.Ensemble) string {
	names := ""
	for i, m := range e.Members() {
		if i > 0 {
			names += "|"
		}
		names += m.Scorer.Name()
	}
	return names
}

var _ pipeline.Node = (*ScorerNode)(nil)
