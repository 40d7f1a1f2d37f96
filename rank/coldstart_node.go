package rank

import (
	"context"
	"sort"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
	"github.com/rushteam/exhibitkit/pkg/utils"
)

// ColdStartNode 是无兴趣访客的兜底排序节点：不依赖模型，
// 按评分、品类完整度、描述信息量和互动特征数的启发式组合打分。
//
// 打分公式：
//
//	score = rating*0.5 + categoryBonus*0.2 + descBonus*0.2 + featuresBonus*0.1
//
// 其中 categoryBonus = 0.5（有品类时）、descBonus = 0.3（描述超过 50 字符时）、
// featuresBonus = min(0.2*len(features), 1.0)。
type ColdStartNode struct{}

func (n *ColdStartNode) Name() string        { return "rank.coldstart" }
func (n *ColdStartNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ColdStartNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil || it.Exhibit == nil {
			continue
		}
		it.RawScore = Heuristic(it.Exhibit)
		it.FinalScore = it.RawScore
		it.PutLabel("rank_model", utils.Label{Value: "coldstart", Source: "rank"})
	}

	// 同分时按 ID 升序，保证输出与输入顺序无关
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
		return a.ID < b.ID
	})
	return items, nil
}

// Heuristic 计算单个展品的冷启动分数。
func Heuristic(ex *core.Exhibit) float64 {
	ratingScore := ex.Rating

	categoryBonus := 0.0
	if ex.EffectiveCategory() != "" {
		categoryBonus = 0.5
	}

	descBonus := 0.0
	if len(ex.Description) > 50 {
		descBonus = 0.3
	}

	featuresBonus := 0.0
	if n := len(ex.FeatureTags()); n > 0 {
		featuresBonus = min(0.2*float64(n), 1.0)
	}

	return ratingScore*0.5 + categoryBonus*0.2 + descBonus*0.2 + featuresBonus*0.1
}

var _ pipeline.Node = (*ColdStartNode)(nil)
