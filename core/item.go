package core

import "github.com/rushteam/exhibitkit/pkg/utils"

// Item 是重排链路中的统一候选结构：展品引用、特征、各阶段分数、标签。
// 每个请求构建一次，响应产出后即丢弃，从不持久化。
//
// 分数字段按阶段写入：
//   RawScore      排序模型（ensemble）的原始输出
//   Confidence    特征子集加权的稳定项，仅作次级信号
//   MatchScore    兴趣匹配分（matched 候选才有）
//   PriorityScore RawScore + 2*MatchScore（严格筛选用）
//   FinalScore    最终混合分（anchor 候选为哨兵最大值）
type Item struct {
	ID      string
	Exhibit *Exhibit

	Features map[string]float64

	RawScore      float64
	Confidence    float64
	MatchScore    float64
	PriorityScore float64
	FinalScore    float64

	// Matched 表示通过了兴趣匹配判定
	Matched bool

	// Anchor 表示被 anchor 规则锁定在结果首位
	Anchor bool

	Labels map[string]utils.Label
}

func NewItem(ex *Exhibit) *Item {
	return &Item{
		ID:       ex.ID,
		Exhibit:  ex,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Feature 读取单个特征值，缺失返回 0。
func (it *Item) Feature(key string) float64 {
	if it.Features == nil {
		return 0
	}
	return it.Features[key]
}
