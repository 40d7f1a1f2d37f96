package model

import (
	"fmt"
)

// Member 是集成中的一个加权成员。
type Member struct {
	Scorer Scorer
	Weight float64
}

// DimensionFix 记录一次向量维度修正：成员期望 Want 维，实际拿到 Got 维。
type DimensionFix struct {
	Model string
	Want  int
	Got   int
}

// Ensemble 按归一化权重对多个 Scorer 的输出做加权平均。
// 成员维度与输入向量不一致时按成员期望截断或补零，并通过
// OnDimensionFix 回调上报（由 service 层接日志）。
type Ensemble struct {
	members []Member

	// OnDimensionFix 每次维度修正时调用，可为 nil。
	OnDimensionFix func(DimensionFix)
}

// NewEnsemble 构建集成并把权重归一化到和为 1。
// 没有任何成员或权重和为 0 都是配置错误。
func NewEnsemble(members ...Member) (*Ensemble, error) {
	valid := make([]Member, 0, len(members))
	total := 0.0
	for _, m := range members {
		if m.Scorer == nil || m.Weight <= 0 {
			continue
		}
		valid = append(valid, m)
		total += m.Weight
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("ensemble requires at least one weighted scorer")
	}
	for i := range valid {
		valid[i].Weight /= total
	}
	return &Ensemble{members: valid}, nil
}

// Members 返回归一化后的成员列表（只读用途）。
func (e *Ensemble) Members() []Member {
	return e.members
}

// ScoreBatch 对同一批向量依次调用每个成员并加权求和。
// 任一成员打分失败即整体失败：集成的输出必须是完整的加权平均。
func (e *Ensemble) ScoreBatch(vectors [][]float64) ([]float64, error) {
	scores := make([]float64, len(vectors))
	if len(vectors) == 0 {
		return scores, nil
	}

	for _, m := range e.members {
		input := e.fitVectors(m, vectors)
		memberScores, err := m.Scorer.ScoreBatch(input)
		if err != nil {
			return nil, fmt.Errorf("ensemble member %s: %w", m.Scorer.Name(), err)
		}
		if len(memberScores) != len(vectors) {
			return nil, fmt.Errorf("ensemble member %s: score count mismatch: expected %d, got %d",
				m.Scorer.Name(), len(vectors), len(memberScores))
		}
		for i, s := range memberScores {
			scores[i] += m.Weight * s
		}
	}
	return scores, nil
}

// fitVectors 把向量批次调整为成员期望的维度：多截断，少补零。
// 成员声明任意维度（NumFeatures == 0）时原样透传。
func (e *Ensemble) fitVectors(m Member, vectors [][]float64) [][]float64 {
	want := m.Scorer.NumFeatures()
	if want <= 0 || len(vectors) == 0 || len(vectors[0]) == want {
		return vectors
	}

	if e.OnDimensionFix != nil {
		e.OnDimensionFix(DimensionFix{
			Model: m.Scorer.Name(),
			Want:  want,
			Got:   len(vectors[0]),
		})
	}

	fitted := make([][]float64, len(vectors))
	for i, vec := range vectors {
		fv := make([]float64, want)
		copy(fv, vec)
		fitted[i] = fv
	}
	return fitted
}
