package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LinearScorer 实现了逻辑回归 (Logistic Regression) 打分器。
// 它是排序模型最基础也最经典的形态，也常作为 ensemble 的次级成员。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Vector_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// Weights 的顺序与特征元数据 FeatureColumns 一一对应。
type LinearScorer struct {
	Bias    float64   // 偏置项 (Bias / Intercept)
	Weights []float64 // 特征权重，按 FeatureColumns 顺序
}

// LoadLinearScorer 从 JSON 权重文件加载，格式：
//
//	{"bias": -0.3, "weights": [0.8, 1.2, ...]}
func LoadLinearScorer(path string) (*LinearScorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Bias    float64   `json:"bias"`
		Weights []float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse linear weights: %w", err)
	}
	if len(raw.Weights) == 0 {
		return nil, fmt.Errorf("linear weights empty: %s", path)
	}
	return &LinearScorer{Bias: raw.Bias, Weights: raw.Weights}, nil
}

func (m *LinearScorer) Name() string { return "linear" }

func (m *LinearScorer) NumFeatures() int { return len(m.Weights) }

func (m *LinearScorer) ScoreBatch(vectors [][]float64) ([]float64, error) {
	scores := make([]float64, len(vectors))
	for i, vec := range vectors {
		z := m.Bias
		for j, w := range m.Weights {
			if j < len(vec) {
				z += w * vec[j]
			}
		}
		scores[i] = sigmoid(z)
	}
	return scores, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
