package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// DNNScorer 是本地推理的多层全连接网络打分器，常作为 ensemble 的次级成员。
//
// 工程特征：
//   - 实时性：好（本地推理，无网络开销）
//   - 计算复杂度：中等（多层全连接）
//   - 可解释性：弱（黑盒模型）
//
// 权重从训练侧导出的 JSON 加载；结构固定后推理完全确定。
type DNNScorer struct {
	// InputDim 输入向量维度
	InputDim int

	// Layers 每层的神经元数量，例如 [32, 16, 1]
	Layers []int

	// Weights 每层的权重矩阵：weights[layer][neuron][input]
	Weights [][][]float64

	// Biases 每层的偏置：biases[layer][neuron]
	Biases [][]float64
}

// LoadDNNScorer 从 JSON 权重文件加载，格式：
//
//	{"input_dim": 28, "layers": [32, 16, 1], "weights": [...], "biases": [...]}
func LoadDNNScorer(path string) (*DNNScorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		InputDim int           `json:"input_dim"`
		Layers   []int         `json:"layers"`
		Weights  [][][]float64 `json:"weights"`
		Biases   [][]float64   `json:"biases"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dnn weights: %w", err)
	}
	m := &DNNScorer{
		InputDim: raw.InputDim,
		Layers:   raw.Layers,
		Weights:  raw.Weights,
		Biases:   raw.Biases,
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("dnn weights %s: %w", path, err)
	}
	return m, nil
}

func (m *DNNScorer) validate() error {
	if m.InputDim <= 0 {
		return fmt.Errorf("input_dim must be positive")
	}
	if len(m.Layers) == 0 || m.Layers[len(m.Layers)-1] != 1 {
		return fmt.Errorf("last layer must have exactly 1 neuron")
	}
	if len(m.Weights) != len(m.Layers) || len(m.Biases) != len(m.Layers) {
		return fmt.Errorf("weights/biases layer count mismatch")
	}
	prev := m.InputDim
	for i, size := range m.Layers {
		if len(m.Weights[i]) != size || len(m.Biases[i]) != size {
			return fmt.Errorf("layer %d size mismatch", i)
		}
		for _, neuron := range m.Weights[i] {
			if len(neuron) != prev {
				return fmt.Errorf("layer %d input dim mismatch", i)
			}
		}
		prev = size
	}
	return nil
}

func (m *DNNScorer) Name() string { return "dnn" }

func (m *DNNScorer) NumFeatures() int { return m.InputDim }

func (m *DNNScorer) ScoreBatch(vectors [][]float64) ([]float64, error) {
	scores := make([]float64, len(vectors))
	for i, vec := range vectors {
		scores[i] = sigmoid(m.forward(vec))
	}
	return scores, nil
}

// forward 前向传播：隐层 ReLU，输出层不激活（sigmoid 在外层）。
func (m *DNNScorer) forward(input []float64) float64 {
	current := make([]float64, m.InputDim)
	copy(current, input)

	for layer := 0; layer < len(m.Layers); layer++ {
		next := make([]float64, m.Layers[layer])
		for j := 0; j < m.Layers[layer]; j++ {
			sum := m.Biases[layer][j]
			for k, w := range m.Weights[layer][j] {
				if k < len(current) {
					sum += w * current[k]
				}
			}
			if layer < len(m.Layers)-1 {
				next[j] = relu(sum)
			} else {
				next[j] = sum
			}
		}
		current = next
	}
	return current[0]
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
