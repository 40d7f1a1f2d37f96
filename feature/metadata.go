package feature

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata 是特征元数据，对应训练侧导出的 feature_keys.json。
// FeatureColumns 的顺序即向量维度顺序，是 Builder 与 Scorer 之间的契约：
// 必须随模型一同持久化，加载时以持久化的顺序为准。
type Metadata struct {
	// FeatureColumns 特征列名列表（按顺序）
	FeatureColumns []string `json:"feature_columns"`
	// FeatureCount 特征数量
	FeatureCount int `json:"feature_count"`
	// ModelVersion 模型版本
	ModelVersion string `json:"model_version,omitempty"`
	// Advanced 是否包含扩展特征
	Advanced bool `json:"advanced,omitempty"`
	// CreatedAt 创建时间
	CreatedAt string `json:"created_at,omitempty"`
}

// DefaultMetadata 返回代码内置顺序的元数据（无持久化文件时的兜底）。
func DefaultMetadata(advanced bool) *Metadata {
	cols := make([]string, 0, len(BaseFeatureKeys)+len(AdvancedFeatureKeys))
	cols = append(cols, BaseFeatureKeys...)
	if advanced {
		cols = append(cols, AdvancedFeatureKeys...)
	}
	return &Metadata{
		FeatureColumns: cols,
		FeatureCount:   len(cols),
		Advanced:       advanced,
	}
}

// LoadMetadata 从文件加载特征元数据。
// 兼容两种格式：完整对象，或训练脚本直接 dump 的列名数组。
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err == nil && len(meta.FeatureColumns) > 0 {
		meta.FeatureCount = len(meta.FeatureColumns)
		return &meta, nil
	}

	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("parse feature metadata: %w", err)
	}
	return &Metadata{FeatureColumns: cols, FeatureCount: len(cols)}, nil
}

// Save 持久化特征元数据（与模型权重一同导出）。
func (m *Metadata) Save(path string) error {
	m.FeatureCount = len(m.FeatureColumns)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feature metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Vector 按 FeatureColumns 顺序把特征 map 编成定长向量。
// 缺失的 key 填 0.0，多余的 key 忽略——这正是 Builder 与持久化
// key 列表之间的宽容匹配规则。
func (m *Metadata) Vector(features map[string]float64) []float64 {
	vec := make([]float64, len(m.FeatureColumns))
	for i, col := range m.FeatureColumns {
		vec[i] = features[col]
	}
	return vec
}

// FeatureScaler 特征标准化器，对应 feature_scaler.json。
// 每个特征对应一个 ScalerParams，包含 mean 和 std。
type FeatureScaler map[string]ScalerParams

// ScalerParams 标准化参数
type ScalerParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// LoadScaler 从文件加载特征标准化器。
func LoadScaler(path string) (FeatureScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature scaler: %w", err)
	}
	var scaler FeatureScaler
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("parse feature scaler: %w", err)
	}
	return scaler, nil
}

// Normalize 使用标准化器对特征进行标准化（Z-score）。
// 不在 scaler 中的特征保持不变；std <= 0 时返回原值。
func (s FeatureScaler) Normalize(features map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(features))
	for k, v := range features {
		normalized[k] = v
		if params, ok := s[k]; ok && params.Std > 0 {
			normalized[k] = (v - params.Mean) / params.Std
		}
	}
	return normalized
}
