package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RPCScorer 通过 HTTP 调用外部推理服务打分。
// 支持 TensorFlow Serving、TorchServe 等向量输入的打分接口。
type RPCScorer struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCScorer(name, endpoint string, timeout time.Duration) *RPCScorer {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCScorer{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCScorer) Name() string {
	return m.name
}

// NumFeatures 返回 0：向量维度由远程服务约束，本地不做校验。
func (m *RPCScorer) NumFeatures() int { return 0 }

// ScoreBatch 调用远程服务进行批量打分。
// 请求格式（JSON）：
//
//	{"instances": [[0.15, 0.08, ...], ...]}
//
// 响应格式（JSON）：
//
//	{"scores": [0.85, 0.72, ...]}
func (m *RPCScorer) ScoreBatch(vectors [][]float64) ([]float64, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	if len(vectors) == 0 {
		return []float64{}, nil
	}

	reqBody := map[string]any{
		"instances": vectors,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Scores) != len(vectors) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(vectors), len(result.Scores))
	}

	return result.Scores, nil
}
