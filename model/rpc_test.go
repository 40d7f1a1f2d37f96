package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRPCScorer_ScoreBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scores := make([]float64, len(req.Instances))
		for i, v := range req.Instances {
			scores[i] = v[0] // 回显首维，便于断言请求体
		}
		json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
	defer srv.Close()

	m := NewRPCScorer("rpc", srv.URL, time.Second)
	scores, err := m.ScoreBatch([][]float64{{0.1, 0.9}, {0.7, 0.2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || !almostEqual(scores[0], 0.1) || !almostEqual(scores[1], 0.7) {
		t.Errorf("scores = %v", scores)
	}
}

func TestRPCScorer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewRPCScorer("rpc", srv.URL, time.Second)
	if _, err := m.ScoreBatch([][]float64{{1}}); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestRPCScorer_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"scores": []float64{0.5}})
	}))
	defer srv.Close()

	m := NewRPCScorer("rpc", srv.URL, time.Second)
	if _, err := m.ScoreBatch([][]float64{{1}, {2}}); err == nil {
		t.Error("expected error when score count differs from instance count")
	}
}

func TestRPCScorer_EmptyBatch(t *testing.T) {
	m := NewRPCScorer("rpc", "http://unreachable.invalid", time.Second)
	scores, err := m.ScoreBatch(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("scores = %v, want empty without any rpc call", scores)
	}
}
