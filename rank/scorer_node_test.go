package rank

import (
	"context"
	"fmt"
	"testing"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/feature"
	"github.com/rushteam/exhibitkit/model"
)

// tagScorer 按 tag_hits 特征位打分，便于断言特征向量确实传到了模型。
type tagScorer struct {
	columns []string
}

func (s *tagScorer) Name() string     { return "tag" }
func (s *tagScorer) NumFeatures() int { return len(s.columns) }

func (s *tagScorer) ScoreBatch(vectors [][]float64) ([]float64, error) {
	idx := -1
	for i, c := range s.columns {
		if c == "tag_hits" {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("tag_hits column missing")
	}
	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = v[idx]
	}
	return scores, nil
}

func newTestScorerNode(t *testing.T) *ScorerNode {
	t.Helper()
	meta := feature.DefaultMetadata(false)
	ens, err := model.NewEnsemble(model.Member{
		Scorer: &tagScorer{columns: meta.FeatureColumns},
		Weight: 1.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &ScorerNode{
		Builder:  feature.NewBuilder(),
		Metadata: meta,
		Ensemble: ens,
	}
}

func TestScorerNode_Process(t *testing.T) {
	node := newTestScorerNode(t)
	rctx := &core.RecommendContext{
		Visitor: &core.VisitorProfile{Interests: []string{"stars"}},
	}
	items := []*core.Item{
		core.NewItem(&core.Exhibit{ID: "dinos", Name: "Dino Hall", Tags: []string{"fossils"}}),
		core.NewItem(&core.Exhibit{ID: "dome", Name: "Star Dome", Tags: []string{"stars"}}),
	}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	// "stars" 精确命中 dome 的标签，tag_hits = 1，排到首位
	if out[0].ID != "dome" {
		t.Errorf("top item = %s, want dome", out[0].ID)
	}
	if out[0].RawScore != 1.0 {
		t.Errorf("dome RawScore = %v, want 1.0", out[0].RawScore)
	}
	if out[1].RawScore >= out[0].RawScore {
		t.Errorf("sort violated: %v >= %v", out[1].RawScore, out[0].RawScore)
	}
	lbl, ok := out[0].Labels["rank_model"]
	if !ok || lbl.Value != "tag" {
		t.Errorf("rank_model label = %+v, want tag", lbl)
	}
	if len(out[0].Features) == 0 {
		t.Error("features must be retained on the item")
	}
}

func TestScorerNode_Deterministic(t *testing.T) {
	node := newTestScorerNode(t)
	node.Concurrency = 4
	rctx := &core.RecommendContext{
		Visitor:  &core.VisitorProfile{Interests: []string{"space", "light"}},
		Advanced: true,
	}

	build := func() []*core.Item {
		var items []*core.Item
		for i := 0; i < 20; i++ {
			items = append(items, core.NewItem(&core.Exhibit{
				ID:       fmt.Sprintf("e%02d", i),
				Name:     fmt.Sprintf("Exhibit %d", i),
				Category: "Science",
				Tags:     []string{"space", "hands-on"},
			}))
		}
		return items
	}

	first, err := node.Process(context.Background(), rctx, build())
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 5; run++ {
		got, err := node.Process(context.Background(), rctx, build())
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if got[i].ID != first[i].ID || got[i].RawScore != first[i].RawScore {
				t.Fatalf("run %d not deterministic at index %d: %s/%v vs %s/%v",
					run, i, got[i].ID, got[i].RawScore, first[i].ID, first[i].RawScore)
			}
		}
	}
}

func TestScorerNode_RealtimeFeaturesMerged(t *testing.T) {
	node := newTestScorerNode(t)
	rctx := &core.RecommendContext{Visitor: &core.VisitorProfile{}}

	it := core.NewItem(&core.Exhibit{ID: "e1", Name: "Wave Tank"})
	it.Features["realtime_visits"] = 42.0

	out, err := node.Process(context.Background(), rctx, []*core.Item{it})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Features["realtime_visits"] != 42.0 {
		t.Errorf("realtime feature lost: %v", out[0].Features["realtime_visits"])
	}
}

func TestScorerNode_MissingDeps(t *testing.T) {
	node := &ScorerNode{}
	items := []*core.Item{core.NewItem(&core.Exhibit{ID: "e1"})}
	if _, err := node.Process(context.Background(), &core.RecommendContext{}, items); err == nil {
		t.Error("expected error without builder/metadata/ensemble")
	}
}

func TestScorerNode_EmptyInput(t *testing.T) {
	node := &ScorerNode{}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("got %d items, want 0", len(out))
	}
}
