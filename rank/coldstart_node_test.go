package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/exhibitkit/core"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name string
		ex   *core.Exhibit
		want float64
	}{
		{
			name: "bare exhibit",
			ex:   &core.Exhibit{ID: "e1", Rating: 3.0},
			want: 3.0 * 0.5,
		},
		{
			name: "category and long description",
			ex: &core.Exhibit{
				ID:          "e2",
				Rating:      4.5,
				Category:    "Physics",
				Description: "A hands-on gallery exploring forces, motion and energy in everyday life",
			},
			// 4.5*0.5 + 0.5*0.2 + 0.3*0.2
			want: 2.25 + 0.1 + 0.06,
		},
		{
			name: "feature tags capped at 1.0",
			ex: &core.Exhibit{
				ID:       "e3",
				Features: []string{"a", "b", "c", "d", "e", "f"},
			},
			// min(0.2*6, 1.0) = 1.0
			want: 1.0 * 0.1,
		},
		{
			name: "exhibit type counts as category",
			ex:   &core.Exhibit{ID: "e4", ExhibitType: "interactive"},
			want: 0.5 * 0.2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Heuristic(tt.ex); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Heuristic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColdStartNode_Process(t *testing.T) {
	node := &ColdStartNode{}
	items := []*core.Item{
		core.NewItem(&core.Exhibit{ID: "low", Rating: 3.0}),
		core.NewItem(&core.Exhibit{ID: "high", Rating: 4.5, Category: "Astronomy"}),
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID != "high" || out[1].ID != "low" {
		t.Errorf("order = [%s %s], want [high low]", out[0].ID, out[1].ID)
	}
	for _, it := range out {
		if it.FinalScore != it.RawScore {
			t.Errorf("item %s: FinalScore %v != RawScore %v", it.ID, it.FinalScore, it.RawScore)
		}
		lbl, ok := it.Labels["rank_model"]
		if !ok || lbl.Value != "coldstart" {
			t.Errorf("item %s: rank_model label = %+v", it.ID, lbl)
		}
	}
}

func TestColdStartNode_TieBreaksByID(t *testing.T) {
	node := &ColdStartNode{}
	rctx := &core.RecommendContext{}

	build := func(ids []string) []*core.Item {
		items := make([]*core.Item, 0, len(ids))
		for _, id := range ids {
			items = append(items, core.NewItem(&core.Exhibit{ID: id, Rating: 4.0}))
		}
		return items
	}

	// 同分展品的输出顺序不能依赖输入顺序
	for _, order := range [][]string{{"a", "b", "c"}, {"c", "a", "b"}, {"b", "c", "a"}} {
		out, err := node.Process(context.Background(), rctx, build(order))
		if err != nil {
			t.Fatal(err)
		}
		for i, want := range []string{"a", "b", "c"} {
			if out[i].ID != want {
				t.Fatalf("input %v: out[%d] = %s, want %s", order, i, out[i].ID, want)
			}
		}
	}
}

func TestColdStartNode_NilSafe(t *testing.T) {
	node := &ColdStartNode{}
	items := []*core.Item{
		nil,
		core.NewItem(&core.Exhibit{ID: "e1", Rating: 4.0}),
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == nil || out[0].ID != "e1" {
		t.Error("nil items must sort to the tail")
	}
}
