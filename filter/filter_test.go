package filter

import (
	"context"
	"testing"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/store"
)

func TestInvalidFilter(t *testing.T) {
	f := &InvalidFilter{}
	ctx := context.Background()
	rctx := &core.RecommendContext{}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{name: "nil item", item: nil, want: true},
		{name: "empty id", item: &core.Item{ID: ""}, want: true},
		{name: "exhibit without id", item: &core.Item{ID: "x", Exhibit: &core.Exhibit{}}, want: true},
		{name: "valid", item: core.NewItem(&core.Exhibit{ID: "e1"}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlacklistFilter_InMemory(t *testing.T) {
	f := NewBlacklistFilter([]string{"banned"}, nil, "")
	ctx := context.Background()
	rctx := &core.RecommendContext{}

	banned := core.NewItem(&core.Exhibit{ID: "banned"})
	ok := core.NewItem(&core.Exhibit{ID: "ok"})

	if got, _ := f.ShouldFilter(ctx, rctx, banned); !got {
		t.Error("blacklisted exhibit must be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, rctx, ok); got {
		t.Error("clean exhibit must pass")
	}
}

func TestBlacklistFilter_Store(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "exhibit:blacklist", []byte(`["down1","down2"]`)); err != nil {
		t.Fatal(err)
	}
	f := NewBlacklistFilter(nil, NewStoreAdapter(ms), "exhibit:blacklist")

	if got, _ := f.ShouldFilter(ctx, &core.RecommendContext{}, core.NewItem(&core.Exhibit{ID: "down2"})); !got {
		t.Error("store-backed blacklist entry must be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, &core.RecommendContext{}, core.NewItem(&core.Exhibit{ID: "up"})); got {
		t.Error("exhibit absent from blacklist must pass")
	}
}

func TestStoreAdapter_MissingKey(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()

	ids, err := NewStoreAdapter(ms).GetBlacklist(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestFilterNode_Process(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&InvalidFilter{},
		NewBlacklistFilter([]string{"banned"}, nil, ""),
	}}

	items := []*core.Item{
		core.NewItem(&core.Exhibit{ID: "keep"}),
		core.NewItem(&core.Exhibit{ID: "banned"}),
		{ID: ""},
		nil,
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("out = %v, want only keep", out)
	}
	// 被过滤的候选带上 filtered 标签与来源
	if lbl, ok := items[1].Labels["filtered"]; !ok || lbl.Source != "filter.blacklist" {
		t.Errorf("filtered label = %+v, want source filter.blacklist", lbl)
	}
}
