package rerank

import (
	"context"
	"fmt"
	"testing"

	"github.com/rushteam/exhibitkit/core"
)

func strictItem(id string, raw, match float64, matched bool) *core.Item {
	it := core.NewItem(&core.Exhibit{ID: id})
	it.RawScore = raw
	it.MatchScore = match
	it.Matched = matched
	return it
}

func interestCtx(topK int) *core.RecommendContext {
	return &core.RecommendContext{
		Visitor: &core.VisitorProfile{Interests: []string{"stars"}},
		TopK:    topK,
	}
}

func TestStrictNode_MatchedOnlyHead(t *testing.T) {
	node := &StrictNode{}

	var items []*core.Item
	for i := 0; i < 12; i++ {
		items = append(items, strictItem(fmt.Sprintf("m%02d", i), float64(i)*0.01, 1.0, true))
	}
	for i := 0; i < 8; i++ {
		items = append(items, strictItem(fmt.Sprintf("u%02d", i), 0.9, 0, false))
	}

	// topK=5 时 strict_k = min(15, max(10, 5)) = 10
	out, err := node.Process(context.Background(), interestCtx(5), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Fatalf("len = %d, want strict_k = 10", len(out))
	}
	for _, it := range out {
		if !it.Matched {
			t.Fatalf("unmatched item %s leaked into strict head", it.ID)
		}
	}
	// priority = raw + match*2.0，降序
	for i := 1; i < len(out); i++ {
		if out[i].PriorityScore > out[i-1].PriorityScore {
			t.Fatalf("priority order violated at %d", i)
		}
	}
}

func TestStrictNode_AllMatchedWhenFew(t *testing.T) {
	node := &StrictNode{}
	items := []*core.Item{
		strictItem("m1", 0.5, 1.0, true),
		strictItem("m2", 0.4, 2.0, true),
		strictItem("u1", 0.9, 0, false),
	}

	out, err := node.Process(context.Background(), interestCtx(10), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want only the 2 matched items", len(out))
	}
	// m2: 0.4 + 2*2 = 4.4 > m1: 0.5 + 1*2 = 2.5
	if out[0].ID != "m2" {
		t.Errorf("head = %s, want m2", out[0].ID)
	}
}

func TestStrictNode_FallbackWithoutMatches(t *testing.T) {
	node := &StrictNode{}
	items := []*core.Item{
		strictItem("u1", 0.9, 0, false),
		strictItem("u2", 0.7, 0, false),
		strictItem("u3", 0.5, 0, false),
	}

	out, err := node.Process(context.Background(), interestCtx(2), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want topK = 2", len(out))
	}
	if out[0].ID != "u1" {
		t.Errorf("head = %s, want u1 (highest raw)", out[0].ID)
	}
	if !almostEqual(out[0].PriorityScore, 0.9*0.2) {
		t.Errorf("fallback priority = %v, want raw*0.2", out[0].PriorityScore)
	}
}

func TestStrictNode_NoInterestsBackfill(t *testing.T) {
	node := &StrictNode{}
	rctx := &core.RecommendContext{Visitor: &core.VisitorProfile{}, TopK: 3}
	items := []*core.Item{
		strictItem("m1", 0.4, 1.0, true),
		strictItem("u1", 0.8, 0, false),
		strictItem("u2", 0.6, 0, false),
		strictItem("u3", 0.2, 0, false),
	}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].ID != "m1" {
		t.Errorf("matched item must lead, got %s", out[0].ID)
	}
	if out[1].ID != "u1" || out[2].ID != "u2" {
		t.Errorf("backfill order = [%s %s], want [u1 u2]", out[1].ID, out[2].ID)
	}
	if !almostEqual(out[1].PriorityScore, 0.8*0.5) {
		t.Errorf("backfill priority = %v, want raw*0.5", out[1].PriorityScore)
	}
}

func TestStrictNode_AnchorLeadsMatched(t *testing.T) {
	node := &StrictNode{}
	anchor := strictItem("anchor", 0.1, AnchorMatchScore, true)
	anchor.Anchor = true
	strong := strictItem("strong", 0.95, 3.0, true)

	out, err := node.Process(context.Background(), interestCtx(5), []*core.Item{strong, anchor})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID != "anchor" {
		t.Errorf("head = %s, want anchor regardless of priority", out[0].ID)
	}
}

func TestStrictNode_TieAtCutoffIsPermutationInvariant(t *testing.T) {
	node := &StrictNode{}

	// 12 个匹配候选同优先分，strict_k = 10：截断边界上的取舍按 ID 决定
	build := func(reversed bool) []*core.Item {
		items := make([]*core.Item, 0, 12)
		for i := 0; i < 12; i++ {
			items = append(items, strictItem(fmt.Sprintf("m%02d", i), 0.5, 1.0, true))
		}
		if reversed {
			for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
				items[i], items[j] = items[j], items[i]
			}
		}
		return items
	}

	first, err := node.Process(context.Background(), interestCtx(5), build(false))
	if err != nil {
		t.Fatal(err)
	}
	second, err := node.Process(context.Background(), interestCtx(5), build(true))
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("lens = %d/%d, want strict_k = 10", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("selection depends on input order at %d: %s vs %s",
				i, first[i].ID, second[i].ID)
		}
	}
	// ID 升序即为期望序（分数全同）
	for i := 0; i < len(first); i++ {
		if want := fmt.Sprintf("m%02d", i); first[i].ID != want {
			t.Errorf("first[%d] = %s, want %s", i, first[i].ID, want)
		}
	}
}

func TestStrictNode_UnmatchedTieBreaksByID(t *testing.T) {
	node := &StrictNode{}
	rctx := &core.RecommendContext{Visitor: &core.VisitorProfile{}, TopK: 2}

	items := []*core.Item{
		strictItem("z", 0.5, 0, false),
		strictItem("a", 0.5, 0, false),
		strictItem("m", 0.5, 0, false),
	}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "m" {
		t.Errorf("out = %v, want [a m]", out)
	}
}

func TestStrictNode_TopKClamped(t *testing.T) {
	node := &StrictNode{}
	items := []*core.Item{strictItem("u1", 0.9, 0, false)}

	out, err := node.Process(context.Background(), interestCtx(0), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("len = %d, want 1 with topK clamped", len(out))
	}
}
