package feature

import (
	"reflect"
	"testing"

	"github.com/rushteam/exhibitkit/core"
)

func TestBuilder_Build_FeatureKeys(t *testing.T) {
	b := NewBuilder()
	visitor := &core.VisitorProfile{Interests: []string{"astronomy"}}
	ex := &core.Exhibit{ID: "e1", Name: "Star Dome", Category: "Astronomy"}

	features := b.Build(visitor, ex)
	if len(features) != len(BaseFeatureKeys) {
		t.Fatalf("base features count = %d, want %d", len(features), len(BaseFeatureKeys))
	}
	for _, key := range BaseFeatureKeys {
		if _, ok := features[key]; !ok {
			t.Errorf("missing base feature %q", key)
		}
	}

	advanced := b.BuildAdvanced(visitor, ex)
	if len(advanced) != len(BaseFeatureKeys)+len(AdvancedFeatureKeys) {
		t.Fatalf("advanced features count = %d, want %d",
			len(advanced), len(BaseFeatureKeys)+len(AdvancedFeatureKeys))
	}
	for _, key := range AdvancedFeatureKeys {
		if _, ok := advanced[key]; !ok {
			t.Errorf("missing advanced feature %q", key)
		}
	}
}

func TestBuilder_Build_Values(t *testing.T) {
	b := NewBuilder()
	visitor := &core.VisitorProfile{
		Interests:      []string{"stars", "physics"},
		AgeBand:        "6-12",
		GroupType:      "family",
		TimeBudget:     90,
		Mobility:       "none",
		CrowdTolerance: "low",
	}
	ex := &core.Exhibit{
		ID:          "e1",
		Name:        "Stars of the Night",
		Description: "Explore stars and constellations in our night sky theatre",
		Category:    "Astronomy",
		AgeRange:    "6-12",
		GroupType:   "family",
		Tags:        []string{"stars", "space"},
	}

	features := b.Build(visitor, ex)

	// "stars" 命中 name/desc/全文，"physics" 不命中
	if features["interest_hits"] != 1.0 {
		t.Errorf("interest_hits = %v, want 1", features["interest_hits"])
	}
	if features["name_hits"] != 1.0 {
		t.Errorf("name_hits = %v, want 1", features["name_hits"])
	}
	if features["desc_hits"] != 1.0 {
		t.Errorf("desc_hits = %v, want 1", features["desc_hits"])
	}
	// "stars" 在标签里完全命中 -> 1.0；"physics" 无模糊命中
	if features["tag_hits"] != 1.0 {
		t.Errorf("tag_hits = %v, want 1", features["tag_hits"])
	}
	// interests {stars, physics} vs tags {stars, space}: 1 / 3
	if !almostEqual(features["interest_jaccard"], 1.0/3.0) {
		t.Errorf("interest_jaccard = %v, want 1/3", features["interest_jaccard"])
	}
	if features["age_match"] != 1.0 {
		t.Errorf("age_match = %v, want 1", features["age_match"])
	}
	if features["group_match"] != 1.0 {
		t.Errorf("group_match = %v, want 1", features["group_match"])
	}
	if features["category_known"] != 1.0 {
		t.Errorf("category_known = %v, want 1", features["category_known"])
	}
	if features["time_budget"] != 90.0 {
		t.Errorf("time_budget = %v, want 90", features["time_budget"])
	}
	if features["mobility_none"] != 1.0 || features["crowd_low"] != 1.0 {
		t.Error("one-hot mobility/crowd features not set")
	}
	if features["crowd_medium"] != 0.0 || features["crowd_high"] != 0.0 {
		t.Error("crowd one-hot must be exclusive")
	}
}

func TestBuilder_Build_DescKeywordFallback(t *testing.T) {
	b := NewBuilder()
	visitor := &core.VisitorProfile{Interests: []string{"electricity"}}
	// 无 features/tags：从描述合成标签集
	ex := &core.Exhibit{
		ID:          "e1",
		Name:        "Spark Lab",
		Description: "Discover electricity through interactive demonstrations",
	}

	features := b.Build(visitor, ex)
	if features["tag_hits"] < 1.0 {
		t.Errorf("tag_hits = %v, want >= 1 via description keyword fallback", features["tag_hits"])
	}
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	b := NewBuilder()
	visitor := &core.VisitorProfile{Interests: []string{"astronomy", "space science"}}
	ex := &core.Exhibit{
		ID:          "e1",
		Name:        "Star Dome Taramandal",
		Description: "A planetarium experience with stars, planets and the cosmos",
		Category:    "Astronomy",
		Tags:        []string{"stars", "planetarium"},
	}

	first := b.BuildAdvanced(visitor, ex)
	for i := 0; i < 10; i++ {
		if got := b.BuildAdvanced(visitor, ex); !reflect.DeepEqual(first, got) {
			t.Fatalf("BuildAdvanced not deterministic on run %d", i)
		}
	}
}

func TestBuilder_EmptyInterests(t *testing.T) {
	b := NewBuilder()
	visitor := &core.VisitorProfile{}
	ex := &core.Exhibit{ID: "e1", Name: "Anything", Category: "Physics"}

	features := b.Build(visitor, ex)
	for _, key := range []string{"interest_hits", "tag_hits", "category_hits", "interest_jaccard"} {
		if features[key] != 0.0 {
			t.Errorf("%s = %v, want 0 with no interests", key, features[key])
		}
	}
	if features["category_known"] != 1.0 {
		t.Error("category_known should not depend on interests")
	}
}
