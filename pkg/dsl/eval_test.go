package dsl

import (
	"testing"

	"github.com/rushteam/exhibitkit/core"
)

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		name string
		expr string
		ex   *core.Exhibit
		want bool
	}{
		{
			name: "name contains, lowered",
			expr: `exhibit.name.contains("taramandal")`,
			ex:   &core.Exhibit{ID: "e1", Name: "Star Dome TARAMANDAL"},
			want: true,
		},
		{
			name: "id is matched verbatim",
			expr: `exhibit.id == "ABC"`,
			ex:   &core.Exhibit{ID: "ABC"},
			want: true,
		},
		{
			name: "category falls back to exhibit type",
			expr: `exhibit.category.contains("interactive")`,
			ex:   &core.Exhibit{ID: "e1", ExhibitType: "Interactive"},
			want: true,
		},
		{
			name: "full text search",
			expr: `exhibit.text.contains("planets")`,
			ex:   &core.Exhibit{ID: "e1", Description: "All about planets"},
			want: true,
		},
		{
			name: "no match",
			expr: `exhibit.name.contains("dinosaur")`,
			ex:   &core.Exhibit{ID: "e1", Name: "Wave Tank"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.expr, err)
			}
			got, err := p.MatchExhibit(tt.ex)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("MatchExhibit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_EmptyExprAlwaysTrue(t *testing.T) {
	p, err := Compile("")
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.MatchExhibit(&core.Exhibit{ID: "e1"})
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("empty predicate must match everything")
	}
}

func TestCompile_BadExpr(t *testing.T) {
	if _, err := Compile(`exhibit.name.contains(`); err == nil {
		t.Error("expected compile error for malformed expression")
	}
}

func TestMatchExhibit_NonBoolean(t *testing.T) {
	p, err := Compile(`exhibit.name`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.MatchExhibit(&core.Exhibit{ID: "e1", Name: "x"}); err == nil {
		t.Error("expected error for non-boolean expression result")
	}
}

func TestMatchExhibit_NilExhibit(t *testing.T) {
	p, err := Compile(`exhibit.id == "x"`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.MatchExhibit(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("nil exhibit must not match")
	}
}
