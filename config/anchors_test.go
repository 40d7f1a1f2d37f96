package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompileAnchorRules(t *testing.T) {
	rules, err := CompileAnchorRules([]AnchorRuleConfig{
		{
			Name:      "dino-week",
			Keywords:  []string{" Dinosaur ", "FOSSIL", ""},
			Predicate: `exhibit.category.contains("dinosaur")`,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}
	// 关键词小写并去空白，空关键词剔除
	got := rules[0].Keywords
	if len(got) != 2 || got[0] != "dinosaur" || got[1] != "fossil" {
		t.Errorf("keywords = %v", got)
	}
	if rules[0].Predicate == nil {
		t.Error("predicate not compiled")
	}
}

func TestCompileAnchorRules_Errors(t *testing.T) {
	if _, err := CompileAnchorRules([]AnchorRuleConfig{
		{Name: "no-keywords", Predicate: "true"},
	}); err == nil {
		t.Error("expected error for rule without keywords")
	}

	if _, err := CompileAnchorRules([]AnchorRuleConfig{
		{Name: "bad-predicate", Keywords: []string{"x"}, Predicate: "exhibit.name.contains("},
	}); err == nil {
		t.Error("expected error for malformed predicate")
	}
}

func TestLoadAnchorRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anchors.yaml")
	content := `anchors:
  - name: astronomy-taramandal
    keywords: [stars, astronomy, taramandal]
    predicate: 'exhibit.name.contains("taramandal")'
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadAnchorRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || rules[0].Name != "astronomy-taramandal" {
		t.Errorf("rules = %+v", rules)
	}
	if !rules[0].Triggered([]string{"I like Stars"}) {
		t.Error("loaded rule must trigger on keyword substring")
	}

	if _, err := LoadAnchorRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
