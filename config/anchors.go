package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/exhibitkit/pkg/dsl"
	"github.com/rushteam/exhibitkit/rerank"
)

// AnchorRuleConfig 是锚定规则的配置形态（YAML/JSON）。
//
// 示例：
//
//	anchors:
//	  - name: astronomy-taramandal
//	    keywords: [stars, star, astronomy, space, planets, planet, taramandal]
//	    predicate: 'exhibit.name.contains("taramandal") || exhibit.category.contains("taramandal")'
type AnchorRuleConfig struct {
	Name      string   `yaml:"name" json:"name"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
	Predicate string   `yaml:"predicate" json:"predicate"`
}

// AnchorRulesFile 是锚定规则配置文件的顶层结构。
type AnchorRulesFile struct {
	Anchors []AnchorRuleConfig `yaml:"anchors" json:"anchors"`
}

// LoadAnchorRules 从 YAML 文件加载并编译锚定规则表。
func LoadAnchorRules(path string) ([]rerank.AnchorRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read anchor rules: %w", err)
	}
	var file AnchorRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse anchor rules: %w", err)
	}
	return CompileAnchorRules(file.Anchors)
}

// CompileAnchorRules 把配置形态的规则编译为可执行规则。
// 关键词统一小写；predicate 编译失败视为配置错误。
func CompileAnchorRules(configs []AnchorRuleConfig) ([]rerank.AnchorRule, error) {
	rules := make([]rerank.AnchorRule, 0, len(configs))
	for i, rc := range configs {
		if len(rc.Keywords) == 0 {
			return nil, fmt.Errorf("anchor rule %d (%s): keywords are required", i, rc.Name)
		}
		keywords := make([]string, 0, len(rc.Keywords))
		for _, kw := range rc.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		pred, err := dsl.Compile(rc.Predicate)
		if err != nil {
			return nil, fmt.Errorf("anchor rule %d (%s): %w", i, rc.Name, err)
		}
		rules = append(rules, rerank.AnchorRule{
			Name:      rc.Name,
			Keywords:  keywords,
			Predicate: pred,
		})
	}
	return rules, nil
}
