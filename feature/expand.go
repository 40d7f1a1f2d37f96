package feature

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymTable 是兴趣 -> 同义词/关联词 的静态扩展表。
// key 与同义词均为小写；匹配时对兴趣与 key 做双向子串检查，
// 例如兴趣 "ai" 命中 key "ai"，兴趣 "space science" 命中 key "space"。
type SynonymTable map[string][]string

// DefaultSynonyms 返回内置的展馆领域同义词表。
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		"ai":          {"artificial intelligence", "machine learning", "ml", "neural network", "deep learning"},
		"robotics":    {"robot", "automation", "mechanical", "engineering"},
		"physics":     {"mechanics", "force", "motion", "energy", "waves", "electricity"},
		"astronomy":   {"space", "stars", "planets", "cosmos", "universe", "celestial", "planetarium", "taramandal", "stellar", "solar system"},
		"biology":     {"biological", "life", "organism", "cell", "genetics", "evolution", "ecosystem", "nature", "living"},
		"environment": {"environmental", "ecology", "ecological", "climate", "nature", "sustainability", "green", "earth", "ecosystem"},
		"technology":  {"tech", "innovation", "engineering", "stem", "computing"},
		"science":     {"scientific", "research", "experiment", "discovery"},
		"interactive": {"hands-on", "experiment", "participatory", "engagement"},
		"family":      {"children", "kids", "educational", "fun"},
		"innovation":  {"creative", "inventive", "design", "development"},
		"space":       {"astronomy", "cosmic", "stellar", "planetary", "universe", "stars", "planets"},
		"stars":       {"astronomy", "constellation", "celestial", "night sky"},
		"planets":     {"solar system", "astronomy", "space"},
		"taramandal":  {"planetarium", "stars", "astronomy", "night sky"},
		"wave":        {"motion", "physics", "oscillation", "vibration"},
		"motion":      {"movement", "physics", "mechanics", "kinematics"},
	}
}

// LoadSynonyms 从 YAML 文件加载同义词表，格式：
//
//	astronomy: [space, stars, planets]
//	robotics: [robot, automation]
func LoadSynonyms(path string) (SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms: %w", err)
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse synonyms: %w", err)
	}
	table := make(SynonymTable, len(raw))
	for k, v := range raw {
		table[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return table, nil
}

// Expand 将兴趣列表扩展为更宽的词集合，返回排序后的列表。
// 规则：
//  1. 每个兴趣小写后原样加入
//  2. 兴趣与表 key 完全相等时加入其同义词
//  3. 兴趣与任一 key 存在双向子串关系时，加入该 key 及其同义词
//
// 返回值排序是刻意的：扩展词拼接成的查询文本参与 n-gram 特征，
// 固定顺序才能保证逐字节可复现。
func (t SynonymTable) Expand(interests []string) []string {
	expanded := make(map[string]bool)
	for _, interest := range interests {
		interestLower := strings.ToLower(strings.TrimSpace(interest))
		if interestLower == "" {
			continue
		}
		expanded[interestLower] = true

		if syns, ok := t[interestLower]; ok {
			for _, s := range syns {
				expanded[strings.ToLower(s)] = true
			}
		}

		for key, syns := range t {
			if strings.Contains(interestLower, key) || strings.Contains(key, interestLower) {
				expanded[key] = true
				for _, s := range syns {
					expanded[strings.ToLower(s)] = true
				}
			}
		}
	}

	out := make([]string, 0, len(expanded))
	for term := range expanded {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// bagOfWordsScore 计算扩展词在文本中的词袋匹配率：
// 整词命中权重 1，子串命中权重 0.5，按词数归一。
func bagOfWordsScore(terms []string, text string) float64 {
	if len(terms) == 0 || text == "" {
		return 0.0
	}
	textLower := strings.ToLower(text)
	textWords := make(map[string]bool)
	for _, w := range keywordRe.FindAllString(textLower, -1) {
		textWords[w] = true
	}

	var matches float64
	for _, term := range terms {
		termLower := strings.ToLower(term)
		if textWords[termLower] {
			matches += 1.0
		} else if strings.Contains(textLower, termLower) {
			matches += 0.5
		}
	}
	return matches / float64(len(terms))
}

// coverageScore 计算扩展词被文本覆盖的比例（子串命中即算覆盖）。
func coverageScore(terms []string, text string) float64 {
	if len(terms) == 0 || text == "" {
		return 0.0
	}
	textLower := strings.ToLower(text)
	covered := 0
	for _, term := range terms {
		if strings.Contains(textLower, strings.ToLower(term)) {
			covered++
		}
	}
	return float64(covered) / float64(len(terms))
}
