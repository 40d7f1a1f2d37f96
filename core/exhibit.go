package core

import "strings"

// Exhibit 是展品的核心数据结构，来自请求或展品目录（catalog）。
//
// 字段说明：
//   - Features 与 InteractiveFeatures 是同义的两个历史字段（数据源不同），
//     取第一个非空的作为特征标签来源
//   - Tags 是导出元数据中的通用标签，与 Features 合并后参与匹配
//   - Rating 可选；缺失时为 0
type Exhibit struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	Description         string   `json:"description,omitempty"`
	Category            string   `json:"category,omitempty"`
	ExhibitType         string   `json:"exhibitType,omitempty"`
	AgeRange            string   `json:"ageRange,omitempty"`
	GroupType           string   `json:"groupType,omitempty"`
	Features            []string `json:"features,omitempty"`
	InteractiveFeatures []string `json:"interactiveFeatures,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	Rating              float64  `json:"rating,omitempty"`
}

// EffectiveCategory 返回类目：优先 Category，为空时回退 ExhibitType。
func (e *Exhibit) EffectiveCategory() string {
	if e.Category != "" {
		return e.Category
	}
	return e.ExhibitType
}

// FeatureTags 返回特征标签来源：Features 非空用 Features，否则用 InteractiveFeatures。
func (e *Exhibit) FeatureTags() []string {
	if len(e.Features) > 0 {
		return e.Features
	}
	return e.InteractiveFeatures
}

// MergedTags 合并特征标签与通用标签，按小写去重，保留首次出现的原文。
func (e *Exhibit) MergedTags() []string {
	seen := make(map[string]bool, len(e.Features)+len(e.Tags))
	out := make([]string, 0, len(e.Features)+len(e.Tags))
	for _, group := range [][]string{e.FeatureTags(), e.Tags} {
		for _, t := range group {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			key := strings.ToLower(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, t)
		}
	}
	return out
}

// SearchableText 返回用于子串匹配的全文（name + description + category，小写）。
func (e *Exhibit) SearchableText() string {
	return strings.ToLower(strings.Join([]string{e.Name, e.Description, e.EffectiveCategory()}, " "))
}
