package feature

import (
	"strings"

	"github.com/rushteam/exhibitkit/core"
)

// BaseFeatureKeys 是基础特征的固定顺序，与训练侧共用的契约。
// 顺序即向量维度顺序，只能追加，不能插入或重排。
var BaseFeatureKeys = []string{
	"interest_hits",
	"interest_jaccard",
	"name_hits",
	"desc_hits",
	"tag_hits",
	"category_hits",
	"category_match",
	"desc_similarity",
	"name_similarity",
	"category_similarity",
	"age_match",
	"group_match",
	"category_known",
	"time_budget",
	"mobility_none",
	"crowd_low",
	"crowd_medium",
	"crowd_high",
}

// AdvancedFeatureKeys 是启用查询扩展后追加的特征，位置固定在基础特征之后。
var AdvancedFeatureKeys = []string{
	"expanded_tf_idf_name",
	"expanded_tf_idf_desc",
	"expanded_tf_idf_full",
	"expanded_coverage_name",
	"expanded_coverage_desc",
	"expanded_coverage_full",
	"bigram_overlap",
	"trigram_overlap",
	"expanded_hits",
	"expanded_hits_normalized",
}

// descKeywordLimit 是描述兜底合成标签的上限。
const descKeywordLimit = 10

// Builder 是 (访客画像, 展品) -> 特征向量 的确定性构建器。
// 纯函数：无 I/O、无随机；同样输入永远得到同样输出。
type Builder struct {
	// Synonyms 是兴趣同义词表，仅在构建扩展特征时使用。
	// 为空时使用内置默认表。
	Synonyms SynonymTable
}

func NewBuilder() *Builder {
	return &Builder{Synonyms: DefaultSynonyms()}
}

// Build 构建基础特征（BaseFeatureKeys 对应的 18 个维度）。
func (b *Builder) Build(visitor *core.VisitorProfile, ex *core.Exhibit) map[string]float64 {
	interests := visitor.CleanInterests()

	// 特征标签来源；features/tags 双字段合并，全空时从描述合成
	featureTags := ex.FeatureTags()
	tags := ex.Tags
	descText := ex.Description
	if len(featureTags) == 0 && len(tags) == 0 && descText != "" {
		featureTags = ExtractKeywordsOrdered(descText, descKeywordLimit)
	}
	combinedTags := mergeTags(featureTags, tags)

	category := ex.EffectiveCategory()
	categoryNorm := NormalizeCategory(category)

	nameText := ex.Name
	nameLower := strings.ToLower(nameText)
	descLower := strings.ToLower(descText)
	searchable := ex.SearchableText()

	var (
		interestHits     float64
		nameHits         float64
		descHits         float64
		categoryHits     float64
		maxCategoryMatch float64
	)
	for _, kw := range interests {
		kwLower := strings.ToLower(kw)
		if kwLower == "" {
			continue
		}
		if strings.Contains(searchable, kwLower) {
			interestHits++
		}
		if strings.Contains(nameLower, kwLower) {
			nameHits++
		}
		if strings.Contains(descLower, kwLower) {
			descHits++
		}
		if categoryNorm != "" {
			catMatch := FuzzyMatch(kwLower, categoryNorm)
			if category != "" {
				catMatch = max(catMatch, FuzzyMatch(kwLower, strings.ToLower(category)))
			}
			maxCategoryMatch = max(maxCategoryMatch, catMatch)
			if catMatch > 0.3 {
				categoryHits += 1.0
			}
			if strings.Contains(categoryNorm, kwLower) || strings.Contains(kwLower, categoryNorm) {
				categoryHits += 0.5
			}
		}
	}

	// 标签命中：完全命中 +1；模糊命中（>0.3）给 0.5 的部分分
	var tagHits float64
	combinedLower := lowerSet(combinedTags)
	for _, kw := range interests {
		kwLower := strings.ToLower(kw)
		if kwLower == "" {
			continue
		}
		if combinedLower[kwLower] {
			tagHits++
			continue
		}
		for _, tag := range combinedTags {
			if FuzzyMatch(kwLower, strings.ToLower(tag)) > 0.3 {
				tagHits += 0.5
				break
			}
		}
	}

	interestsText := strings.ToLower(strings.Join(interests, " "))
	categorySim := 0.0
	if categoryNorm != "" {
		categorySim = TextSimilarity(interestsText, categoryNorm)
	}

	categoryKnown := 0.0
	if category != "" {
		categoryKnown = 1.0
	}

	return map[string]float64{
		"interest_hits":       interestHits,
		"interest_jaccard":    Jaccard(interests, combinedTags),
		"name_hits":           nameHits,
		"desc_hits":           descHits,
		"tag_hits":            tagHits,
		"category_hits":       categoryHits,
		"category_match":      maxCategoryMatch,
		"desc_similarity":     TextSimilarity(interestsText, descText),
		"name_similarity":     TextSimilarity(interestsText, nameText),
		"category_similarity": categorySim,
		"age_match":           FuzzyMatch(visitor.AgeBand, ex.AgeRange),
		"group_match":         FuzzyMatch(visitor.GroupType, ex.GroupType),
		"category_known":      categoryKnown,
		"time_budget":         float64(visitor.TimeBudget),
		"mobility_none":       boolFeature(visitor.Mobility == "none"),
		"crowd_low":           boolFeature(visitor.CrowdTolerance == "low"),
		"crowd_medium":        boolFeature(visitor.CrowdTolerance == "medium"),
		"crowd_high":          boolFeature(visitor.CrowdTolerance == "high"),
	}
}

// BuildAdvanced 构建基础 + 扩展特征（AdvancedFeatureKeys 追加在基础特征之后）。
func (b *Builder) BuildAdvanced(visitor *core.VisitorProfile, ex *core.Exhibit) map[string]float64 {
	features := b.Build(visitor, ex)

	table := b.Synonyms
	if table == nil {
		table = DefaultSynonyms()
	}
	expanded := table.Expand(visitor.CleanInterests())

	nameText := ex.Name
	descText := ex.Description
	fullText := ex.SearchableText()

	// 扩展词排序后拼接：n-gram 特征依赖词序，排序保证确定性
	expandedQueryText := strings.ToLower(strings.Join(expanded, " "))

	var expandedHits float64
	for _, term := range expanded {
		if strings.Contains(fullText, strings.ToLower(term)) {
			expandedHits++
		}
	}
	expandedHitsNorm := 0.0
	if len(expanded) > 0 {
		expandedHitsNorm = expandedHits / float64(len(expanded))
	}

	features["expanded_tf_idf_name"] = bagOfWordsScore(expanded, nameText)
	features["expanded_tf_idf_desc"] = bagOfWordsScore(expanded, descText)
	features["expanded_tf_idf_full"] = bagOfWordsScore(expanded, fullText)
	features["expanded_coverage_name"] = coverageScore(expanded, nameText)
	features["expanded_coverage_desc"] = coverageScore(expanded, descText)
	features["expanded_coverage_full"] = coverageScore(expanded, fullText)
	features["bigram_overlap"] = NgramOverlap(expandedQueryText, fullText, 2)
	features["trigram_overlap"] = NgramOverlap(expandedQueryText, fullText, 3)
	features["expanded_hits"] = expandedHits
	features["expanded_hits_normalized"] = expandedHitsNorm

	return features
}

// mergeTags 合并两组标签，按小写去重，保留首次出现的原文。
func mergeTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, group := range [][]string{a, b} {
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

func boolFeature(v bool) float64 {
	if v {
		return 1.0
	}
	return 0.0
}
