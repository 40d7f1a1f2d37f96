package feature

import (
	"regexp"
	"strings"
)

// 文本匹配工具：关键词抽取、模糊匹配、类目归一化、n-gram。
// 训练与推理共用同一套规则，任何改动都意味着模型需要重训。

var (
	keywordRe = regexp.MustCompile(`\b[a-z]{3,}\b`)
	ngramRe   = regexp.MustCompile(`\b[a-z]{2,}\b`)
)

// stopWords 是关键词抽取时剔除的常见虚词。
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "a": true,
	"an": true, "is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "they": true, "them": true, "their": true,
	"there": true, "where": true, "when": true, "what": true, "which": true,
	"who": true, "how": true, "why": true,
}

const minKeywordLen = 4

// ExtractKeywords 从文本抽取关键词集合（去停用词，长度 >= 4）。
func ExtractKeywords(text string) map[string]bool {
	if text == "" {
		return nil
	}
	words := keywordRe.FindAllString(strings.ToLower(text), -1)
	keywords := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) >= minKeywordLen && !stopWords[w] {
			keywords[w] = true
		}
	}
	return keywords
}

// ExtractKeywordsOrdered 按首次出现顺序抽取最多 limit 个关键词。
// 用于描述文本兜底合成标签集：顺序固定，保证整条链路可复现。
func ExtractKeywordsOrdered(text string, limit int) []string {
	if text == "" || limit <= 0 {
		return nil
	}
	words := ngramWords(text)
	seen := make(map[string]bool, limit)
	out := make([]string, 0, limit)
	for _, w := range words {
		if len(w) < minKeywordLen || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// FuzzyMatch 分档模糊匹配：
//   - 完全相等            1.0
//   - 互为子串            0.8
//   - 存在公共单词        0.6
//   - 4 字母前缀或词内子串 0.4
//   - 其余                0.0
func FuzzyMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	al := strings.TrimSpace(strings.ToLower(a))
	bl := strings.TrimSpace(strings.ToLower(b))
	if al == "" || bl == "" {
		return 0.0
	}
	if al == bl {
		return 1.0
	}
	if strings.Contains(bl, al) || strings.Contains(al, bl) {
		return 0.8
	}

	aWords := strings.Fields(al)
	bWords := strings.Fields(bl)
	bSet := make(map[string]bool, len(bWords))
	for _, w := range bWords {
		bSet[w] = true
	}
	for _, w := range aWords {
		if bSet[w] {
			return 0.6
		}
	}

	for _, aw := range aWords {
		for _, bw := range bWords {
			if len(aw) > 3 && len(bw) > 3 {
				if aw[:4] == bw[:4] || strings.Contains(bw, aw) || strings.Contains(aw, bw) {
					return 0.4
				}
			}
		}
	}
	return 0.0
}

// NormalizeCategory 归一化类目名：小写、连字符/下划线转空格、折叠空白。
func NormalizeCategory(cat string) string {
	if cat == "" {
		return ""
	}
	normalized := strings.ToLower(cat)
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	return strings.Join(strings.Fields(normalized), " ")
}

// Jaccard 计算两个字符串列表（小写集合化后）的 Jaccard 相似度。
func Jaccard(a, b []string) float64 {
	sa := lowerSet(a)
	sb := lowerSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0.0
	}
	inter := 0
	union := len(sb)
	for k := range sa {
		if sb[k] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// TextSimilarity 计算两段文本的关键词集合重合度（Jaccard）。
func TextSimilarity(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 0.0
	}
	kw1 := ExtractKeywords(text1)
	kw2 := ExtractKeywords(text2)
	if len(kw1) == 0 || len(kw2) == 0 {
		return 0.0
	}
	return setJaccard(kw1, kw2)
}

// NgramOverlap 计算两段文本 n-gram 集合的 Jaccard 重合度。
func NgramOverlap(text1, text2 string, n int) float64 {
	g1 := extractNgrams(text1, n)
	g2 := extractNgrams(text2, n)
	if len(g1) == 0 || len(g2) == 0 {
		return 0.0
	}
	return setJaccard(g1, g2)
}

func extractNgrams(text string, n int) map[string]bool {
	if text == "" || n <= 0 {
		return nil
	}
	words := ngramWords(text)
	if len(words) < n {
		return nil
	}
	grams := make(map[string]bool, len(words))
	for i := 0; i+n <= len(words); i++ {
		grams[strings.Join(words[i:i+n], " ")] = true
	}
	return grams
}

func ngramWords(text string) []string {
	return ngramRe.FindAllString(strings.ToLower(text), -1)
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func setJaccard(a, b map[string]bool) float64 {
	inter := 0
	union := len(b)
	for k := range a {
		if b[k] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}
