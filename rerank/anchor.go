package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
	"github.com/rushteam/exhibitkit/pkg/dsl"
)

// AnchorMatchScore 是锚定候选的匹配强度，远高于任何常规匹配。
const AnchorMatchScore = 100.0

// AnchorRule 是一条运营锚定规则：当访客兴趣命中任一关键词时，
// 被 Predicate 选中的展品必须置顶。
type AnchorRule struct {
	// Name 规则名，用于日志与诊断
	Name string

	// Keywords 触发词。任一小写化后的兴趣包含任一关键词（子串）即触发。
	Keywords []string

	// Predicate 展品选择断言（CEL 表达式编译结果）
	Predicate *dsl.Predicate
}

// Triggered 判断该规则是否被访客兴趣触发。
func (r *AnchorRule) Triggered(interests []string) bool {
	for _, interest := range interests {
		lowered := strings.ToLower(strings.TrimSpace(interest))
		if lowered == "" {
			continue
		}
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(lowered, kw) {
				return true
			}
		}
	}
	return false
}

// DefaultAnchorRules 返回内置规则表：天文兴趣锚定天象馆 (Taramandal) 展品。
func DefaultAnchorRules() []AnchorRule {
	pred, err := dsl.Compile(`exhibit.name.contains("taramandal") || ` +
		`exhibit.category.contains("taramandal") || ` +
		`exhibit.id == "cmf97ohja0003snwdwzd9jhb7"`)
	if err != nil {
		// 内置表达式必须可编译，失败属于编程错误
		panic("rerank: default anchor predicate: " + err.Error())
	}
	return []AnchorRule{
		{
			Name:      "astronomy-taramandal",
			Keywords:  []string{"stars", "star", "astronomy", "space", "planets", "planet", "taramandal"},
			Predicate: pred,
		},
	}
}

// AnchorNode 应用锚定规则：被触发规则选中的候选标记为 Anchor，
// 并赋予 AnchorMatchScore 的匹配强度（同时视为兴趣匹配）。
// 置顶本身由后续排序阶段保证。
type AnchorNode struct {
	Rules []AnchorRule
}

func (n *AnchorNode) Name() string        { return "rerank.anchor" }
func (n *AnchorNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *AnchorNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Rules) == 0 || len(items) == 0 {
		return items, nil
	}

	interests := rctx.Interests()
	active := make([]*AnchorRule, 0, len(n.Rules))
	for i := range n.Rules {
		if n.Rules[i].Triggered(interests) {
			active = append(active, &n.Rules[i])
		}
	}
	if len(active) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil || it.Exhibit == nil {
			continue
		}
		for _, rule := range active {
			ok, err := rule.Predicate.MatchExhibit(it.Exhibit)
			if err != nil {
				// 规则求值失败不影响请求，跳过该规则
				continue
			}
			if ok {
				it.Anchor = true
				it.Matched = true
				it.MatchScore = AnchorMatchScore
				break
			}
		}
	}
	return items, nil
}

var _ pipeline.Node = (*AnchorNode)(nil)
