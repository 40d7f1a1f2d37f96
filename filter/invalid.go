package filter

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
)

// InvalidFilter 过滤掉结构不完整的候选：缺少 ID 的展品无法在响应里被引用，
// 直接静默丢弃而不是报错。
type InvalidFilter struct{}

func (f *InvalidFilter) Name() string {
	return "filter.invalid"
}

func (f *InvalidFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.ID == "" {
		return true, nil
	}
	if item.Exhibit != nil && item.Exhibit.ID == "" {
		return true, nil
	}
	return false, nil
}

var _ Filter = (*InvalidFilter)(nil)
