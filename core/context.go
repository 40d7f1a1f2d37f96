package core

import "github.com/rushteam/exhibitkit/pkg/utils"

// RecommendContext 承载单次请求的访客/请求信息，贯穿整个 Pipeline 透传。
// 请求结束即丢弃，不做任何跨请求缓存。
type RecommendContext struct {
	// Visitor 是本次请求的访客画像
	Visitor *VisitorProfile

	// TopK 是请求的返回数量（截断上限）
	TopK int

	// Advanced 标记是否启用扩展特征集（查询扩展 / n-gram 特征）
	Advanced bool

	// Labels 是请求级标签，可驱动 Pipeline 行为（例如 anchor 命中记录）
	Labels map[string]utils.Label

	// Params 请求级上下文参数：
	// - 请求参数：scene、device_type 等
	// - 实时特征：realtime_ 前缀（例如 feast 注入的 realtime_visits）
	Params map[string]any
}

// Interests 返回清洗后的兴趣列表；Visitor 为空时返回 nil。
func (rctx *RecommendContext) Interests() []string {
	if rctx.Visitor == nil {
		return nil
	}
	return rctx.Visitor.CleanInterests()
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
