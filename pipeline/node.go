package pipeline

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不合法/被屏蔽的候选
	KindFeature     Kind = "feature"     // 特征阶段：构建/注入特征向量
	KindRank        Kind = "rank"        // 排序阶段：模型打分产出 raw score
	KindReRank      Kind = "rerank"      // 重排阶段：匹配/锚定/筛选/混合/多样性
	KindPostProcess Kind = "postprocess" // 后处理阶段：最终排序、截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，每个重排阶段都是一个纯函数式 Node，
// 阶段间状态全部落在 Item 字段上，不依赖任何全局可变标志。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
