package feature

import (
	"context"
	"strings"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/pipeline"
)

// VisitorFeatureLoader 是实时访客特征来源的抽象（如 Feast 在线存储）。
// 加载失败不应中断请求：实时特征是锦上添花，不是必需品。
type VisitorFeatureLoader interface {
	// LoadVisitorFeatures 按请求上下文加载实时访客特征。
	// 无法定位访客（例如请求未带 visitor_id）时返回 (nil, nil)。
	LoadVisitorFeatures(ctx context.Context, rctx *core.RecommendContext) (map[string]float64, error)
}

// EnrichNode 是实时特征注入节点：把 VisitorFeatureLoader 的输出
// 以 realtime_ 前缀写入请求 Params 与每个候选的特征 map。
//
// 注意：这些 key 不在持久化的 FeatureColumns 里时，Metadata.Vector
// 会直接忽略它们，不会影响打分；只有用这些特征重训过的模型才会消费。
type EnrichNode struct {
	Loader VisitorFeatureLoader

	// Prefix 注入特征的前缀，默认 "realtime_"
	Prefix string
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *EnrichNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Loader == nil || len(items) == 0 {
		return items, nil
	}

	features, err := n.Loader.LoadVisitorFeatures(ctx, rctx)
	if err != nil || len(features) == 0 {
		// 实时特征获取失败时静默降级，请求继续
		return items, nil
	}

	prefix := n.Prefix
	if prefix == "" {
		prefix = "realtime_"
	}

	if rctx.Params == nil {
		rctx.Params = make(map[string]any, len(features))
	}
	for k, v := range features {
		key := k
		if !strings.HasPrefix(key, prefix) {
			key = prefix + key
		}
		rctx.Params[key] = v
		for _, it := range items {
			if it == nil {
				continue
			}
			if it.Features == nil {
				it.Features = make(map[string]float64)
			}
			it.Features[key] = v
		}
	}
	return items, nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
