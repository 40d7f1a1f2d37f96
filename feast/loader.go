package feast

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/feature"
)

// VisitorLoader 把 Feast Client 适配为 feature.VisitorFeatureLoader：
// 按请求里的 visitor_id 读取在线访客特征，数值型特征透传给注入节点。
type VisitorLoader struct {
	Client Client

	// Features 要读取的特征名称列表，例如 ["visitor_stats:dwell_time"]
	Features []string

	// EntityKey 实体主键名，默认 "visitor_id"
	EntityKey string
}

// LoadVisitorFeatures 实现 feature.VisitorFeatureLoader。
// 请求未携带 visitor_id 时返回 (nil, nil)，不视为错误。
func (l *VisitorLoader) LoadVisitorFeatures(
	ctx context.Context,
	rctx *core.RecommendContext,
) (map[string]float64, error) {
	if l.Client == nil || len(l.Features) == 0 || rctx == nil {
		return nil, nil
	}

	visitorID := ""
	if rctx.Params != nil {
		if v, ok := rctx.Params["visitor_id"].(string); ok {
			visitorID = strings.TrimSpace(v)
		}
	}
	if visitorID == "" {
		return nil, nil
	}

	entityKey := l.EntityKey
	if entityKey == "" {
		entityKey = "visitor_id"
	}

	resp, err := l.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   l.Features,
		EntityRows: []map[string]interface{}{{entityKey: visitorID}},
	})
	if err != nil {
		return nil, fmt.Errorf("load visitor features: %w", err)
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, nil
	}

	out := make(map[string]float64)
	for name, val := range resp.FeatureVectors[0].Values {
		if f, ok := val.(float64); ok {
			// 特征名里的 view 前缀（view:feature）去掉，只保留特征名
			key := name
			if idx := strings.LastIndex(key, ":"); idx >= 0 {
				key = key[idx+1:]
			}
			out[key] = f
		}
	}
	return out, nil
}

var _ feature.VisitorFeatureLoader = (*VisitorLoader)(nil)
