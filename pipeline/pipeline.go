package pipeline

import (
	"context"

	"github.com/rushteam/exhibitkit/core"
)

// Pipeline 是 exhibitkit 的核心抽象：把重排逻辑拆成可组合的 Node 链。
// 各阶段按固定顺序执行；任一阶段出错即中止整个请求，不返回半成品结果。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
