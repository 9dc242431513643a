package pipeline

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// Pipeline 是引擎的核心抽象：把一次推荐运行拆成可组合的 Node 链。
// 任一 Node 报错即中止，调用方据此保证“信号不足/存储失败时不落任何写”。
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
