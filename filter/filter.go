// Package filter 提供运营侧的候选排除：在分类之前按规则剔除候选。
// 规则为空时整个阶段是 no-op，不影响引擎语义。
package filter

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Node 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该候选就会被剔除。
// 单个候选上的规则求值错误不中断流程——规则是运营配置，不是存储依赖。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter.node" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		dropped := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				continue
			}
			if ok {
				dropped = true
				item.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				break
			}
		}
		if !dropped {
			out = append(out, item)
		}
	}
	return out, nil
}
