package recall

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Fanout 是召回 Node：并发执行多个召回源，按源声明顺序合并去重。
//
// 与通用召回框架不同的两点：
//   - 任一来源的存储错误都会中止本次运行——存储失败必须原样上抛，
//     不允许静默吞掉后用残缺候选池继续
//   - 去重后低于 MinCandidates 即返回 ErrInsufficientSignal，
//     超过 MaxCandidates 则截断（池本身无序，取前缀不构成偏置）
//
// 每个源写入自己独立的结果槽，errgroup.Wait 之后才合并，合并前不共享累加器。
type Fanout struct {
	Sources []Source

	// MinCandidates 是去重后的下限，0 表示不设限
	MinCandidates int

	// MaxCandidates 是截断上限，0 表示不截断
	MaxCandidates int
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))
	eg, gctx := errgroup.WithContext(ctx)
	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			items, err := src.Recall(gctx, rctx)
			if err != nil {
				return err
			}
			for _, it := range items {
				it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(i), Source: "recall"})
			}
			results[i] = items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := n.mergeDedup(results)
	if n.MinCandidates > 0 && len(out) < n.MinCandidates {
		return nil, core.ErrInsufficientSignal
	}
	if n.MaxCandidates > 0 && len(out) > n.MaxCandidates {
		out = out[:n.MaxCandidates]
	}
	return out, nil
}

// mergeDedup 按 FilmID 去重，保留第一个出现的；后到者的 labels 并入先到者，
// 因此同时来自两个源的影片 recall_source 会合并为 "director|actor"，
// 分类阶段据此识别双池共现。
func (n *Fanout) mergeDedup(results [][]*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item)
	var out []*core.Item
	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.FilmID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.FilmID] = it
			out = append(out, it)
		}
	}
	return out
}
