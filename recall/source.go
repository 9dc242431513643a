// Package recall 实现候选收集：把画像中的导演/演员亲和度展开成
// 去重后的候选影片池（上限 100，不含用户历史）。
package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// Source 表示一个可并发 fan-out 的候选召回源。
// 召回源只负责产出带来源标签的影片 ID，属性装载由 Hydrate 统一完成。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
