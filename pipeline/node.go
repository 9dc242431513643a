package pipeline

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：生成候选池
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合运营规则的候选
	KindClassify    Kind = "classify"    // 分类阶段：按画像给候选打档位标记
	KindAssemble    Kind = "assemble"    // 归并阶段：按优先级归并档位并产出最终结果
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充属性或结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便召回生成、过滤截断、归并重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
