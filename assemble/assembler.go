// Package assemble 实现归并与落库：按固定优先级把档位标记归并为
// 每个候选唯一的最终档位，套用黑白配额，产出至多 30 行推荐并整组替换
// 用户已有的推荐。
package assemble

import (
	"context"
	"math"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Resolve 对已打标的候选池做一次确定性归并，返回最终的 ≤ resultSize 条结果。
//
// 优先级固定：first > not_wanted > mono > second > third > 剩余池。
// 每个候选只取其标记集合中优先级最高的档位；not_wanted 直接丢弃。
// mono 档受配额 round(monoFraction × resultSize) 限制，超出配额的黑白
// 候选降到其次高档位或剩余池，不会凭空消失。
//
// 守卫：候选数 − not_wanted 候选数 < minSurvivors 时返回
// ErrInsufficientSignal。完全无标记的池走 singular 路径：按原序取前
// resultSize 个，权重 0。
//
// Resolve 不修改 Tiers，只写 Weight 与 labels，对同一输入重复调用
// 结果相同（幂等）。
func Resolve(items []*core.Item, monoFraction float64, resultSize, minSurvivors int) ([]*core.Item, error) {
	notWanted := 0
	allUntagged := true
	for _, it := range items {
		if it.Tiers.Has(core.TierNotWanted) {
			notWanted++
		}
		if !it.Tiers.Empty() {
			allUntagged = false
		}
	}

	if len(items)-notWanted < minSurvivors {
		return nil, core.ErrInsufficientSignal
	}

	if allUntagged {
		// singular 路径：没有任何维度产出信号，候选池原序即结果
		out := items
		if len(out) > resultSize {
			out = out[:resultSize]
		}
		for _, it := range out {
			it.Weight = 0
			setLabel(it, "tier", core.TierNone.String())
		}
		return out, nil
	}

	quota := int(math.Round(monoFraction * float64(resultSize)))

	// 池序遍历，一次归并出五个桶；mono 超配额时就地降档
	var first, mono, second, third, rest []*core.Item
	monoTaken := 0
	for _, it := range items {
		tier := it.Tiers.Resolve()
		if tier == core.TierMono {
			if monoTaken < quota {
				monoTaken++
			} else {
				tier = it.Tiers.ResolveBelow(core.TierMono)
			}
		}
		switch tier {
		case core.TierFirst:
			first = append(first, it)
		case core.TierNotWanted:
			continue
		case core.TierMono:
			mono = append(mono, it)
		case core.TierSecond:
			second = append(second, it)
		case core.TierThird:
			third = append(third, it)
		default:
			rest = append(rest, it)
		}
	}

	out := make([]*core.Item, 0, resultSize)
	out = fill(out, first, core.TierFirst, resultSize)
	out = fill(out, mono, core.TierMono, resultSize)
	out = fill(out, second, core.TierSecond, resultSize)
	out = fill(out, third, core.TierThird, resultSize)
	out = fill(out, rest, core.TierNone, resultSize)
	return out, nil
}

func fill(out, bucket []*core.Item, tier core.Tier, resultSize int) []*core.Item {
	for _, it := range bucket {
		if len(out) >= resultSize {
			break
		}
		it.Weight = tier.Weight()
		setLabel(it, "tier", tier.String())
		out = append(out, it)
	}
	return out
}

// setLabel 覆盖写（不走 merge）：归并可能重复执行，档位标签取末次值。
func setLabel(it *core.Item, key, value string) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	it.Labels[key] = utils.Label{Value: value, Source: "assemble"}
}

// Assembler 是归并 Node：Resolve 之后整组替换用户的推荐行。
//
// 落库是先删后插两步，中间不包事务；两步之间进程崩溃会让用户暂时
// 没有推荐（可接受的降级态），不会产生重复行。守卫触发时直接返回
// 错误，一行都不写。
type Assembler struct {
	Store core.CatalogStore

	// ResultSize 是结果上限，0 时取 30
	ResultSize int

	// MinSurvivors 是 not_wanted 过滤后的存活下限，0 时取 10
	MinSurvivors int
}

func (n *Assembler) Name() string        { return "assemble.replace" }
func (n *Assembler) Kind() pipeline.Kind { return pipeline.KindAssemble }

func (n *Assembler) resultSize() int {
	if n.ResultSize > 0 {
		return n.ResultSize
	}
	return 30
}

func (n *Assembler) minSurvivors() int {
	if n.MinSurvivors > 0 {
		return n.MinSurvivors
	}
	return 10
}

func (n *Assembler) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	var fraction float64
	if rctx.Profile != nil {
		fraction, _ = rctx.Profile.Color.Fraction()
	}

	out, err := Resolve(items, fraction, n.resultSize(), n.minSurvivors())
	if err != nil {
		return nil, err
	}

	recs := make([]core.Recommendation, 0, len(out))
	for _, it := range out {
		setLabel(it, "run_id", rctx.RunID)
		recs = append(recs, core.Recommendation{
			FilmID: it.FilmID,
			UserID: rctx.UserID,
			Weight: it.Weight,
		})
	}

	if err := n.Store.DeleteRecommendations(ctx, rctx.UserID); err != nil {
		return nil, err
	}
	if err := n.Store.InsertRecommendations(ctx, recs); err != nil {
		return nil, err
	}
	return out, nil
}
