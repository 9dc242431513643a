// Package classify 实现候选分类：把每个候选的属性逐项对照画像，
// 打上档位标记（TierSet）。五项检查相互独立，同一候选可以同时命中
// 多个档位，归并在 assemble 阶段按固定优先级完成。
package classify

import (
	"context"
	"strings"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
)

// Classifier 按画像给候选打档位标记。
//
// 检查顺序固定：时长 → 年份 → 色彩 → 语言 → 流派。
// 画像中无信号的维度整项跳过；候选侧的未知值不参与比较。
// 进入分类前，同时出现在导演池与演员池的候选先预置进 second 档
// （双池共现加成）。
type Classifier struct{}

func (n *Classifier) Name() string        { return "classify.profile" }
func (n *Classifier) Kind() pipeline.Kind { return pipeline.KindClassify }

func (n *Classifier) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	p := rctx.Profile
	if p == nil {
		return items, nil
	}

	_, colorIsFraction := p.Color.Fraction()
	langKnown := len(p.Languages) > 0
	genreKnown := p.GenreSignal()

	for _, it := range items {
		if it == nil {
			continue
		}

		if fromBothPools(it) {
			it.Tiers.Add(core.TierSecond)
		}

		// 时长
		if p.Runtime.Known() && it.Attrs.KnownRuntime() && !p.Runtime.Contains(it.Attrs.Runtime) {
			it.Tiers.Add(core.TierNotWanted)
		}

		// 年份总是已知，界限检查无未知分支
		if !p.Year.Contains(it.Attrs.Year) {
			it.Tiers.Add(core.TierNotWanted)
		}

		// 色彩：Only 形态不匹配即排除；比例形态把黑白片收进 mono 档待配额
		if !p.Color.Unknown() {
			if colorIsFraction {
				if it.Attrs.Color == core.Monochrome {
					it.Tiers.Add(core.TierMono)
				}
			} else if !p.Color.Matches(it.Attrs.Color) {
				it.Tiers.Add(core.TierNotWanted)
			}
		}

		// 语言：与想要语言集合无交集即排除。
		// 语言未知的候选集合为空，必然无交集——和原始数据里
		// “未知语言 ID 永远不会出现在想要集合”的行为一致
		if langKnown && !overlaps(it.Attrs.Languages, p.Languages) {
			it.Tiers.Add(core.TierNotWanted)
		}

		// 流派
		if genreKnown {
			n.classifyGenres(p, it)
		}
	}
	return items, nil
}

// classifyGenres 先试组合（子集匹配），全部未命中再退到单流派查表。
// 组合权重只会是 3/2/0，没有 1 档。
func (n *Classifier) classifyGenres(p *core.Profile, it *core.Item) {
	if len(it.Attrs.Genres) > 1 {
		hadCombo := false
		for _, combo := range p.Combos {
			if !containsAll(it.Attrs.Genres, combo.Genres) {
				continue
			}
			hadCombo = true
			switch combo.Weight {
			case 3:
				it.Tiers.Add(core.TierFirst)
			case 2:
				it.Tiers.Add(core.TierSecond)
			default:
				it.Tiers.Add(core.TierNotWanted)
			}
		}
		if hadCombo {
			return
		}
	}

	for _, gw := range p.Genres {
		if !containsID(it.Attrs.Genres, gw.GenreID) {
			continue
		}
		switch gw.Weight {
		case 2:
			it.Tiers.Add(core.TierSecond)
		case 1:
			it.Tiers.Add(core.TierThird)
		default:
			it.Tiers.Add(core.TierNotWanted)
		}
	}
}

// fromBothPools 判断候选是否同时来自导演召回与演员召回。
// Fanout 去重时会把后到源的 recall_source 并入先到者（"director|actor"）。
func fromBothPools(it *core.Item) bool {
	lbl, ok := it.Labels["recall_source"]
	if !ok {
		return false
	}
	return strings.Contains(lbl.Value, "director") && strings.Contains(lbl.Value, "actor")
}

func overlaps(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// containsAll 判断 have 是否包含 want 的全部元素（组合子集匹配）。
func containsAll(have, want []int64) bool {
	for _, w := range want {
		if !containsID(have, w) {
			return false
		}
	}
	return true
}

func containsID(s []int64, id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
