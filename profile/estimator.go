// Package profile 实现偏好画像估计：把用户历史影片变成逐属性的
// 界限/亲和度摘要，供召回与分类阶段消费。
//
// 所有分支都退化为 unknown/no-signal 值，不会因数据稀疏报错；
// 只有存储读取失败会上抛。
package profile

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/stat"
)

// Estimator 从用户历史推导偏好画像。
// 调用方保证历史至少 5 部；估计器本身不做下限检查。
type Estimator struct {
	Store core.CatalogStore

	// Corpus 是色彩二项检验的零假设参数（全库黑白占比）
	Corpus core.CorpusColorStats

	// Significance 是色彩检验的显著性水平，0 时取 0.20
	Significance float64

	// DefaultRating 是未评分影片的默认分值，0 时取 5
	DefaultRating int
}

func (e *Estimator) significance() float64 {
	if e.Significance > 0 {
		return e.Significance
	}
	return 0.20
}

func (e *Estimator) defaultRating() int {
	if e.DefaultRating > 0 {
		return e.DefaultRating
	}
	return 5
}

// Estimate 计算一次完整画像。
// 时长/年份/色彩共用一次影片属性批量读取；语言与导演/演员/流派各查
// 不同的关联表，互不依赖，并发取数。每个子任务只写画像中属于自己的
// 字段（不共享累加器），errgroup.Wait 是硬汇合点，返回时画像完整。
func (e *Estimator) Estimate(ctx context.Context, rctx *core.RecommendContext) (*core.Profile, error) {
	rows, err := e.Store.Films(ctx, rctx.History)
	if err != nil {
		return nil, err
	}

	p := &core.Profile{}
	p.Runtime = runtimeBounds(rows)
	p.Year = yearBounds(rows)
	p.Color = e.colorPreference(rows)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		langs, err := e.languageAffinity(gctx, rctx)
		if err != nil {
			return err
		}
		p.Languages = langs
		return nil
	})
	eg.Go(func() error {
		wanted, unwanted, err := e.directorAffinity(gctx, rctx)
		if err != nil {
			return err
		}
		p.WantedDirectors, p.UnwantedDirectors = wanted, unwanted
		return nil
	})
	eg.Go(func() error {
		wanted, unwanted, err := e.actorAffinity(gctx, rctx)
		if err != nil {
			return err
		}
		p.WantedActors, p.UnwantedActors = wanted, unwanted
		return nil
	})
	eg.Go(func() error {
		combos, genres, err := e.genreAffinity(gctx, rctx)
		if err != nil {
			return err
		}
		p.Combos, p.Genres = combos, genres
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// runtimeBounds 计算时长界限：已知时长的 mean ± 2·sd，四舍五入。
// 全部未知时返回 (0,0)。已知时长至少 1 分钟，界限上界必然非零，
// 因此 (0,0) 与真实界限不会混淆。
func runtimeBounds(rows []core.FilmRow) core.Bounds {
	var values []float64
	for _, r := range rows {
		if r.KnownRuntime() {
			values = append(values, float64(r.Runtime))
		}
	}
	if len(values) == 0 {
		return core.Bounds{}
	}
	mean, sd := stat.MeanStdDev(values)
	return core.Bounds{
		Lower: int(math.Round(mean - 2*sd)),
		Upper: int(math.Round(mean + 2*sd)),
	}
}

// yearBounds 计算上映年份界限；年份总是已知，不存在退化分支。
func yearBounds(rows []core.FilmRow) core.Bounds {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		values = append(values, float64(r.Year))
	}
	if len(values) == 0 {
		return core.Bounds{}
	}
	mean, sd := stat.MeanStdDev(values)
	return core.Bounds{
		Lower: int(math.Round(mean - 2*sd)),
		Upper: int(math.Round(mean + 2*sd)),
	}
}

// colorPreference 推导色彩偏好。
// 全未知 → Unknown；已知值全体一致 → 对应的 Only 形态；
// 混合时做单侧二项检验：以全库黑白占比为零假设，对“黑白数不少于观测值”
// 的上尾概率在显著性水平下判定，显著则返回黑白比例，否则只要彩色。
func (e *Estimator) colorPreference(rows []core.FilmRow) core.ColorPreference {
	var mono, full int
	for _, r := range rows {
		switch r.Color {
		case core.Monochrome:
			mono++
		case core.FullColor:
			full++
		}
	}
	known := mono + full
	switch {
	case known == 0:
		return core.ColorPrefUnknown()
	case mono == known:
		return core.MonoOnly()
	case full == known:
		return core.FullColorOnly()
	}

	prob := stat.BinomialRange(mono, known, known, e.Corpus.MonoRate())
	if prob < e.significance() {
		return core.MonoFraction(float64(mono) / float64(known))
	}
	return core.FullColorOnly()
}

// languageAffinity 推导想要的语言集合；空集表示未知。
//
// 规则：某语言出现在每一部已知语言的影片里 → 只要它；
// 否则收敛到“恰好一种语言”的影片子集上看占比，取并列第一的全部语言，
// 第一名唯一且第二名占比超过 25% 时把并列第二也带上。
func (e *Estimator) languageAffinity(ctx context.Context, rctx *core.RecommendContext) ([]int64, error) {
	rows, err := e.Store.FilmLanguages(ctx, rctx.History)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil // 历史影片语言全部未知
	}

	nonUnknown := len(rows)
	occ := make(map[int64]int)
	for _, langs := range rows {
		for _, l := range langs {
			occ[l]++
		}
	}

	maxOcc := 0
	topLang := int64(0)
	for l, c := range occ {
		if c > maxOcc || (c == maxOcc && l < topLang) {
			maxOcc, topLang = c, l
		}
	}
	if maxOcc == nonUnknown {
		return []int64{topLang}, nil
	}

	// 只看单语言影片，避免多语言影片把占比摊薄
	singleTotal := 0
	singleOcc := make(map[int64]int)
	for _, langs := range rows {
		if len(langs) == 1 {
			singleTotal++
			singleOcc[langs[0]]++
		}
	}
	if singleTotal == 0 {
		// 每部影片都是多语言：退化为按全量出现次数取并列第一
		return langsAt(occ, maxOcc), nil
	}

	share := make(map[int64]float64, len(singleOcc))
	shareSet := make(map[float64]struct{})
	for l, c := range singleOcc {
		s := float64(c) / float64(singleTotal)
		share[l] = s
		shareSet[s] = struct{}{}
	}
	shares := make([]float64, 0, len(shareSet))
	for s := range shareSet {
		shares = append(shares, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(shares)))

	var top, second []int64
	for l, s := range share {
		switch {
		case s == shares[0]:
			top = append(top, l)
		case len(shares) > 1 && s == shares[1]:
			second = append(second, l)
		}
	}
	sortInt64(top)
	sortInt64(second)

	if len(top) > 1 {
		return top, nil
	}
	if len(shares) > 1 && shares[1] > 0.25 {
		return append(top, second...), nil
	}
	return top, nil
}

func langsAt(occ map[int64]int, want int) []int64 {
	var out []int64
	for l, c := range occ {
		if c == want {
			out = append(out, l)
		}
	}
	sortInt64(out)
	return out
}

func sortInt64(s []int64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
