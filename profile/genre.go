package profile

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/stat"
)

// genreAffinity 推导流派组合与单流派的权重。
//
// 组合：两两相交历史影片的流派集合，交集 > 1 个流派记一次同现。
// 最高频组合达到理论上限 nC2 时独占返回（权重 3）；
// 否则低于理论上限 10% 的组合丢弃，幸存组合按平均分相对全体流派
// 均值±1sd 归到权重 0/2/3。加权组合 ≥ 3 个时不再做单流派加权。
//
// 单流派：出现次数相对均值±0.5sd、平均分相对均值−1sd 查固定决策表：
// 分数偏低 → 0；高频 → 2；低频 → 1；中频且分数可接受 → 无信号，不入表。
func (e *Estimator) genreAffinity(ctx context.Context, rctx *core.RecommendContext) ([]core.GenreCombo, []core.GenreWeight, error) {
	st, err := e.entityStats(ctx, rctx, entityKind{
		rating: core.RatingOverall,
		fetch: func(ctx context.Context, s core.CatalogStore, filmIDs []int64) (map[int64][]int64, error) {
			return s.FilmGenres(ctx, filmIDs)
		},
	})
	if err != nil || st == nil {
		return nil, nil, err
	}

	combos, exclusive := e.comboWeights(rctx, st)
	if exclusive || len(combos) >= 3 {
		return combos, nil, nil
	}
	return combos, e.singleWeights(st), nil
}

type comboCount struct {
	genres []int64
	count  int
}

// comboWeights 返回加权组合；exclusive 表示最高频组合占满理论上限，
// 独占返回且不再做单流派加权。
func (e *Estimator) comboWeights(rctx *core.RecommendContext, st *entityStats) (combos []core.GenreCombo, exclusive bool) {
	// 两两比较只看已知流派的影片；影片对固定升序遍历，保证计数可复现
	filmIDs := make([]int64, 0, len(st.filmEntities))
	for id := range st.filmEntities {
		filmIDs = append(filmIDs, id)
	}
	sortInt64(filmIDs)

	counts := make(map[string]*comboCount)
	for i, a := range filmIDs {
		for _, b := range filmIDs[i+1:] {
			common := intersect(st.filmEntities[a], st.filmEntities[b])
			if len(common) < 2 {
				continue
			}
			key := comboKey(common)
			if c, ok := counts[key]; ok {
				c.count++
			} else {
				counts[key] = &comboCount{genres: common, count: 1}
			}
		}
	}
	if len(counts) == 0 {
		return nil, false
	}

	ordered := make([]*comboCount, 0, len(counts))
	for _, c := range counts {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return comboKey(ordered[i].genres) < comboKey(ordered[j].genres)
	})

	// 理论上限按整个历史算（nC2），与影片对的比较次数同口径
	maxPairs := stat.Comb(len(rctx.History), 2)
	if float64(ordered[0].count) == maxPairs {
		return []core.GenreCombo{{Genres: ordered[0].genres, Weight: 3}}, true
	}

	var out []core.GenreCombo
	for _, c := range ordered {
		if float64(c.count) <= maxPairs*0.1 {
			continue
		}
		var total float64
		for _, g := range c.genres {
			total += st.avgRating[g]
		}
		mean := total / float64(len(c.genres))
		weight := 2
		switch {
		case mean <= st.meanRating-st.sdRating:
			weight = 0
		case mean >= st.meanRating+st.sdRating:
			weight = 3
		}
		out = append(out, core.GenreCombo{Genres: c.genres, Weight: weight})
	}
	return out, false
}

func (e *Estimator) singleWeights(st *entityStats) []core.GenreWeight {
	upper := st.meanOcc + st.sdOcc/2
	lower := st.meanOcc - st.sdOcc/2

	var out []core.GenreWeight
	for _, id := range st.sortedEntityIDs() {
		occ := float64(st.occurrence[id])
		if st.avgRating[id] < st.meanRating-st.sdRating {
			out = append(out, core.GenreWeight{GenreID: id, Weight: 0})
			continue
		}
		switch {
		case occ >= upper:
			out = append(out, core.GenreWeight{GenreID: id, Weight: 2})
		case occ <= lower:
			out = append(out, core.GenreWeight{GenreID: id, Weight: 1})
		}
		// 中频且分数可接受：无显著信号，不入表
	}
	return out
}

// intersect 返回两个流派集合的交集，升序。
func intersect(a, b []int64) []int64 {
	set := make(map[int64]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	var out []int64
	for _, v := range b {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	sortInt64(out)
	return out
}

func comboKey(genres []int64) string {
	parts := make([]string, len(genres))
	for i, g := range genres {
		parts[i] = strconv.FormatInt(g, 10)
	}
	return strings.Join(parts, ",")
}
