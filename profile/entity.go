package profile

import (
	"context"
	"sort"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/stat"
)

// entityKind 描述一类实体（导演/演员/流派）的统计口径：
// 关联关系的读取方式与所用的评分维度。
// 三类实体共用同一套聚合流程，各自只在取数与决策表上有差异。
type entityKind struct {
	rating core.RatingCategory
	fetch  func(ctx context.Context, s core.CatalogStore, filmIDs []int64) (map[int64][]int64, error)
}

// entityStats 是按实体聚合出的统一统计记录。
//
// 口径：occurrence 是实体出现在多少部历史影片里；每部影片按对应维度的
// 评分给片中实体计分（未评分或 NotRated 记默认分），tally/occurrence
// 即实体的平均分。均值/标准差分别在“平均分”与“出现次数”两个分布上取。
type entityStats struct {
	meanRating float64
	sdRating   float64
	meanOcc    float64
	sdOcc      float64

	// distinctRatings 是去重后的平均分，降序；导演的前三档过滤用
	distinctRatings []float64

	avgRating  map[int64]float64
	occurrence map[int64]int

	// filmEntities 保留 film -> 实体集合，流派组合统计用
	filmEntities map[int64][]int64
}

// entityStats 聚合一类实体的统计记录；该类实体在历史中全部未知时返回 (nil, nil)。
func (e *Estimator) entityStats(ctx context.Context, rctx *core.RecommendContext, kind entityKind) (*entityStats, error) {
	rows, err := kind.fetch(ctx, e.Store, rctx.History)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ratings, err := e.Store.Ratings(ctx, rctx.UserID, kind.rating, rctx.History)
	if err != nil {
		return nil, err
	}

	def := e.defaultRating()
	occurrence := make(map[int64]int)
	tally := make(map[int64]int)
	for filmID, ents := range rows {
		r, ok := ratings[filmID]
		if !ok || r == core.NotRated {
			r = def
		}
		for _, ent := range ents {
			occurrence[ent]++
			tally[ent] += r
		}
	}

	avgRating := make(map[int64]float64, len(occurrence))
	ratingVals := make([]float64, 0, len(occurrence))
	occVals := make([]float64, 0, len(occurrence))
	distinct := make(map[float64]struct{})
	for ent, occ := range occurrence {
		avg := float64(tally[ent]) / float64(occ)
		avgRating[ent] = avg
		ratingVals = append(ratingVals, avg)
		occVals = append(occVals, float64(occ))
		distinct[avg] = struct{}{}
	}

	distinctRatings := make([]float64, 0, len(distinct))
	for v := range distinct {
		distinctRatings = append(distinctRatings, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinctRatings)))

	st := &entityStats{
		distinctRatings: distinctRatings,
		avgRating:       avgRating,
		occurrence:      occurrence,
		filmEntities:    rows,
	}
	st.meanRating, st.sdRating = stat.MeanStdDev(ratingVals)
	st.meanOcc, st.sdOcc = stat.MeanStdDev(occVals)
	return st, nil
}

// sortedEntityIDs 返回升序实体 ID，保证决策遍历顺序可复现。
func (st *entityStats) sortedEntityIDs() []int64 {
	ids := make([]int64, 0, len(st.occurrence))
	for id := range st.occurrence {
		ids = append(ids, id)
	}
	sortInt64(ids)
	return ids
}
