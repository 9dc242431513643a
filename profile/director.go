package profile

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// directorAffinity 推导想要/不想要的导演。
//
// 想要：出现次数 ≥ 均值+1sd，平均分未显著偏低（> 均值−1sd），
// 且在有三档以上不同评分时位列前三档；不足三档时跳过该过滤。
// 不想要：出现次数 ≥ 均值+1sd 且平均分 ≤ 均值−1sd。
func (e *Estimator) directorAffinity(ctx context.Context, rctx *core.RecommendContext) (wanted, unwanted []int64, err error) {
	st, err := e.entityStats(ctx, rctx, entityKind{
		rating: core.RatingQuality,
		fetch: func(ctx context.Context, s core.CatalogStore, filmIDs []int64) (map[int64][]int64, error) {
			return s.FilmDirectors(ctx, filmIDs)
		},
	})
	if err != nil || st == nil {
		return nil, nil, err
	}

	for _, id := range st.sortedEntityIDs() {
		if float64(st.occurrence[id]) < st.meanOcc+st.sdOcc {
			continue
		}
		switch {
		case st.avgRating[id] <= st.meanRating-st.sdRating:
			unwanted = append(unwanted, id)
		case len(st.distinctRatings) >= 3:
			if st.avgRating[id] >= st.distinctRatings[2] {
				wanted = append(wanted, id)
			}
		default:
			wanted = append(wanted, id)
		}
	}
	return wanted, unwanted, nil
}
