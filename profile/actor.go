package profile

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// 想要的演员分两个显著性档：1sd 档最多取 4 人，2sd 档最多取 8 人。
const (
	actorBandOneCap = 4
	actorBandTwoCap = 8
)

// actorAffinity 推导想要/不想要的演员。
//
// 出现次数 ≥ 均值+2sd 进第二档，否则 ≥ 均值+1sd 进第一档；
// 两档都在平均分 ≤ 均值−1sd 时改判不想要。
// 截断只作用于想要列表，不想要列表完整保留（召回时要全量排除）。
func (e *Estimator) actorAffinity(ctx context.Context, rctx *core.RecommendContext) (wanted, unwanted []int64, err error) {
	st, err := e.entityStats(ctx, rctx, entityKind{
		rating: core.RatingActors,
		fetch: func(ctx context.Context, s core.CatalogStore, filmIDs []int64) (map[int64][]int64, error) {
			return s.FilmActors(ctx, filmIDs)
		},
	})
	if err != nil || st == nil {
		return nil, nil, err
	}

	var bandOne, bandTwo []int64
	for _, id := range st.sortedEntityIDs() {
		occ := float64(st.occurrence[id])
		lowRated := st.avgRating[id] <= st.meanRating-st.sdRating
		switch {
		case occ >= st.meanOcc+2*st.sdOcc:
			if lowRated {
				unwanted = append(unwanted, id)
			} else {
				bandTwo = append(bandTwo, id)
			}
		case occ >= st.meanOcc+st.sdOcc:
			if lowRated {
				unwanted = append(unwanted, id)
			} else {
				bandOne = append(bandOne, id)
			}
		}
	}

	if len(bandOne) > actorBandOneCap {
		bandOne = bandOne[:actorBandOneCap]
	}
	if len(bandTwo) > actorBandTwoCap {
		bandTwo = bandTwo[:actorBandTwoCap]
	}
	wanted = append(bandOne, bandTwo...)
	return wanted, unwanted, nil
}
