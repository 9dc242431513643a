package recall

import (
	"context"
	"math/rand"
	"sort"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

// ActorSource 按画像中的演员偏好召回候选。
//
// 主路径取“至少两位想要演员同片”的影片（共现信号）；不足 Target 时
// 从恰好一位想要演员的影片里随机补齐。含任何不想要演员的影片与
// 用户历史一律排除。画像中演员维度无信号时返回空，不访问存储。
type ActorSource struct {
	Store core.CatalogStore

	// Target 是补齐目标，0 时取 100
	Target int

	// Rand 是单演员补齐的采样源，nil 时用包级全局源；测试注入固定种子
	Rand *rand.Rand
}

func (s *ActorSource) Name() string { return "recall.actor" }

func (s *ActorSource) target() int {
	if s.Target > 0 {
		return s.Target
	}
	return 100
}

func (s *ActorSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	p := rctx.Profile
	if p == nil || (len(p.WantedActors) == 0 && len(p.UnwantedActors) == 0) {
		return nil, nil
	}

	exclude := rctx.History
	if len(p.UnwantedActors) > 0 {
		blocked, err := s.Store.FilmsWithActors(ctx, p.UnwantedActors)
		if err != nil {
			return nil, err
		}
		exclude = append(append([]int64{}, rctx.History...), blocked...)
	}

	pairs, err := s.Store.FilmActorPairs(ctx, p.WantedActors, exclude)
	if err != nil {
		return nil, err
	}

	var co, singles []int64
	for filmID, actors := range pairs {
		if len(actors) >= 2 {
			co = append(co, filmID)
		} else {
			singles = append(singles, filmID)
		}
	}
	sortFilmIDs(co)
	sortFilmIDs(singles)

	out := make([]*core.Item, 0, s.target())
	for _, id := range co {
		out = append(out, s.newItem(id))
	}

	// 共现影片不足时随机补齐单演员影片；乱序后取前缀等价于无放回抽样
	if missing := s.target() - len(out); missing > 0 && len(singles) > 0 {
		s.shuffle(singles)
		if missing > len(singles) {
			missing = len(singles)
		}
		for _, id := range singles[:missing] {
			out = append(out, s.newItem(id))
		}
	}
	return out, nil
}

func (s *ActorSource) newItem(id int64) *core.Item {
	it := core.NewItem(id)
	it.PutLabel("recall_source", utils.Label{Value: "actor", Source: "recall"})
	return it
}

func (s *ActorSource) shuffle(ids []int64) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if s.Rand != nil {
		s.Rand.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}

func sortFilmIDs(s []int64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
