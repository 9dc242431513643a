package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

// DirectorSource 按画像中的导演偏好召回候选：
// 想要导演执导的影片，排除含不想要导演的影片与用户历史。
// 画像中导演维度无信号时返回空，不访问存储。
type DirectorSource struct {
	Store core.CatalogStore
}

func (s *DirectorSource) Name() string { return "recall.director" }

func (s *DirectorSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	p := rctx.Profile
	if p == nil || (len(p.WantedDirectors) == 0 && len(p.UnwantedDirectors) == 0) {
		return nil, nil
	}

	ids, err := s.Store.FilmsByDirectors(ctx, p.WantedDirectors, p.UnwantedDirectors, rctx.History)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue // 多位想要导演合作同一部影片
		}
		seen[id] = struct{}{}
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "director", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
