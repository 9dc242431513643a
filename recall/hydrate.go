package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
)

// Hydrate 为候选池批量装载属性（基础属性、语言、流派），各一次批量读取。
// 语言/流派关联只含已知 ID，缺席的影片保持空集，分类阶段按未知处理。
type Hydrate struct {
	Store core.CatalogStore
}

func (n *Hydrate) Name() string        { return "recall.hydrate" }
func (n *Hydrate) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *Hydrate) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.FilmID)
	}

	rows, err := n.Store.Films(ctx, ids)
	if err != nil {
		return nil, err
	}
	films := make(map[int64]core.FilmRow, len(rows))
	for _, r := range rows {
		films[r.FilmID] = r
	}

	languages, err := n.Store.FilmLanguages(ctx, ids)
	if err != nil {
		return nil, err
	}
	genres, err := n.Store.FilmGenres(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		r, ok := films[it.FilmID]
		if !ok {
			continue
		}
		it.Attrs = core.Attributes{
			Runtime:   r.Runtime,
			Color:     r.Color,
			Year:      r.Year,
			Languages: languages[it.FilmID],
			Genres:    genres[it.FilmID],
		}
	}
	return items, nil
}
