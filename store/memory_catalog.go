package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rushteam/cinerec/core"
)

// MemoryCatalog 是内存实现的 CatalogStore，用于测试与示例。
// 用 AddFilm / AddFavorite / AddRating 播种数据；读写全程加锁，可并发。
type MemoryCatalog struct {
	mu sync.RWMutex

	films     map[int64]core.FilmRow
	languages map[int64][]int64
	genres    map[int64][]int64
	directors map[int64][]int64
	actors    map[int64][]int64

	favorites map[int64][]int64
	ratings   map[int64]map[int64]ratingRow

	recs map[int64][]core.Recommendation
}

type ratingRow struct {
	quality int
	actors  int
	overall int
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		films:     make(map[int64]core.FilmRow),
		languages: make(map[int64][]int64),
		genres:    make(map[int64][]int64),
		directors: make(map[int64][]int64),
		actors:    make(map[int64][]int64),
		favorites: make(map[int64][]int64),
		ratings:   make(map[int64]map[int64]ratingRow),
		recs:      make(map[int64][]core.Recommendation),
	}
}

func (m *MemoryCatalog) Name() string { return "memory" }

// ========== 播种 ==========

// AddFilm 写入一部影片及其关联。关联切片传 nil 表示对应维度未知。
func (m *MemoryCatalog) AddFilm(row core.FilmRow, languages, genres, directors, actors []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.films[row.FilmID] = row
	if len(languages) > 0 {
		m.languages[row.FilmID] = append([]int64{}, languages...)
	}
	if len(genres) > 0 {
		m.genres[row.FilmID] = append([]int64{}, genres...)
	}
	if len(directors) > 0 {
		m.directors[row.FilmID] = append([]int64{}, directors...)
	}
	if len(actors) > 0 {
		m.actors[row.FilmID] = append([]int64{}, actors...)
	}
}

func (m *MemoryCatalog) AddFavorite(userID, filmID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites[userID] = append(m.favorites[userID], filmID)
}

// AddRating 写入一条评分行；维度未打分传 core.NotRated。
func (m *MemoryCatalog) AddRating(userID, filmID int64, quality, actors, overall int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.ratings[userID]
	if !ok {
		rows = make(map[int64]ratingRow)
		m.ratings[userID] = rows
	}
	rows[filmID] = ratingRow{quality: quality, actors: actors, overall: overall}
}

// Recommendations 返回用户当前的推荐行（测试断言用）。
func (m *MemoryCatalog) Recommendations(userID int64) []core.Recommendation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.Recommendation{}, m.recs[userID]...)
}

// ========== 用户历史 ==========

func (m *MemoryCatalog) FavoriteFilmIDs(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int64{}, m.favorites[userID]...), nil
}

func (m *MemoryCatalog) RatedFilmIDs(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.ratings[userID]
	out := make([]int64, 0, len(rows))
	for id := range rows {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *MemoryCatalog) Ratings(
	_ context.Context,
	userID int64,
	cat core.RatingCategory,
	filmIDs []int64,
) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.ratings[userID]
	out := make(map[int64]int)
	for _, id := range filmIDs {
		row, ok := rows[id]
		if !ok {
			continue
		}
		switch cat {
		case core.RatingQuality:
			out[id] = row.quality
		case core.RatingActors:
			out[id] = row.actors
		case core.RatingOverall:
			out[id] = row.overall
		}
	}
	return out, nil
}

// ========== 影片属性 ==========

func (m *MemoryCatalog) Films(_ context.Context, filmIDs []int64) ([]core.FilmRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.FilmRow, 0, len(filmIDs))
	for _, id := range filmIDs {
		if row, ok := m.films[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *MemoryCatalog) FilmLanguages(_ context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return m.relation(m.languages, filmIDs), nil
}

func (m *MemoryCatalog) FilmGenres(_ context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return m.relation(m.genres, filmIDs), nil
}

func (m *MemoryCatalog) FilmDirectors(_ context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return m.relation(m.directors, filmIDs), nil
}

func (m *MemoryCatalog) FilmActors(_ context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return m.relation(m.actors, filmIDs), nil
}

func (m *MemoryCatalog) relation(rel map[int64][]int64, filmIDs []int64) map[int64][]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64][]int64)
	for _, id := range filmIDs {
		if ids, ok := rel[id]; ok {
			out[id] = append([]int64{}, ids...)
		}
	}
	return out
}

// ========== 候选检索 ==========

func (m *MemoryCatalog) FilmsByDirectors(
	_ context.Context,
	wanted, unwanted, excludeFilms []int64,
) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := toSet(excludeFilms)
	unwantedSet := toSet(unwanted)

	var out []int64
	for filmID, dirs := range m.directors {
		if _, ok := excluded[filmID]; ok {
			continue
		}
		hasWanted, hasUnwanted := false, false
		for _, d := range dirs {
			if containsInt64(wanted, d) {
				hasWanted = true
			}
			if _, ok := unwantedSet[d]; ok {
				hasUnwanted = true
			}
		}
		if hasWanted && !hasUnwanted {
			out = append(out, filmID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *MemoryCatalog) FilmActorPairs(
	_ context.Context,
	wanted, excludeFilms []int64,
) (map[int64][]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := toSet(excludeFilms)
	out := make(map[int64][]int64)
	for filmID, cast := range m.actors {
		if _, ok := excluded[filmID]; ok {
			continue
		}
		var present []int64
		for _, a := range cast {
			if containsInt64(wanted, a) {
				present = append(present, a)
			}
		}
		if len(present) > 0 {
			out[filmID] = present
		}
	}
	return out, nil
}

func (m *MemoryCatalog) FilmsWithActors(_ context.Context, actors []int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []int64
	for filmID, cast := range m.actors {
		for _, a := range cast {
			if containsInt64(actors, a) {
				out = append(out, filmID)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ========== 推荐结果 ==========

func (m *MemoryCatalog) DeleteRecommendations(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, userID)
	return nil
}

func (m *MemoryCatalog) InsertRecommendations(_ context.Context, recs []core.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		m.recs[rec.UserID] = append(m.recs[rec.UserID], rec)
	}
	return nil
}

func toSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func containsInt64(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

var _ core.CatalogStore = (*MemoryCatalog)(nil)
