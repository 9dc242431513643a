package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rushteam/cinerec/core"
)

// PostgresCatalog 是 Postgres 实现的 CatalogStore（pgx 连接池）。
//
// 期望的表结构：
//
//	films(film_id bigint primary key, runtime int, color smallint, year int)
//	film_languages(film_id bigint, language_id bigint)
//	film_genres(film_id bigint, genre_id bigint)
//	film_directors(film_id bigint, director_id bigint)
//	film_actors(film_id bigint, actor_id bigint)
//	favorites(user_id bigint, film_id bigint)
//	ratings(user_id bigint, film_id bigint, quality smallint, actors smallint, overall smallint)
//	recommendations(user_id bigint, film_id bigint, weight smallint)
//
// 关联表只存已知 ID；未知维度直接没有行。color 列沿用历史编码
// -1/1/2（未知/黑白/彩色），读写时与 core.Color 互转。
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalog(ctx context.Context, dsn string) (*PostgresCatalog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresCatalog{pool: pool}, nil
}

func (p *PostgresCatalog) Name() string { return "postgres" }

func (p *PostgresCatalog) Close() { p.pool.Close() }

const (
	dbColorUnknown = -1
	dbColorMono    = 1
	dbColorFull    = 2
)

func colorFromDB(v int) core.Color {
	switch v {
	case dbColorMono:
		return core.Monochrome
	case dbColorFull:
		return core.FullColor
	default:
		return core.ColorUnknown
	}
}

// ========== 用户历史 ==========

func (p *PostgresCatalog) FavoriteFilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT film_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

func (p *PostgresCatalog) RatedFilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT film_id FROM ratings WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

func (p *PostgresCatalog) Ratings(
	ctx context.Context,
	userID int64,
	cat core.RatingCategory,
	filmIDs []int64,
) (map[int64]int, error) {
	col, err := ratingColumn(cat)
	if err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx,
		`SELECT film_id, `+col+` FROM ratings WHERE user_id = $1 AND film_id = ANY($2)`,
		userID, filmIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var id int64
		var v int
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, rows.Err()
}

// ratingColumn 把评分维度映射到固定列名。列名来自封闭集合，
// 不拼接任何外部输入。
func ratingColumn(cat core.RatingCategory) (string, error) {
	switch cat {
	case core.RatingQuality:
		return "quality", nil
	case core.RatingActors:
		return "actors", nil
	case core.RatingOverall:
		return "overall", nil
	}
	return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
		fmt.Sprintf("store: unknown rating category %q", cat))
}

// ========== 影片属性 ==========

func (p *PostgresCatalog) Films(ctx context.Context, filmIDs []int64) ([]core.FilmRow, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT film_id, runtime, color, year FROM films WHERE film_id = ANY($1)`,
		filmIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.FilmRow
	for rows.Next() {
		var r core.FilmRow
		var color int
		if err := rows.Scan(&r.FilmID, &r.Runtime, &color, &r.Year); err != nil {
			return nil, err
		}
		r.Color = colorFromDB(color)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresCatalog) FilmLanguages(ctx context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return p.relation(ctx, "film_languages", "language_id", filmIDs)
}

func (p *PostgresCatalog) FilmGenres(ctx context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return p.relation(ctx, "film_genres", "genre_id", filmIDs)
}

func (p *PostgresCatalog) FilmDirectors(ctx context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return p.relation(ctx, "film_directors", "director_id", filmIDs)
}

func (p *PostgresCatalog) FilmActors(ctx context.Context, filmIDs []int64) (map[int64][]int64, error) {
	return p.relation(ctx, "film_actors", "actor_id", filmIDs)
}

func (p *PostgresCatalog) relation(
	ctx context.Context,
	table, column string,
	filmIDs []int64,
) (map[int64][]int64, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT film_id, `+column+` FROM `+table+` WHERE film_id = ANY($1)`,
		filmIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]int64)
	for rows.Next() {
		var filmID, id int64
		if err := rows.Scan(&filmID, &id); err != nil {
			return nil, err
		}
		out[filmID] = append(out[filmID], id)
	}
	return out, rows.Err()
}

// ========== 候选检索 ==========

func (p *PostgresCatalog) FilmsByDirectors(
	ctx context.Context,
	wanted, unwanted, excludeFilms []int64,
) ([]int64, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT fd.film_id
		FROM film_directors fd
		WHERE fd.director_id = ANY($1)
		  AND fd.film_id != ALL($3)
		  AND NOT EXISTS (
			SELECT 1 FROM film_directors x
			WHERE x.film_id = fd.film_id AND x.director_id = ANY($2)
		  )`,
		wanted, unwanted, excludeFilms)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

func (p *PostgresCatalog) FilmActorPairs(
	ctx context.Context,
	wanted, excludeFilms []int64,
) (map[int64][]int64, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT film_id, actor_id
		FROM film_actors
		WHERE actor_id = ANY($1) AND film_id != ALL($2)`,
		wanted, excludeFilms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]int64)
	for rows.Next() {
		var filmID, actorID int64
		if err := rows.Scan(&filmID, &actorID); err != nil {
			return nil, err
		}
		out[filmID] = append(out[filmID], actorID)
	}
	return out, rows.Err()
}

func (p *PostgresCatalog) FilmsWithActors(ctx context.Context, actors []int64) ([]int64, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT DISTINCT film_id FROM film_actors WHERE actor_id = ANY($1)`,
		actors)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// ========== 推荐结果 ==========

func (p *PostgresCatalog) DeleteRecommendations(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM recommendations WHERE user_id = $1`, userID)
	return err
}

func (p *PostgresCatalog) InsertRecommendations(ctx context.Context, recs []core.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	_, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{"recommendations"},
		[]string{"user_id", "film_id", "weight"},
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			return []any{recs[i].UserID, recs[i].FilmID, recs[i].Weight}, nil
		}),
	)
	return err
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

var _ core.CatalogStore = (*PostgresCatalog)(nil)
