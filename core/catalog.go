package core

import "context"

// RatingCategory 是评分的三个维度，分别服务导演 / 演员 / 流派的亲和度统计。
type RatingCategory string

const (
	RatingQuality RatingCategory = "quality" // 制作质量，导演维度
	RatingActors  RatingCategory = "actors"  // 表演，演员维度
	RatingOverall RatingCategory = "overall" // 整体观感，流派维度
)

// NotRated 是评分行中“该维度未打分”的哨兵值；统计时按默认分处理。
const NotRated = -1

// FilmRow 是影片基础属性行。Runtime 为 0 表示未知；Year 总是已知。
type FilmRow struct {
	FilmID  int64
	Runtime int
	Color   Color
	Year    int
}

func (r FilmRow) KnownRuntime() bool { return r.Runtime > 0 }

// Recommendation 是持久化的推荐行，权重 ∈ {0, 7, 8, 9, 10}。
type Recommendation struct {
	FilmID int64
	UserID int64
	Weight int
}

// CatalogStore 是片库/关系存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 引擎只消费这份窄契约：按条件读、批量插、按用户删；不使用 update
//   - 关联读取只返回已知 ID：未知语言/流派/导演/演员不会出现在结果里，
//     对应影片直接缺席该 map，上层据此识别 unknown
//
// 实现：
//   - store.MemoryCatalog（测试/示例）
//   - store.PostgresCatalog（生产，pgx）
//
// 错误约定：任何读写失败原样上抛，引擎不重试。
type CatalogStore interface {
	// Name 返回存储后端名称（用于观测）
	Name() string

	// ========== 用户历史 ==========

	// FavoriteFilmIDs 返回用户收藏的影片 ID
	FavoriteFilmIDs(ctx context.Context, userID int64) ([]int64, error)

	// RatedFilmIDs 返回用户评过分的影片 ID
	RatedFilmIDs(ctx context.Context, userID int64) ([]int64, error)

	// Ratings 返回用户在指定维度上的评分，filmID -> 分值。
	// 未评分的影片不在结果中；分值可能是 NotRated 哨兵（评分行存在但该维度未打分）。
	Ratings(ctx context.Context, userID int64, cat RatingCategory, filmIDs []int64) (map[int64]int, error)

	// ========== 影片属性 ==========

	// Films 批量读取影片基础属性
	Films(ctx context.Context, filmIDs []int64) ([]FilmRow, error)

	// FilmLanguages 返回 filmID -> 已知语言 ID 集合
	FilmLanguages(ctx context.Context, filmIDs []int64) (map[int64][]int64, error)

	// FilmGenres 返回 filmID -> 已知流派 ID 集合
	FilmGenres(ctx context.Context, filmIDs []int64) (map[int64][]int64, error)

	// FilmDirectors 返回 filmID -> 已知导演 ID 集合
	FilmDirectors(ctx context.Context, filmIDs []int64) (map[int64][]int64, error)

	// FilmActors 返回 filmID -> 已知演员 ID 集合
	FilmActors(ctx context.Context, filmIDs []int64) (map[int64][]int64, error)

	// ========== 候选检索 ==========

	// FilmsByDirectors 返回 wanted 导演执导、且不含任何 unwanted 导演、
	// 且不在 excludeFilms 中的影片 ID（去重）
	FilmsByDirectors(ctx context.Context, wanted, unwanted, excludeFilms []int64) ([]int64, error)

	// FilmActorPairs 返回 filmID -> 片中出现的 wanted 演员集合，排除 excludeFilms
	FilmActorPairs(ctx context.Context, wanted, excludeFilms []int64) (map[int64][]int64, error)

	// FilmsWithActors 返回出现过任一给定演员的影片 ID（去重）
	FilmsWithActors(ctx context.Context, actors []int64) ([]int64, error)

	// ========== 推荐结果 ==========
	// 先删后插，两步之间不包事务：中途崩溃会让用户暂时没有推荐，
	// 这是可接受的降级态，不会产生重复或脏数据。

	DeleteRecommendations(ctx context.Context, userID int64) error

	InsertRecommendations(ctx context.Context, recs []Recommendation) error
}
