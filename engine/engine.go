// Package engine 把各阶段组装成完整的一次推荐运行：
// 历史快照 → 画像估计 → 候选召回 → 规则过滤 → 分类 → 归并落库。
//
// 引擎是无状态编排层：所有用户数据来自 CatalogStore，每次运行
// 从头重算（可选画像缓存除外），同一用户的并发运行在进程内串行化。
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rushteam/cinerec/assemble"
	"github.com/rushteam/cinerec/classify"
	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/filter"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/profile"
	"github.com/rushteam/cinerec/recall"
)

// Engine 是推荐引擎的入口。用 New 构造。
type Engine struct {
	store core.CatalogStore
	cfg   *Config

	// cache 是可选的画像缓存（JSON 序列化，TTL 来自配置）；nil 时每次重算
	cache core.Store

	// filters 是编译好的 CEL 排除规则，构造时编译一次
	filters []filter.Filter

	// rand 是演员召回补齐的采样源，测试注入固定种子
	rand *rand.Rand

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// Option 配置 Engine 的可选依赖。
type Option func(*Engine)

// WithProfileCache 注入画像缓存存储；不注入则每次运行从头估计画像。
func WithProfileCache(s core.Store) Option {
	return func(e *Engine) { e.cache = s }
}

// WithRand 注入随机源，用于演员召回的单演员补齐采样。
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rand = r }
}

// New 构造引擎；cfg 为 nil 时取默认配置。配置中的规则在此编译，
// 有非法表达式直接报错，不会带病上线。
func New(store core.CatalogStore, cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.withDefaults()
	}

	e := &Engine{
		store: store,
		cfg:   cfg,
		locks: make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, expr := range cfg.Rules {
		f, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, err
		}
		e.filters = append(e.filters, f)
	}
	return e, nil
}

// Run 为一个用户执行一次完整运行。
//
// 返回 (true, nil) 表示推荐已整组替换落库；(false, ErrInsufficientSignal)
// 表示历史或候选不足，用户已有的推荐保持原样，一行未动。存储错误原样
// 上抛，同样不落任何写。
//
// 同一用户的并发调用在进程内互斥，后到者等待而不是叠加写。
func (e *Engine) Run(ctx context.Context, userID int64) (bool, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	history, err := e.loadHistory(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(history) < e.cfg.MinHistory {
		return false, core.ErrInsufficientSignal
	}

	rctx := core.NewRecommendContext(userID)
	rctx.History = history

	p, err := e.loadProfile(ctx, rctx)
	if err != nil {
		return false, err
	}
	rctx.Profile = p

	if _, err := e.buildPipeline().Run(ctx, rctx, nil); err != nil {
		return false, err
	}
	return true, nil
}

// loadHistory 取收藏与评分影片的去重并集，升序排好作为本次运行的快照。
func (e *Engine) loadHistory(ctx context.Context, userID int64) ([]int64, error) {
	favs, err := e.store.FavoriteFilmIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	rated, err := e.store.RatedFilmIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(favs)+len(rated))
	out := make([]int64, 0, len(favs)+len(rated))
	for _, ids := range [][]int64{favs, rated} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// loadProfile 先查缓存，未命中则估计并回填。缓存读写失败不影响运行，
// 退化为直接估计——缓存是加速器，不是依赖。
func (e *Engine) loadProfile(ctx context.Context, rctx *core.RecommendContext) (*core.Profile, error) {
	key := profileCacheKey(rctx.UserID)
	if e.cache != nil {
		if data, err := e.cache.Get(ctx, key); err == nil {
			var p core.Profile
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
		}
	}

	est := &profile.Estimator{
		Store:         e.store,
		Corpus:        e.cfg.Corpus,
		Significance:  e.cfg.Significance,
		DefaultRating: e.cfg.DefaultRating,
	}
	p, err := est.Estimate(ctx, rctx)
	if err != nil {
		return nil, err
	}

	if e.cache != nil && e.cfg.ProfileCacheTTL > 0 {
		if data, err := json.Marshal(p); err == nil {
			_ = e.cache.Set(ctx, key, data, e.cfg.ProfileCacheTTL)
		}
	}
	return p, nil
}

func profileCacheKey(userID int64) string {
	return fmt.Sprintf("cinerec:profile:%d", userID)
}

// buildPipeline 组装一次运行的 Node 链。导演源在前，去重时它的标签
// 是先到者，双池候选的 recall_source 因此合并为 "director|actor"。
func (e *Engine) buildPipeline() *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{
				&recall.DirectorSource{Store: e.store},
				&recall.ActorSource{Store: e.store, Target: e.cfg.MaxCandidates, Rand: e.rand},
			},
			MinCandidates: e.cfg.MinCandidates,
			MaxCandidates: e.cfg.MaxCandidates,
		},
		&recall.Hydrate{Store: e.store},
	}
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.Node{Filters: e.filters})
	}
	nodes = append(nodes,
		&classify.Classifier{},
		&assemble.Assembler{
			Store:        e.store,
			ResultSize:   e.cfg.ResultSize,
			MinSurvivors: e.cfg.MinSurvivors,
		},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}
