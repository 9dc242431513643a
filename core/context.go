package core

import (
	"github.com/google/uuid"

	"github.com/rushteam/cinerec/pkg/utils"
)

// RecommendContext 承载一次引擎运行的用户信息，贯穿整个 Pipeline 透传。
// History 是本次运行的不可变快照：收藏与评分影片去重后的并集，
// 候选检索据此排除用户已有态度的影片。
type RecommendContext struct {
	UserID int64

	// RunID 是本次运行的追踪 ID，会写入结果 labels，便于排查一次运行的全链路
	RunID string

	// History 是收藏 ∪ 评分影片 ID 的去重快照（升序）
	History []int64

	// Profile 在画像估计完成后填入，召回与分类阶段只读
	Profile *Profile

	// Labels 是运行级标签
	Labels map[string]utils.Label
}

func NewRecommendContext(userID int64) *RecommendContext {
	return &RecommendContext{
		UserID: userID,
		RunID:  uuid.NewString(),
		Labels: make(map[string]utils.Label),
	}
}

// InHistory 判断影片是否在用户历史快照中（快照升序，二分即可）。
func (rctx *RecommendContext) InHistory(filmID int64) bool {
	lo, hi := 0, len(rctx.History)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case rctx.History[mid] == filmID:
			return true
		case rctx.History[mid] < filmID:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return false
}

// PutLabel 写入运行级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取运行级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
