package core

import "github.com/rushteam/cinerec/pkg/utils"

// Color 是影片的色彩类型。
// 数据源用 -1 表示未知色彩，这里收敛为显式枚举，避免哨兵值混入统计。
type Color int8

const (
	ColorUnknown Color = iota
	Monochrome
	FullColor
)

// Tier 是候选影片的优先级档位。
// 声明顺序即优先级顺序：First > NotWanted > Mono > Second > Third > None。
type Tier uint8

const (
	TierFirst Tier = iota
	TierNotWanted
	TierMono
	TierSecond
	TierThird
	TierNone // 未命中任何档位，留在剩余池
)

// Weight 返回该档位写入推荐表的权重。
func (t Tier) Weight() int {
	switch t {
	case TierFirst:
		return 10
	case TierSecond:
		return 9
	case TierThird:
		return 8
	case TierMono:
		return 7
	default:
		return 0
	}
}

func (t Tier) String() string {
	switch t {
	case TierFirst:
		return "first"
	case TierNotWanted:
		return "not_wanted"
	case TierMono:
		return "mono"
	case TierSecond:
		return "second"
	case TierThird:
		return "third"
	default:
		return "none"
	}
}

// TierSet 是候选在归并前的档位标记集合。
// 分类阶段可能给同一候选打上多个档位，归并阶段按固定优先级只保留一个，
// “每个候选至多归入一档”由此在结构上成立，不再依赖多列表反复删除。
type TierSet uint8

func (s TierSet) Has(t Tier) bool { return s&(1<<t) != 0 }

func (s *TierSet) Add(t Tier) { *s |= 1 << t }

func (s TierSet) Empty() bool { return s == 0 }

// Resolve 返回集合中优先级最高的档位；空集合返回 TierNone。
func (s TierSet) Resolve() Tier {
	for t := TierFirst; t <= TierThird; t++ {
		if s.Has(t) {
			return t
		}
	}
	return TierNone
}

// ResolveBelow 返回严格低于 above 的最高档位，用于黑白配额占满后的降档。
func (s TierSet) ResolveBelow(above Tier) Tier {
	for t := above + 1; t <= TierThird; t++ {
		if s.Has(t) {
			return t
		}
	}
	return TierNone
}

// Attributes 是候选影片参与分类的属性快照。
// 语言与流派只保留已知 ID；未知时长用 0 表示，由 KnownRuntime 守卫。
type Attributes struct {
	Runtime   int // 分钟，0 表示未知
	Color     Color
	Year      int // 上映年份，数据源保证已知
	Languages []int64
	Genres    []int64
}

func (a Attributes) KnownRuntime() bool { return a.Runtime > 0 }

// Item 是推荐链路中的统一承载结构：属性、档位标记、权重、标签。
// Labels 用于解释与观测；Weight 在归并阶段按最终档位写入。
type Item struct {
	FilmID int64
	Attrs  Attributes
	Tiers  TierSet
	Weight int
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		FilmID: id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
