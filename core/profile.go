package core

// Bounds 是由 mean ± 2·sd 推导出的闭区间（四舍五入到整数）。
// (0,0) 表示该属性在用户历史中整体未知（仅时长可能出现；年份总是已知）。
type Bounds struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

func (b Bounds) Known() bool { return b.Lower != 0 || b.Upper != 0 }

func (b Bounds) Contains(v int) bool { return b.Lower <= v && v <= b.Upper }

// ColorPrefKind 标记色彩偏好的四种取值形态。
type ColorPrefKind int8

const (
	PrefColorUnknown  ColorPrefKind = iota // 历史影片色彩全部未知
	PrefMonoOnly                           // 只要黑白片
	PrefFullColorOnly                      // 只要彩色片
	PrefMonoFraction                       // 黑白倾向，按比例配额
)

// ColorPreference 是色彩偏好的显式变体类型。
// 原始数据里 -1/1/2 与小数比例混在同一个数值域，这里拆开，
// 分类阶段不再需要靠数值区间判断“是不是比例”。
type ColorPreference struct {
	Kind ColorPrefKind `json:"kind"`
	Frac float64       `json:"fraction,omitempty"` // 仅 PrefMonoFraction 时有效，∈ (0,1)
}

func ColorPrefUnknown() ColorPreference { return ColorPreference{Kind: PrefColorUnknown} }

func MonoOnly() ColorPreference { return ColorPreference{Kind: PrefMonoOnly} }

func FullColorOnly() ColorPreference { return ColorPreference{Kind: PrefFullColorOnly} }

func MonoFraction(p float64) ColorPreference {
	return ColorPreference{Kind: PrefMonoFraction, Frac: p}
}

func (c ColorPreference) Unknown() bool { return c.Kind == PrefColorUnknown }

// Fraction 返回黑白配额比例；只有黑白倾向形态才有比例。
func (c ColorPreference) Fraction() (float64, bool) {
	if c.Kind == PrefMonoFraction {
		return c.Frac, true
	}
	return 0, false
}

// Matches 判断候选色彩是否满足 MonoOnly / FullColorOnly 形态。
// 候选色彩未知时一律放行；Unknown / Fraction 形态不参与排除判断。
func (c ColorPreference) Matches(col Color) bool {
	if col == ColorUnknown {
		return true
	}
	switch c.Kind {
	case PrefMonoOnly:
		return col == Monochrome
	case PrefFullColorOnly:
		return col == FullColor
	default:
		return true
	}
}

// GenreCombo 是一组同现流派及其权重，权重 ∈ {0, 2, 3}；0 表示不想要。
type GenreCombo struct {
	Genres []int64 `json:"genres"` // 升序
	Weight int     `json:"weight"`
}

// GenreWeight 是单个流派及其权重，权重 ∈ {0, 1, 2}；0 表示不想要。
type GenreWeight struct {
	GenreID int64 `json:"genre_id"`
	Weight  int   `json:"weight"`
}

// Profile 是每次运行内从头重算的用户偏好画像。
// 所有字段均可退化为 unknown/no-signal 值，分类阶段对应检查自动跳过。
type Profile struct {
	Runtime Bounds          `json:"runtime"`
	Year    Bounds          `json:"year"`
	Color   ColorPreference `json:"color"`

	// Languages 为空表示语言偏好未知
	Languages []int64 `json:"languages,omitempty"`

	WantedDirectors   []int64 `json:"wanted_directors,omitempty"`
	UnwantedDirectors []int64 `json:"unwanted_directors,omitempty"`
	WantedActors      []int64 `json:"wanted_actors,omitempty"`
	UnwantedActors    []int64 `json:"unwanted_actors,omitempty"`

	Combos []GenreCombo  `json:"combos,omitempty"`
	Genres []GenreWeight `json:"genres,omitempty"`
}

// GenreSignal 判断流派维度是否有任何信号（组合或单流派权重）。
func (p *Profile) GenreSignal() bool {
	return len(p.Combos) > 0 || len(p.Genres) > 0
}
