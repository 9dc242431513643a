package core

// CorpusColorStats 是全量片库的色彩统计，作为色彩二项检验的零假设参数。
// 片库扩充后需要离线重算，再通过配置下发；引擎运行期不会去数全库。
type CorpusColorStats struct {
	Monochrome int64 `yaml:"monochrome" json:"monochrome"`
	FullColor  int64 `yaml:"full_color" json:"full_color"`
	Unknown    int64 `yaml:"unknown" json:"unknown"`
}

// MonoRate 返回已知色彩影片中黑白片的占比（未知不计入分母）。
func (s CorpusColorStats) MonoRate() float64 {
	known := s.Monochrome + s.FullColor
	if known <= 0 {
		return 0
	}
	return float64(s.Monochrome) / float64(known)
}

// DefaultCorpusColorStats 返回当前片库快照的统计值。
func DefaultCorpusColorStats() CorpusColorStats {
	return CorpusColorStats{
		Monochrome: 16319,
		FullColor:  221937,
		Unknown:    21700,
	}
}
