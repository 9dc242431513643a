package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/cinerec/core"
)

// Config 是引擎的运行配置（支持 YAML）。
// 零值字段加载后会被默认值补齐，因此配置文件只需写想覆盖的项。
type Config struct {
	// Corpus 是全库色彩统计（二项检验的零假设参数），片库扩充后离线重算
	Corpus core.CorpusColorStats `yaml:"corpus"`

	// MinHistory 是启动一次运行所需的最少历史影片数
	MinHistory int `yaml:"min_history"`

	// MaxCandidates / MinCandidates 是候选池的上限与下限
	MaxCandidates int `yaml:"max_candidates"`
	MinCandidates int `yaml:"min_candidates"`

	// MinSurvivors 是 not_wanted 过滤后的存活下限
	MinSurvivors int `yaml:"min_survivors"`

	// ResultSize 是最终推荐条数上限
	ResultSize int `yaml:"result_size"`

	// Significance 是色彩二项检验的显著性水平
	Significance float64 `yaml:"significance"`

	// DefaultRating 是未评分影片的默认分值
	DefaultRating int `yaml:"default_rating"`

	// ProfileCacheTTL 是画像缓存的 TTL（秒）。0 表示关闭缓存——
	// 默认关闭，保持“每次运行从头重算”的语义
	ProfileCacheTTL int `yaml:"profile_cache_ttl"`

	// Rules 是 CEL 候选排除规则，空列表时过滤阶段为 no-op
	Rules []string `yaml:"rules"`
}

// DefaultConfig 返回补齐默认值后的配置。
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.withDefaults()
	return cfg
}

func (c *Config) withDefaults() {
	if c.Corpus == (core.CorpusColorStats{}) {
		c.Corpus = core.DefaultCorpusColorStats()
	}
	if c.MinHistory <= 0 {
		c.MinHistory = 5
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 100
	}
	if c.MinCandidates <= 0 {
		c.MinCandidates = 20
	}
	if c.MinSurvivors <= 0 {
		c.MinSurvivors = 10
	}
	if c.ResultSize <= 0 {
		c.ResultSize = 30
	}
	if c.Significance <= 0 {
		c.Significance = 0.20
	}
	if c.DefaultRating <= 0 {
		c.DefaultRating = 5
	}
}

// LoadConfig 从 YAML 文件加载配置，缺省项补默认值。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.withDefaults()
	return &cfg, nil
}
