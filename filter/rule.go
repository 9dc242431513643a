package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cinerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// RuleFilter 用 CEL (Common Expression Language) 表达式做候选排除，
// 表达式返回 true 则剔除该候选。表达式在构造时编译一次，求值可并发。
//
// 表达式可见的变量（item 为 map）：
//   - item.film_id    int
//   - item.runtime    int（0 表示未知）
//   - item.color      int（0 未知 / 1 黑白 / 2 彩色）
//   - item.year       int
//   - item.languages  list<int>
//   - item.genres     list<int>
//
// 示例：
//   - `item.year < 1950`                       → 剔除 1950 年前的影片
//   - `item.runtime > 0 && item.runtime > 240` → 剔除超长片
//   - `7 in item.genres`                       → 剔除某个流派
type RuleFilter struct {
	expr string
	prg  cel.Program
}

// NewRuleFilter 编译一条 CEL 排除规则。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}
	return &RuleFilter{expr: expr, prg: prg}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}

	out, _, err := f.prg.Eval(map[string]any{
		"item": map[string]any{
			"film_id":   item.FilmID,
			"runtime":   int64(item.Attrs.Runtime),
			"color":     int64(item.Attrs.Color),
			"year":      int64(item.Attrs.Year),
			"languages": item.Attrs.Languages,
			"genres":    item.Attrs.Genres,
		},
	})
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", f.expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q did not evaluate to bool", f.expr)
	}
	return matched, nil
}
