package dsl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/exhibitkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("exhibit", cel.DynType),
		cel.Variable("visitor", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Predicate 是一条编译好的展品断言，使用 CEL (Common Expression Language) 表达。
// anchor 规则的 predicate 字段即此类型，表驱动而非硬编码字符串比较。
//
// 可用变量（均为小写化后的字段）：
//   - exhibit.id        展品 ID（原样，不小写）
//   - exhibit.name      展品名（小写）
//   - exhibit.category  类目（小写，Category 为空时回退 ExhibitType）
//   - exhibit.text      name+description+category 全文（小写）
//
// 示例：
//   - `exhibit.name.contains("taramandal") || exhibit.id == "cmf97ohja0003snwdwzd9jhb7"`
//   - `exhibit.category.contains("astronomy")`
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 断言表达式。表达式为空时断言恒为 true（与空过滤条件一致）。
// 编译结果可并发复用，应在装配期（而非每次请求）调用。
func Compile(expr string) (*Predicate, error) {
	p := &Predicate{expr: expr}
	if expr == "" {
		return p, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	p.prg = prg
	return p, nil
}

// Expr 返回原始表达式（用于日志/诊断）。
func (p *Predicate) Expr() string { return p.expr }

// MatchExhibit 对单个展品执行断言。
func (p *Predicate) MatchExhibit(ex *core.Exhibit) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	if ex == nil {
		return false, nil
	}

	input := map[string]any{
		"exhibit": map[string]any{
			"id":       ex.ID,
			"name":     strings.ToLower(ex.Name),
			"category": strings.ToLower(ex.EffectiveCategory()),
			"text":     ex.SearchableText(),
		},
	}

	out, _, err := p.prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}
