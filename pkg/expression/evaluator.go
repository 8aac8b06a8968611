package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/functions"
)

// Evaluator evaluates templates and expressions against a scoped context
// merged with a function registry.
type Evaluator struct {
	ctx      *Context
	registry *functions.Registry
}

// New creates an evaluator over the given context and registry. A nil context
// starts empty; a nil registry gets the built-in function library.
func New(ctx *Context, registry *functions.Registry) *Evaluator {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	if registry == nil {
		registry = functions.NewWithBuiltins()
	}
	return &Evaluator{ctx: ctx, registry: registry}
}

// Context returns the evaluator's variable context.
func (e *Evaluator) Context() *Context { return e.ctx }

// Registry returns the evaluator's function registry.
func (e *Evaluator) Registry() *functions.Registry { return e.registry }

// PushScope adds an innermost variable scope.
func (e *Evaluator) PushScope(vars map[string]any) { e.ctx.Push(vars) }

// PopScope removes the innermost variable scope.
func (e *Evaluator) PopScope() { e.ctx.Pop() }

// ReplaceContext swaps the variable context wholesale.
func (e *Evaluator) ReplaceContext(ctx *Context) {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	e.ctx = ctx
}

// Fork returns an evaluator over a copy-on-write child of the current
// context, sharing the registry. Used for per-record bulk scopes.
func (e *Evaluator) Fork() *Evaluator {
	return &Evaluator{ctx: e.ctx.Child(), registry: e.registry}
}

// env builds the evaluation environment: flattened scopes over the registry
// snapshot (variables shadow function names).
func (e *Evaluator) env() map[string]any {
	env := e.registry.Snapshot()
	for k, v := range e.ctx.Flatten() {
		env[k] = v
	}
	return env
}

// EvaluateExpression evaluates a bare expression. Identifiers resolve only
// against the context and the registry; anything else (including attempts to
// reach process or runtime objects) fails compilation.
func (e *Evaluator) EvaluateExpression(code string) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.EvalError{Expr: code, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	env := e.env()
	program, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return nil, &domain.EvalError{Expr: code, Err: err}
	}
	out, err = expr.Run(program, env)
	if err != nil {
		return nil, &domain.EvalError{Expr: code, Err: err}
	}
	return out, nil
}

// Evaluate substitutes every ${expr} region in a string template. Non-string
// input is returned unchanged. A template that is exactly one region returns
// the evaluated value with its type preserved; mixed templates render to a
// string.
func (e *Evaluator) Evaluate(input any) (any, error) {
	tmpl, ok := input.(string)
	if !ok {
		return input, nil
	}

	regions, err := splitTemplate(tmpl)
	if err != nil {
		return nil, &domain.EvalError{Expr: tmpl, Err: err}
	}
	if len(regions) == 1 && regions[0].expr {
		return e.EvaluateExpression(regions[0].text)
	}

	var b strings.Builder
	for _, region := range regions {
		if !region.expr {
			b.WriteString(region.text)
			continue
		}
		v, err := e.EvaluateExpression(region.text)
		if err != nil {
			return nil, err
		}
		if v != nil {
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return b.String(), nil
}

// EvaluateCondition coerces an expression (or literal bool) to a boolean,
// returning false on any evaluation failure.
func (e *Evaluator) EvaluateCondition(cond any) bool {
	switch c := cond.(type) {
	case nil:
		return false
	case bool:
		return c
	case string:
		v, err := e.EvaluateExpression(c)
		if err != nil {
			return false
		}
		return functions.Truthy(v)
	default:
		return functions.Truthy(cond)
	}
}

// EvaluatePlainCondition is a stateless convenience: it evaluates a condition
// directly against the supplied variable map. Syntactically invalid
// expressions and non-boolean results yield false; it never panics.
func EvaluatePlainCondition(code string, data map[string]any) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()

	ev := New(NewContext(data), nil)
	v, err := ev.EvaluateExpression(code)
	if err != nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

type templateRegion struct {
	text string
	expr bool
}

// splitTemplate cuts a template into literal and ${...} regions. Braces
// inside an expression may nest; braces inside quoted string literals do not
// count. An unterminated region is an error.
func splitTemplate(tmpl string) ([]templateRegion, error) {
	var regions []templateRegion
	rest := tmpl
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			break
		}
		if start > 0 {
			regions = append(regions, templateRegion{text: rest[:start]})
		}
		rest = rest[start+2:]

		depth := 1
		end := -1
		for i := 0; i < len(rest); i++ {
			switch quote := rest[i]; quote {
			case '\'', '"':
				// Skip the quoted literal, honoring backslash escapes.
				for i++; i < len(rest); i++ {
					if rest[i] == '\\' {
						i++
						continue
					}
					if rest[i] == quote {
						break
					}
				}
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("unterminated ${ in template")
		}
		regions = append(regions, templateRegion{text: rest[:end], expr: true})
		rest = rest[end+1:]
	}
	if rest != "" || len(regions) == 0 {
		regions = append(regions, templateRegion{text: rest})
	}
	return regions, nil
}
