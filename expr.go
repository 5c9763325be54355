package namespace

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Program is a compiled expression evaluated against a namespace.
type Program struct {
	source string
	prg    *vm.Program
}

// Compile parses an expr-lang expression. Inside the
// expression, top-level fields are variables (nested fields are reached with
// the usual a.b syntax), unknown fields evaluate to nil, and two functions are
// available: get("a.b.0") reads a dotted path without creating fields, and
// has("a.b") reports Contains. The function names shadow fields of the same
// name, and get replaces expr's builtin of that name.
func Compile(expression string) (*Program, error) {
	prg, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.DisableBuiltin("get"),
	)
	if err != nil {
		return nil, &Error{Code: CodeParseError, Message: "invalid expression", Cause: err}
	}
	return &Program{source: expression, prg: prg}, nil
}

// Source returns the expression text.
func (p *Program) Source() string { return p.source }

// Run evaluates the program against n. n is not modified.
func (p *Program) Run(n *Namespace) (any, error) {
	out, err := expr.Run(p.prg, exprEnv(n))
	if err != nil {
		return nil, &Error{Code: CodeTypeMismatch, Message: "evaluating expression", Cause: err}
	}
	return out, nil
}

// Eval compiles and runs expression against n.
func (n *Namespace) Eval(expression string) (any, error) {
	p, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return p.Run(n)
}

func exprEnv(n *Namespace) map[string]any {
	env := n.ForJSON("")
	env["get"] = func(path string) any {
		v, ok := n.peek(path)
		if !ok {
			return nil
		}
		if c, isNode := v.(*Namespace); isNode && c.Empty() {
			return nil
		}
		return plainValue(nestedValue(v))
	}
	env["has"] = func(path string) bool { return n.Contains(path) }
	return env
}
