// Package logic implements a small condition-expression interpreter over
// nested boolean/comparison logic, evaluated against a flat-or-nested
// key/value record. Expressions arrive in their wire form (a tree of
// single-key maps produced by YAML or JSON decoding) and are parsed once
// into a typed tree; evaluation is pure and total.
package logic

import (
	"fmt"
	"strings"
)

// Expr is a parsed condition expression node.
type Expr interface {
	// Eval evaluates the expression against a record. Eval never fails:
	// lookups on missing paths yield the var default, comparisons across
	// incomparable types yield false, and unknown operators yield false.
	Eval(record map[string]any) any
}

// Literal is a constant leaf: numbers, strings, booleans, lists, nil.
type Literal struct {
	Value any
}

// Var references a dotted path into the record, with an optional default.
type Var struct {
	Path    string
	Default any
}

// Compare applies one of ==, !=, >, >=, <, <= to two sub-expressions.
type Compare struct {
	Op    string
	Left  Expr
	Right Expr
}

// And is true iff all arguments are truthy.
type And struct {
	Args []Expr
}

// Or is true iff at least one argument is truthy.
type Or struct {
	Args []Expr
}

// Unknown is the closed-world fallback: any unsupported operator name
// evaluates to an unconditional false instead of failing.
type Unknown struct {
	Op string
}

var compareOps = map[string]bool{
	"==": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true,
}

// Parse converts a decoded wire expression into a typed tree. A non-map
// value is a literal; a map must have exactly one key naming the operator,
// whose value is the argument list (a bare non-list argument is treated as
// a one-element list). Malformed comparison arity is rejected here so rule
// sets fail at load time, not mid-evaluation.
func Parse(v any) (Expr, error) {
	node, ok := toStringMap(v)
	if !ok {
		return &Literal{Value: v}, nil
	}
	if len(node) != 1 {
		return nil, fmt.Errorf("expression must have exactly one operator key (got %d)", len(node))
	}

	var op string
	var raw any
	for k, val := range node {
		op, raw = k, val
	}

	args, isList := raw.([]any)
	if !isList {
		args = []any{raw}
	}

	switch {
	case op == "var":
		return parseVar(args)

	case compareOps[op]:
		if len(args) != 2 {
			return nil, fmt.Errorf("operator %q requires exactly 2 arguments (got %d)", op, len(args))
		}
		left, err := Parse(args[0])
		if err != nil {
			return nil, err
		}
		right, err := Parse(args[1])
		if err != nil {
			return nil, err
		}
		return &Compare{Op: op, Left: left, Right: right}, nil

	case op == "and" || op == "or":
		if len(args) == 0 {
			return nil, fmt.Errorf("operator %q requires at least 1 argument", op)
		}
		sub := make([]Expr, len(args))
		for i, a := range args {
			e, err := Parse(a)
			if err != nil {
				return nil, err
			}
			sub[i] = e
		}
		if op == "and" {
			return &And{Args: sub}, nil
		}
		return &Or{Args: sub}, nil

	default:
		return &Unknown{Op: op}, nil
	}
}

func parseVar(args []any) (Expr, error) {
	v := &Var{}
	if len(args) > 0 && args[0] != nil {
		v.Path = fmt.Sprint(args[0])
	}
	if len(args) > 1 {
		v.Default = args[1]
	}
	return v, nil
}

// toStringMap normalizes the map forms different decoders produce.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func (l *Literal) Eval(record map[string]any) any { return l.Value }

func (v *Var) Eval(record map[string]any) any {
	if v.Path == "" {
		return record
	}

	var current any = record
	for _, part := range strings.Split(v.Path, ".") {
		m, ok := toStringMap(current)
		if !ok {
			return v.Default
		}
		next, ok := m[part]
		if !ok {
			return v.Default
		}
		current = next
	}
	return current
}

func (c *Compare) Eval(record map[string]any) any {
	left := c.Left.Eval(record)
	right := c.Right.Eval(record)

	switch c.Op {
	case "==":
		return equal(left, right)
	case "!=":
		return !equal(left, right)
	}

	cmp, ok := order(left, right)
	if !ok {
		// Incomparable types are a defined no-match, not an error.
		return false
	}
	switch c.Op {
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	}
	return false
}

func (a *And) Eval(record map[string]any) any {
	for _, e := range a.Args {
		if !Truthy(e.Eval(record)) {
			return false
		}
	}
	return true
}

func (o *Or) Eval(record map[string]any) any {
	for _, e := range o.Args {
		if Truthy(e.Eval(record)) {
			return true
		}
	}
	return false
}

func (u *Unknown) Eval(record map[string]any) any { return false }

// equal compares two values, normalizing numeric types so 5 == 5.0.
// Values of mismatched types are simply unequal.
func equal(a, b any) bool {
	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		return ok && na == nb
	}
	switch va := a.(type) {
	case nil:
		return b == nil
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	}
	return false
}

// order returns -1/0/1 for comparable pairs (numbers with numbers, strings
// with strings) and ok=false for everything else.
func order(a, b any) (int, bool) {
	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		}
		return 0, true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// Truthy reports whether a value counts as a match result: false, nil,
// zero numbers, empty strings and empty collections do not.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	if n, ok := toFloat(v); ok {
		return n != 0
	}
	return true
}
