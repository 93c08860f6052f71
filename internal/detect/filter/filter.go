// Package filter compiles the optional per-interface reporting condition that
// decides whether a detected transaction is emitted.
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Filter struct {
	cond    string
	names   []string
	program *vm.Program
}

// Compile builds a filter over the given payload field names. An empty
// condition yields a nil Filter, which callers treat as "keep everything".
func Compile(cond string, names []string) (*Filter, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil, nil
	}
	if err := Validate(cond); err != nil {
		return nil, err
	}

	env := make(map[string]any, len(names))
	for _, n := range names {
		env[n] = uint64(0)
	}
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", cond, err)
	}
	return &Filter{cond: cond, names: append([]string(nil), names...), program: program}, nil
}

// Match evaluates the filter against decoded payload values keyed by field
// name.
func (f *Filter) Match(values map[string]any) (bool, error) {
	if f == nil {
		return true, nil
	}
	for _, n := range f.names {
		if _, ok := values[n]; !ok {
			return false, fmt.Errorf("filter %q: missing field %q", f.cond, n)
		}
	}

	out, err := expr.Run(f.program, values)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter must evaluate to bool (got %T)", out)
	}
	return b, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.cond
}
