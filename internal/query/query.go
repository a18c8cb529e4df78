// Package query filters lifetime intervals with user expressions.
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ppiankov/heapwatch/internal/model"
)

// Filter is a compiled interval predicate.
type Filter struct {
	src  string
	prog *vm.Program
}

// protoEnv declares the variables visible to a filter expression, for
// compile-time type checking.
func protoEnv() map[string]interface{} {
	return map[string]interface{}{
		"heap":             "",
		"address":          "",
		"size":             0,
		"alloc_seconds":    0.0,
		"free_seconds":     0.0,
		"duration_seconds": 0.0,
		"origin":           "",
		"matched":          false,
		"leftover":         false,
	}
}

// Compile builds a reusable filter from an expression such as
// "duration_seconds > 10 && size >= 64".
func Compile(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.Env(protoEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

// String returns the original expression text.
func (f *Filter) String() string { return f.src }

// Match evaluates the filter against one interval of the given heap.
// clockHz converts tick fields to the seconds the expression sees.
func (f *Filter) Match(heapID string, iv model.Interval, clockHz uint64) (bool, error) {
	env := map[string]interface{}{
		"heap":             heapID,
		"address":          iv.Address,
		"size":             int(iv.Size),
		"alloc_seconds":    float64(iv.AllocTime) / float64(clockHz),
		"free_seconds":     float64(iv.FreeTime) / float64(clockHz),
		"duration_seconds": float64(iv.Duration()) / float64(clockHz),
		"origin":           string(iv.Origin),
		"matched":          iv.Origin == model.OriginMatched,
		"leftover":         iv.Origin != model.OriginMatched,
	}

	out, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", f.src, out)
	}
	return b, nil
}
