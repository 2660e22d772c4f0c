// Package oparg implements OpArg and OpImpl (spec §4.5): the
// compile-time argument descriptor redshift builds at every operator
// use site, and the resolved-dispatch result the Operator Dispatcher
// (internal/dispatch) hands back.
package oparg

import (
	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/objmodel"
)

// OpArg is a compile-time descriptor of an argument at a call site
// (spec §3 "(w_static_type, w_blueval_or_⊥, source_location)").
type OpArg struct {
	StaticType *objmodel.WType
	BlueValue  objmodel.W // nil means ⊥ (not blue-known)
	Loc        ast.Pos
}

// IsBlue reports whether this argument's value is known at compile
// time (spec §3 "OpArg.is_blue() reports w_blueval ≠ ⊥").
func (a OpArg) IsBlue() bool { return a.BlueValue != nil }

// New builds a purely-static OpArg (no known blue value).
func New(t *objmodel.WType, loc ast.Pos) OpArg {
	return OpArg{StaticType: t, Loc: loc}
}

// NewBlue builds an OpArg for a blue-known constant or reference to a
// blue global.
func NewBlue(t *objmodel.WType, v objmodel.W, loc ast.Pos) OpArg {
	return OpArg{StaticType: t, BlueValue: v, Loc: loc}
}

// ArgMapping describes how one formal parameter of the resolved callee
// is populated from the original call-site arguments (spec §3 "a
// general form (w_func, [arg_mapping]) where the mapping re-orders,
// drops, or references captured blue values").
type ArgMapping struct {
	// FromArg, when >= 0, is the index into the original argument list
	// supplying this formal (after any dispatcher-inserted swap, e.g.
	// reflected binary operators).
	FromArg int
	// Captured, when FromArg < 0, is a blue value baked in at dispatch
	// time instead of coming from the call site (e.g. the left operand
	// of a bound per-type capability function).
	Captured objmodel.W
}

// FromCallArg builds the identity-style mapping entry "take argument i
// from the call site as-is".
func FromCallArg(i int) ArgMapping { return ArgMapping{FromArg: i} }

// FromCapturedValue builds a mapping entry supplying a fixed blue value
// regardless of the call-site arguments.
func FromCapturedValue(v objmodel.W) ArgMapping { return ArgMapping{FromArg: -1, Captured: v} }

// OpImpl is a resolved operator implementation (spec §3): either NULL
// (no dispatch found), a simple form "call w_func with the original
// arguments in order", or a general form with an explicit ArgMapping
// list re-ordering/dropping/capturing arguments.
type OpImpl struct {
	Func objmodel.W // the resolved callee, typically a *spyfunc.WFunc; nil means NULL
	// Mapping is nil for a "simple" OpImpl (identity order); otherwise
	// it has exactly len(Mapping) == the callee's arity.
	Mapping []ArgMapping

	// SingleDispatch records whether this OpImpl came from rule 2 or 3
	// of the dispatch cascade (spec §4.6). The Type Checker does not read
	// it: its error messages are the same whatever the value.
	SingleDispatch bool
}

// NULL is the result of a dispatch cascade that found nothing (spec §3
// "OpImpl.NULL indicates 'no dispatch'").
var NULL = OpImpl{}

// IsNull reports whether impl carries no resolved callee.
func (impl OpImpl) IsNull() bool { return impl.Func == nil }

// Simple builds the sugar form "call fn with the original arguments in
// order" (spec §3 "OpImpl.simple(w_func)").
func Simple(fn objmodel.W, singleDispatch bool) OpImpl {
	return OpImpl{Func: fn, SingleDispatch: singleDispatch}
}

// General builds a resolved OpImpl with an explicit argument mapping.
func General(fn objmodel.W, mapping []ArgMapping, singleDispatch bool) OpImpl {
	return OpImpl{Func: fn, Mapping: mapping, SingleDispatch: singleDispatch}
}

// Equal compares two OpImpls by identity of callee and argument
// mapping (spec §4.5 "Equality is by identity of w_func and argument
// mapping").
func (impl OpImpl) Equal(o OpImpl) bool {
	if impl.IsNull() || o.IsNull() {
		return impl.IsNull() == o.IsNull()
	}
	if impl.Func != o.Func {
		return false
	}
	if len(impl.Mapping) != len(o.Mapping) {
		return false
	}
	for i := range impl.Mapping {
		if impl.Mapping[i] != o.Mapping[i] {
			return false
		}
	}
	return true
}

// ResolveArgs applies impl's mapping (or the identity order, for a
// simple OpImpl) to produce the concrete argument list the resolved
// callee should be invoked with.
func ResolveArgs(impl OpImpl, callArgs []objmodel.W) []objmodel.W {
	if impl.Mapping == nil {
		return callArgs
	}
	out := make([]objmodel.W, len(impl.Mapping))
	for i, m := range impl.Mapping {
		if m.FromArg >= 0 {
			out[i] = callArgs[m.FromArg]
		} else {
			out[i] = m.Captured
		}
	}
	return out
}
