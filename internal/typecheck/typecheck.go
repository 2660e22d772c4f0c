// Package typecheck implements the Type Checker (spec §4.7): given a
// resolved OpImpl and the call-site OpArgs, verifies arity and
// per-parameter assignability, inserting a conversion call where the
// dispatcher's conversion cascade (internal/dispatch's ResolveConvert)
// offers one, and otherwise failing with a "mismatched types"
// diagnostic naming both the expected and supplied type.
package typecheck

import (
	"fmt"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/diagnostics"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// Converter resolves an implicit conversion the way internal/dispatch's
// Dispatcher.ResolveConvert does; kept as a narrow interface here so
// typecheck does not need to import dispatch (which itself imports
// spyfunc and oparg — typecheck stays a leaf, consulted only by
// redshift, per spec §4.9 step 2 "typecheck (§4.7)").
type Converter interface {
	ResolveConvert(ctx spyfunc.Context, from oparg.OpArg, to *objmodel.WType) (oparg.OpImpl, error)
}

// Checked is the outcome of checking one call site against a resolved
// OpImpl: the final argument list to emit, with any needed conversion
// calls already wrapped around the original OpArgs.
type Checked struct {
	// Args mirrors the formal parameter list in order. Each entry holds
	// the original call-site OpArg and, in Conversion, the inserted
	// conversion OpImpl (IsNull() when no conversion was needed).
	Args []CheckedArg
}

// CheckedArg is one formal parameter's resolved actual argument.
type CheckedArg struct {
	Original   oparg.OpArg
	Conversion oparg.OpImpl // IsNull() if no conversion was inserted
}

// Check validates impl against the call-site args for fn's signature
// and, where a formal/actual type mismatch is found, tries to resolve
// a conversion via conv (nil disables conversion-insertion entirely,
// useful for call sites where the language forbids implicit widening).
//
// pos/funcName/moduleName locate the call site for diagnostics and the
// spec §8 "Error locality" Module/Func tagging.
func Check(ctx spyfunc.Context, conv Converter, fn *spyfunc.WFunc, impl oparg.OpImpl, callArgs []oparg.OpArg, pos ast.Pos, moduleName, funcName string) (*Checked, error) {
	resolved := resolveOpArgs(impl, callArgs)
	params := fn.Type.Params

	if len(resolved) != len(params) {
		msg := arityMessage(len(params), len(resolved))
		return nil, diagnostics.DispatchError(pos, msg).In(moduleName, funcName)
	}

	out := &Checked{Args: make([]CheckedArg, len(params))}
	for i, p := range params {
		actual := resolved[i]
		if isAssignable(actual.StaticType, p.WType) {
			out.Args[i] = CheckedArg{Original: actual}
			continue
		}
		if conv != nil {
			convImpl, err := conv.ResolveConvert(ctx, actual, p.WType)
			if err != nil {
				return nil, err
			}
			if !convImpl.IsNull() {
				out.Args[i] = CheckedArg{Original: actual, Conversion: convImpl}
				continue
			}
		}
		err := diagnostics.TypeError(actual.Loc, "mismatched types")
		err.Notes[0].Text = mismatchedTypesNote(p.WType, actual.StaticType)
		return nil, err.In(moduleName, funcName)
	}
	return out, nil
}

// resolveOpArgs mirrors oparg.ResolveArgs but over OpArgs (rather than
// already-evaluated W values), since typechecking happens before any
// red argument has a runtime value.
func resolveOpArgs(impl oparg.OpImpl, callArgs []oparg.OpArg) []oparg.OpArg {
	if impl.Mapping == nil {
		return callArgs
	}
	out := make([]oparg.OpArg, len(impl.Mapping))
	for i, m := range impl.Mapping {
		if m.FromArg >= 0 {
			out[i] = callArgs[m.FromArg]
		} else {
			out[i] = oparg.NewBlue(objmodel.DynamicType(m.Captured), m.Captured, ast.Pos{})
		}
	}
	return out
}

// isAssignable reports whether a value of type `from` may be used
// where `to` is expected: equal, or `from` is a (possibly indirect)
// subclass of `to` (spec §4.7 "equal or subtype").
func isAssignable(from, to *objmodel.WType) bool {
	if from == to {
		return true
	}
	return objmodel.IsSubclass(from, to)
}

// arityMessage matches spec §8 seed scenario 5 verbatim: "this
// function takes 1 argument but 2 arguments were supplied".
func arityMessage(want, got int) string {
	return fmt.Sprintf("this function takes %d argument%s but %d argument%s were supplied",
		want, plural(want), got, plural(got))
}

// mismatchedTypesNote matches spec §8 seed scenario 4 verbatim:
// "expected i32, got str".
func mismatchedTypesNote(expected, got *objmodel.WType) string {
	return fmt.Sprintf("expected %s, got %s", expected.Name(), got.Name())
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
