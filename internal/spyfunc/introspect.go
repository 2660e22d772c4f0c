package spyfunc

import (
	"fmt"
	"reflect"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
)

// contextType is used to recognize (and skip) the conventional leading
// "vm"/Context parameter of a host builtin function (spec §4.3: "the
// convention that a leading VM parameter is the evaluator handle").
var contextType = reflect.TypeOf((*Context)(nil)).Elem()

// errorType is the standard error interface, expected as a builtin's
// last return value.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FuncTypeFromGo derives a FuncType by reflecting over a host Go
// function's signature (spec §4.3 "Builtin creation introspects the
// host function's parameters and reflects ... to derive parameter
// types and result type"). Go's reflect package does not preserve
// parameter identifiers, unlike Python's inspect.signature, so the
// caller supplies paramNames alongside the function value; this is
// the one place a Go port of spy_cffi-style introspection must depart
// from the original (justified in DESIGN.md — reflect is otherwise
// a faithful, unavoidable translation of the original's `inspect`-based
// functype_from_sig, grounded on original_source/spy/vm/builtin.py).
func FuncTypeFromGo(u *objmodel.Universe, paramNames []string, fn any, color ast.Color) (*FuncType, error) {
	rt := reflect.TypeOf(fn)
	if rt == nil || rt.Kind() != reflect.Func {
		return nil, fmt.Errorf("spyfunc: not a function: %T", fn)
	}

	numIn := rt.NumIn()
	if numIn == 0 || !rt.In(0).Implements(contextType) {
		return nil, fmt.Errorf("spyfunc: the first param should be a Context, got nothing or wrong type")
	}
	paramTypes := make([]reflect.Type, 0, numIn-1)
	for i := 1; i < numIn; i++ {
		paramTypes = append(paramTypes, rt.In(i))
	}
	if len(paramTypes) != len(paramNames) {
		return nil, fmt.Errorf("spyfunc: %d params reflected but %d names supplied", len(paramTypes), len(paramNames))
	}

	params := make([]Param, len(paramTypes))
	for i, pt := range paramTypes {
		wt, ok := u.LookupGoType(pt)
		if !ok {
			return nil, fmt.Errorf("spyfunc: no W_Type registered for Go type %s (param %q)", pt, paramNames[i])
		}
		params[i] = Param{Name: paramNames[i], WType: wt}
	}

	numOut := rt.NumOut()
	if numOut == 0 || !rt.Out(numOut-1).Implements(errorType) {
		return nil, fmt.Errorf("spyfunc: last return value must be error")
	}

	var result *objmodel.WType
	if numOut == 2 {
		wt, ok := u.LookupGoType(rt.Out(0))
		if !ok {
			return nil, fmt.Errorf("spyfunc: no W_Type registered for Go return type %s", rt.Out(0))
		}
		result = wt
	} else if numOut != 1 {
		return nil, fmt.Errorf("spyfunc: expected (W, error) or (error), got %d return values", numOut)
	}

	return &FuncType{Params: params, Result: result, Color: color}, nil
}

// NewBuiltin reflects fn's signature into a FuncType and wraps it as a
// WFunc whose Builtin body marshals []objmodel.W args through
// reflect.Value.Call. It is the Go analogue of spy's `@builtin_func`
// decorator (original_source/spy/vm/builtin.py).
func NewBuiltin(u *objmodel.Universe, funcWType *objmodel.WType, name fqn.FQN, paramNames []string, fn any, color ast.Color) (*WFunc, error) {
	ft, err := FuncTypeFromGo(u, paramNames, fn, color)
	if err != nil {
		return nil, fmt.Errorf("spyfunc: building %s: %w", name.Fullname(), err)
	}

	fv := reflect.ValueOf(fn)
	impl := func(ctx Context, args []objmodel.W) (objmodel.W, error) {
		if len(args) != len(ft.Params) {
			return nil, fmt.Errorf("this function takes %d argument%s but %d argument%s were supplied",
				len(ft.Params), plural(len(ft.Params)), len(args), plural(len(args)))
		}
		in := make([]reflect.Value, 0, len(args)+1)
		ctxVal := reflect.ValueOf(ctx)
		if ctx == nil {
			ctxVal = reflect.Zero(fv.Type().In(0))
		}
		in = append(in, ctxVal)
		for i, a := range args {
			rv := reflect.ValueOf(a)
			want := fv.Type().In(i + 1)
			if !rv.Type().AssignableTo(want) {
				return nil, fmt.Errorf("mismatched types: expected %s, got %s", ft.Params[i].WType.Name(), objmodel.DynamicType(a).Name())
			}
			in = append(in, rv)
		}
		out := fv.Call(in)
		var errVal error
		if len(out) == 2 {
			if e, ok := out[1].Interface().(error); ok {
				errVal = e
			}
			if errVal != nil {
				return nil, errVal
			}
			res, _ := out[0].Interface().(objmodel.W)
			return res, nil
		}
		if e, ok := out[0].Interface().(error); ok {
			errVal = e
		}
		return nil, errVal
	}

	return NewBuiltinFunc(funcWType, name, ft, impl), nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
