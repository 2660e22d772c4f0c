// Package registry implements the Registry component (spec §4.4): "A
// registry binds a module name to a mutable mapping FQN -> wrapped
// value and exposes decorators builtin_func(...) and builtin_type(...)
// that register a host Go function/type under a generated FQN in one
// step."
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// Registry binds a module name to a mutable FQN -> W mapping. Grounded
// on the teacher's module-assembly idiom (internal/ext's funxy.yaml
// driven builtin registration): a Registry is built once per module
// and then frozen by installing it in a VM (internal/blueeval).
type Registry struct {
	mu       sync.RWMutex
	ModName  string
	Universe *objmodel.Universe
	globals  map[string]objmodel.W // keyed by FQN.Fullname()
	order    []fqn.FQN              // insertion order, for deterministic iteration
	funcType *objmodel.WType        // dynamic type shared by every spyfunc.WFunc in this registry
}

// New creates an empty registry for module modname. funcType is the
// W_Type every builtin_func/astfunc it defines will report as its
// dynamic type (spec §3 "Function (W_Func)"); callers typically share
// one function-WType across all registries in a VM.
func New(modname string, u *objmodel.Universe, funcType *objmodel.WType) *Registry {
	return &Registry{
		ModName:  modname,
		Universe: u,
		globals:  map[string]objmodel.W{},
		funcType: funcType,
	}
}

// FQN builds a fully-qualified name for symbol inside this module.
func (r *Registry) FQN(symbol string) fqn.FQN {
	return fqn.Parse(r.ModName).Join(symbol)
}

// Define binds name directly to value, the primitive operation behind
// both decorators and plain global-variable registration (spec §3
// "Module (globals: FQN -> W)").
func (r *Registry) Define(name fqn.FQN, value objmodel.W) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := name.Fullname()
	if _, exists := r.globals[key]; !exists {
		r.order = append(r.order, name)
	}
	r.globals[key] = value
}

// Lookup finds a global by FQN.
func (r *Registry) Lookup(name fqn.FQN) (objmodel.W, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.globals[name.Fullname()]
	return v, ok
}

// LookupName finds a global declared directly in this module by its
// bare symbol name (the common case: resolving an unqualified NameExpr
// against the current module, spec §4.9 step 2).
func (r *Registry) LookupName(symbol string) (objmodel.W, bool) {
	return r.Lookup(r.FQN(symbol))
}

// Names returns every global name defined so far, in the order they
// were first defined.
func (r *Registry) Names() []fqn.FQN {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]fqn.FQN, len(r.order))
	copy(out, r.order)
	return out
}

// BuiltinFunc is the `builtin_func(...)` decorator (spec §4.4):
// reflects fn's Go signature into a FuncType, wraps it as a blue
// (compile-time-callable) builtin W_Func, and registers it under
// name. paramNames supplies the parameter identifiers reflect.Type
// cannot recover on its own (see spyfunc.FuncTypeFromGo).
func (r *Registry) BuiltinFunc(name string, paramNames []string, fn any) (*spyfunc.WFunc, error) {
	return r.builtinFuncColor(name, paramNames, fn, ast.Blue)
}

// BuiltinRedFunc is BuiltinFunc for a host function meant to be called
// only at runtime (e.g. I/O primitives) — spec §3 requires every
// function to carry an explicit color, and builtins are no exception.
func (r *Registry) BuiltinRedFunc(name string, paramNames []string, fn any) (*spyfunc.WFunc, error) {
	return r.builtinFuncColor(name, paramNames, fn, ast.Red)
}

func (r *Registry) builtinFuncColor(name string, paramNames []string, fn any, color ast.Color) (*spyfunc.WFunc, error) {
	qn := r.FQN(name)
	wf, err := spyfunc.NewBuiltin(r.Universe, r.funcType, qn, paramNames, fn, color)
	if err != nil {
		return nil, fmt.Errorf("registry %s: builtin_func %s: %w", r.ModName, name, err)
	}
	r.Define(qn, wf)
	return wf, nil
}

// BuiltinType is the `builtin_type(...)` decorator (spec §4.4):
// registers a pre-built W_Type (with its Caps/Members already filled
// in by the caller, mirroring original_source's `@builtin_type`
// class decorator applied to a Python class body) under its own FQN,
// and binds it to its Go implementation class for builtin introspection.
// goType is the zero reflect.Type of the Go struct backing instances of
// t, e.g. reflect.TypeOf((*objmodel.WStruct)(nil)).
func (r *Registry) BuiltinType(t *objmodel.WType, goType reflect.Type) *objmodel.WType {
	r.Universe.Register(t, goType)
	r.Define(t.FQN, t)
	return t
}
