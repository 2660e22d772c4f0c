// Package blueeval implements the Blue Evaluator (spec §4.8): a
// direct-style interpreter over wrapped values that runs every blue
// call to completion during compilation, with full access to the
// object model, the registry and the operator dispatcher.
//
// Grounded on the teacher's internal/evaluator idiom: a mutex-guarded
// Environment with outer-chaining (environment.go) and a
// switch-dispatched function-application entry point
// (internal/evaluator/apply.go's ApplyFunction) — adapted here to
// operate over ast nodes and objmodel.W values and to implement
// spyfunc.Context so builtins can call back into the evaluator.
package blueeval

import (
	"fmt"

	"github.com/spy-lang/spy/internal/diagnostics"
	"github.com/spy-lang/spy/internal/dispatch"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/registry"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// VM is one compilation job's evaluator instance. Its CACHE
// (specialization memoization table) is an instance field, never a
// package global, per Design Note §9 ("the VM-instance-scoped CACHE,
// not global") — so that concurrent `go test` runs, or an embedder
// hosting multiple compilations, never share specialization state.
type VM struct {
	U    *objmodel.Universe
	Disp *dispatch.Dispatcher

	// Modules holds every registry realized into this VM, keyed by
	// module name (spec §4.4 "A registry is realized into a VM module
	// by copying its entries at VM-make_module time").
	Modules map[string]*registry.Registry

	// cache memoizes specialized types (list[T], struct Point, ...) by
	// structural key, so that repeated blue calls with equal blue
	// arguments return the *same* W_Type object (spec §8
	// "Specialization memoization").
	cache map[string]*objmodel.WType

	// funcType is the dynamic type this VM's own internal builtins
	// (currently just make_list_type/meta_op_GETITEM, see specialize.go)
	// report as their own type. It exists purely so VM can synthesize
	// those builtins without an embedder having to supply a funcType,
	// the same way every external WFunc constructor call in this
	// codebase needs one.
	funcType *objmodel.WType
}

func New(u *objmodel.Universe) *VM {
	funcType := objmodel.NewType(fqn.Parse("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type

	vm := &VM{
		U:        u,
		Disp:     dispatch.New(u),
		Modules:  map[string]*registry.Registry{},
		cache:    map[string]*objmodel.WType{},
		funcType: funcType,
	}
	vm.registerListSpecialization()
	return vm
}

// MakeModule realizes a Registry into this VM (spec §4.4), copying its
// entries rather than sharing the Registry's own mutable map, so later
// mutation of the source Registry (e.g. a shared builtins registry
// still being assembled) cannot retroactively change an already-loaded
// module.
func (vm *VM) MakeModule(r *registry.Registry) *registry.Registry {
	frozen := registry.New(r.ModName, r.Universe, nil)
	for _, name := range r.Names() {
		v, _ := r.Lookup(name)
		frozen.Define(name, v)
	}
	vm.Modules[r.ModName] = frozen
	return frozen
}

// Memoize returns the cached specialization for key, creating it via
// build the first time key is seen (spec §8 "specialized type
// constructors are referentially transparent").
func (vm *VM) Memoize(key string, build func() *objmodel.WType) *objmodel.WType {
	if t, ok := vm.cache[key]; ok {
		return t
	}
	t := build()
	vm.cache[key] = t
	return t
}

// Call implements spyfunc.Context (spec §3 "the convention that a
// leading VM parameter is the evaluator handle"): every blue call runs
// to completion before Call returns (spec §4.8, §5 "no suspension
// points").
func (vm *VM) Call(fn *spyfunc.WFunc, args []objmodel.W) (objmodel.W, error) {
	switch fn.Kind {
	case spyfunc.KindBuiltin:
		return fn.Builtin(vm, args)
	case spyfunc.KindAST:
		return vm.callAST(fn, args)
	default:
		return nil, fmt.Errorf("blueeval: unknown function kind %v", fn.Kind)
	}
}

func (vm *VM) callAST(fn *spyfunc.WFunc, args []objmodel.W) (objmodel.W, error) {
	if len(args) != len(fn.Type.Params) {
		return nil, diagnostics.BlueEvalError(fn.Body.Position(),
			fmt.Sprintf("this function takes %d argument%s but %d argument%s were supplied",
				len(fn.Type.Params), plural(len(fn.Type.Params)), len(args), plural(len(args)))).
			In(fn.ModuleFQN.Fullname(), fn.FQN.Fullname())
	}

	env := NewEnvironment()
	for name, v := range fn.Closure {
		env.Set(name, v)
	}
	for i, p := range fn.Type.Params {
		env.Set(p.Name, args[i])
	}

	mod := vm.Modules[fn.ModuleFQN.Fullname()]
	result, returned, err := vm.execBlock(env, mod, fn.Body.Body)
	if err != nil {
		return nil, err
	}
	if !returned {
		return vm.U.WNone, nil
	}
	return result, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
