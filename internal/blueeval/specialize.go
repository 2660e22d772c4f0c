package blueeval

import (
	"fmt"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// registerListSpecialization wires u.List's meta_op_GETITEM capability
// to a blue make_list_type builtin (spec §4.6 rule 3 "for
// metaclass-level generics ... meta_op_GETITEM on L"), so that
// `list[i32]` resolves through the dispatcher instead of being a dead
// capability. Grounded on original_source/spy/vm/list.py's
// Meta_W_List.__getitem__ and its w_make_list_type builtin: meta_op_
// GETITEM itself returns an OpImpl wrapping make_list_type, which is
// the function the Type Checker and Blue Evaluator actually invoke.
func (vm *VM) registerListSpecialization() {
	u := vm.U

	// make_list_type takes (list, T) — the generic type value itself
	// plus the element type — because op_GETITEM's "Simple" OpImpl form
	// invokes the resolved callee with the original call-site arguments
	// in order (here: the `list` operand, then the `[i32]` index),
	// mirroring w_make_list_type(vm, w_list, w_T) in list.py.
	makeListType := spyfunc.NewBuiltinFunc(vm.funcType, fqn.Parse("builtins::make_list_type"),
		&spyfunc.FuncType{
			Params: []spyfunc.Param{{Name: "list", WType: u.Type}, {Name: "T", WType: u.Type}},
			Result: u.Type, Color: ast.Blue,
		},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			elem, ok := args[1].(*objmodel.WType)
			if !ok {
				return nil, fmt.Errorf("blueeval: make_list_type expects a type argument, got %T", args[1])
			}
			return vm.SpecializeListType(elem), nil
		})

	metaGetItem := spyfunc.NewBuiltinFunc(vm.funcType, fqn.Parse("builtins::list$meta_op_GETITEM"),
		&spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return &oparg.WOpImpl{Impl: oparg.Simple(makeListType, false)}, nil
		})

	// meta_op_GETITEM lives on list's own metaclass (u.List.Metaclass),
	// not on u.List itself: dispatch resolves it off the *static type*
	// of the `list` value used as the `[...]` operand, which (since a
	// type's dynamic type is its metaclass) is u.List.Metaclass.
	u.List.Metaclass.Caps[objmodel.CapMetaGetItem] = metaGetItem
}

// SpecializeListType returns the W_Type for list[elem], building it
// the first time elem is seen by this VM and returning the identical
// object on every later call (spec §8 "Specialization memoization:
// list[T] ... return the same W_Type object ... referentially
// transparent"). The memoization key is elem's own FQN, so the
// resulting list[T] type's FQN is fully deterministic across calls —
// no anonymous disambiguating suffix is needed.
func (vm *VM) SpecializeListType(elem *objmodel.WType) *objmodel.WType {
	key := "list[" + elem.FQN.Fullname() + "]"
	return vm.Memoize(key, func() *objmodel.WType {
		u := vm.U
		t := objmodel.NewType(fqn.Parse("builtins::"+key), u.List, objmodel.StorageReference)
		t.Metaclass = u.Type
		t.PyClass = u.List.PyClass
		return t
	})
}
