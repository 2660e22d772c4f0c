package blueeval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// Referential transparency (spec §8 "Specialization memoization":
// list[T] is a specialized type constructor and must return the same
// W_Type object for equal T across repeated calls) — the property the
// review flagged as untested now that Memoize has a real caller.
func TestSpecializeListTypeReferentiallyTransparent(t *testing.T) {
	vm, _ := newVM(t)
	u := vm.U

	a := vm.SpecializeListType(u.I32)
	b := vm.SpecializeListType(u.I32)
	require.Same(t, a, b)

	f := vm.SpecializeListType(u.F64)
	require.NotSame(t, a, f)
}

// list[i32] must resolve through the dispatcher's meta_op_GETITEM
// capability (spec §4.6 rule 3) to the make_list_type builtin wired by
// registerListSpecialization, not stay a dead capability.
func TestListMetaGetItemResolvesAndFolds(t *testing.T) {
	vm, _ := newVM(t)
	u := vm.U

	generic := oparg.NewBlue(u.List.Metaclass, u.List, ast.Pos{})
	index := oparg.NewBlue(u.Type, u.I32, ast.Pos{})

	impl, err := vm.Disp.ResolveMetaGetItem(vm, generic, index)
	require.NoError(t, err)
	require.False(t, impl.IsNull())

	fn, ok := impl.Func.(*spyfunc.WFunc)
	require.True(t, ok)
	require.True(t, fn.IsBlue())

	result, err := vm.Call(fn, []objmodel.W{u.List, u.I32})
	require.NoError(t, err)
	listOfI32, ok := result.(*objmodel.WType)
	require.True(t, ok)
	require.Same(t, vm.SpecializeListType(u.I32), listOfI32)

	again, err := vm.Call(fn, []objmodel.W{u.List, u.I32})
	require.NoError(t, err)
	require.Same(t, listOfI32, again)
}
