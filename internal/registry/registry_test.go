package registry

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/spyfunc"
)

func parseF(s string) fqn.FQN { return fqn.Parse(s) }

func newTestRegistry(t *testing.T) (*Registry, *objmodel.Universe) {
	t.Helper()
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)
	return r, u
}

func TestBuiltinFuncRegistersUnderModuleFQN(t *testing.T) {
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)

	add := func(ctx spyfunc.Context, a, b *objmodel.WInt) (*objmodel.WInt, error) {
		return u.WrapInt(a.Value + b.Value), nil
	}
	wf, err := r.BuiltinFunc("add", []string{"a", "b"}, add)
	require.NoError(t, err)
	require.Equal(t, "testmod::add", wf.FQN.Fullname())
	require.True(t, wf.IsBlue())
	require.Equal(t, 2, wf.Arity())

	got, ok := r.LookupName("add")
	require.True(t, ok)
	require.Same(t, wf, got)
}

func TestBuiltinFuncCallRoundTrip(t *testing.T) {
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)

	mul := func(ctx spyfunc.Context, a, b *objmodel.WInt) (*objmodel.WInt, error) {
		return u.WrapInt(a.Value * b.Value), nil
	}
	wf, err := r.BuiltinFunc("mul", []string{"a", "b"}, mul)
	require.NoError(t, err)

	result, err := wf.Builtin(nil, []objmodel.W{u.WrapInt(6), u.WrapInt(7)})
	require.NoError(t, err)
	require.Equal(t, int64(42), result.(*objmodel.WInt).Value)
}

func TestBuiltinFuncWrongArgCount(t *testing.T) {
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)

	id := func(ctx spyfunc.Context, a *objmodel.WInt) (*objmodel.WInt, error) { return a, nil }
	wf, err := r.BuiltinFunc("id", []string{"a"}, id)
	require.NoError(t, err)

	_, err = wf.Builtin(nil, []objmodel.W{u.WrapInt(1), u.WrapInt(2)})
	require.Error(t, err)
}

func TestBuiltinFuncRejectsMissingContextParam(t *testing.T) {
	r, _ := newTestRegistry(t)
	bad := func(a, b int) int { return a + b }
	_, err := r.BuiltinFunc("bad", []string{"a", "b"}, bad)
	require.Error(t, err)
}

func TestBuiltinTypeRegistersAndBindsGoType(t *testing.T) {
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)

	point := objmodel.NewType(parseF("testmod::Point"), u.Object, objmodel.StorageReference)
	point.Metaclass = u.Type
	r.BuiltinType(point, reflect.TypeOf((*objmodel.WStruct)(nil)))

	got, ok := r.LookupName("Point")
	require.True(t, ok)
	require.Same(t, point, got)

	wt, ok := u.LookupGoType(reflect.TypeOf((*objmodel.WStruct)(nil)))
	require.True(t, ok)
	require.Same(t, point, wt)
}

func TestNamesPreservesInsertionOrder(t *testing.T) {
	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(parseF("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	r := New("testmod", u, funcType)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("f%d", i)
		_, err := r.BuiltinFunc(name, []string{"a"}, func(ctx spyfunc.Context, a *objmodel.WInt) (*objmodel.WInt, error) { return a, nil })
		require.NoError(t, err)
	}
	names := r.Names()
	require.Len(t, names, 3)
	require.Equal(t, "testmod::f0", names[0].Fullname())
	require.Equal(t, "testmod::f1", names[1].Fullname())
	require.Equal(t, "testmod::f2", names[2].Fullname())
}
