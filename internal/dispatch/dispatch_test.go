package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// fakeCtx is a minimal spyfunc.Context that actually executes builtin
// W_Funcs, standing in for the Blue Evaluator in these unit tests.
type fakeCtx struct{}

func (fakeCtx) Call(fn *spyfunc.WFunc, args []objmodel.W) (objmodel.W, error) {
	return fn.Builtin(fakeCtx{}, args)
}

func newUniverseAndFuncType() (*objmodel.Universe, *objmodel.WType) {
	u := objmodel.NewUniverse()
	ft := objmodel.NewType(fqn.Parse("builtins::function"), u.Object, objmodel.StorageReference)
	ft.Metaclass = u.Type
	return u, ft
}

func TestResolveBinOpRule1DynamicFastPath(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	genericAdd := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::dynamic_add"), &spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) { return u.WrapInt(0), nil })
	d.RegisterDynamic(objmodel.CapAdd.String(), genericAdd)

	l := oparg.New(u.Dynamic, ast.Pos{})
	r := oparg.New(u.I32, ast.Pos{})
	impl, err := d.ResolveBinOp(fakeCtx{}, "+", l, r)
	require.NoError(t, err)
	require.False(t, impl.IsNull())
	require.Same(t, genericAdd, impl.Func)
	require.False(t, impl.SingleDispatch)
}

func TestResolveBinOpRule3PerTypeCapability(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	// op_ADD on i32 returns a simple OpImpl resolving to a fixed "i32_add" builtin.
	i32Add := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::i32_add"), &spyfunc.FuncType{Color: ast.Red},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return u.WrapInt(args[0].(*objmodel.WInt).Value + args[1].(*objmodel.WInt).Value), nil
		})
	opAdd := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::i32$op_ADD"), &spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return &oparg.WOpImpl{Impl: oparg.Simple(i32Add, false)}, nil
		})
	u.I32.Caps[objmodel.CapAdd] = opAdd

	l := oparg.New(u.I32, ast.Pos{})
	r := oparg.New(u.I32, ast.Pos{})
	impl, err := d.ResolveBinOp(fakeCtx{}, "+", l, r)
	require.NoError(t, err)
	require.False(t, impl.IsNull())
	require.Same(t, i32Add, impl.Func)
	require.True(t, impl.SingleDispatch)
}

func TestResolveBinOpRule4MultimethodFallback(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	concat := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::str_concat"), &spyfunc.FuncType{Color: ast.Red},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) { return u.WrapStr("x"), nil })
	d.RegisterMultimethod("+", u.Str, u.Str, concat)

	l := oparg.New(u.Str, ast.Pos{})
	r := oparg.New(u.Str, ast.Pos{})
	impl, err := d.ResolveBinOp(fakeCtx{}, "+", l, r)
	require.NoError(t, err)
	require.Same(t, concat, impl.Func)
	require.False(t, impl.SingleDispatch)
}

func TestResolveBinOpWildcardFallbackOrder(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	exact := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::exact"), &spyfunc.FuncType{}, nil)
	leftWild := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::leftwild"), &spyfunc.FuncType{}, nil)
	rightWild := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::rightwild"), &spyfunc.FuncType{}, nil)

	d.RegisterMultimethod("*", u.I32, nil, leftWild)
	d.RegisterMultimethod("*", nil, u.F64, rightWild)

	// No exact (i32,f64) entry registered yet: left-wildcard wins first.
	impl, err := d.ResolveBinOp(fakeCtx{}, "*", oparg.New(u.I32, ast.Pos{}), oparg.New(u.F64, ast.Pos{}))
	require.NoError(t, err)
	require.Same(t, leftWild, impl.Func)

	d.RegisterMultimethod("*", u.I32, u.F64, exact)
	impl, err = d.ResolveBinOp(fakeCtx{}, "*", oparg.New(u.I32, ast.Pos{}), oparg.New(u.F64, ast.Pos{}))
	require.NoError(t, err)
	require.Same(t, exact, impl.Func)
}

func TestResolveBinOpNoMatchReturnsNull(t *testing.T) {
	u, _ := newUniverseAndFuncType()
	d := New(u)
	impl, err := d.ResolveBinOp(fakeCtx{}, "+", oparg.New(u.I32, ast.Pos{}), oparg.New(u.I32, ast.Pos{}))
	require.NoError(t, err)
	require.True(t, impl.IsNull())
}

func TestResolveGetAttrMemberFastPath(t *testing.T) {
	u, _ := newUniverseAndFuncType()
	d := New(u)

	point := objmodel.NewType(fqn.Parse("testmod::Point"), u.Object, objmodel.StorageReference)
	point.Metaclass = u.Type
	point.Members["x"] = &objmodel.Member{Name: "x", Offset: 0, WType: u.I32}

	obj := oparg.New(point, ast.Pos{})
	impl, err := d.ResolveGetAttr(fakeCtx{}, obj, "x")
	require.NoError(t, err)
	require.False(t, impl.IsNull())
	member, isWrite, ok := Member(impl)
	require.True(t, ok)
	require.False(t, isWrite)
	require.Equal(t, "x", member.Name)
}

func TestResolveGetAttrUnknownAttributeIsNull(t *testing.T) {
	u, _ := newUniverseAndFuncType()
	d := New(u)
	point := objmodel.NewType(fqn.Parse("testmod::Point"), u.Object, objmodel.StorageReference)
	point.Metaclass = u.Type

	impl, err := d.ResolveGetAttr(fakeCtx{}, oparg.New(point, ast.Pos{}), "nosuch")
	require.NoError(t, err)
	require.True(t, impl.IsNull())
}

func TestResolveSetAttrMemberFastPath(t *testing.T) {
	u, _ := newUniverseAndFuncType()
	d := New(u)
	point := objmodel.NewType(fqn.Parse("testmod::Point"), u.Object, objmodel.StorageReference)
	point.Metaclass = u.Type
	point.Members["x"] = &objmodel.Member{Name: "x", Offset: 0, WType: u.I32}

	impl, err := d.ResolveSetAttr(fakeCtx{}, oparg.New(point, ast.Pos{}), "x", oparg.New(u.I32, ast.Pos{}))
	require.NoError(t, err)
	member, isWrite, ok := Member(impl)
	require.True(t, ok)
	require.True(t, isWrite)
	require.Equal(t, "x", member.Name)
}

func TestResolveGetItemPerTypeCapability(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	listGetItem := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::list_getitem"), &spyfunc.FuncType{Color: ast.Red}, nil)
	opGetItem := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::list$op_GETITEM"), &spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return &oparg.WOpImpl{Impl: oparg.Simple(listGetItem, false)}, nil
		})
	u.List.Caps[objmodel.CapGetItem] = opGetItem

	impl, err := d.ResolveGetItem(fakeCtx{}, oparg.New(u.List, ast.Pos{}), oparg.New(u.I32, ast.Pos{}))
	require.NoError(t, err)
	require.Same(t, listGetItem, impl.Func)
	require.True(t, impl.SingleDispatch)
}

func TestResolveConvertPerTypeCapability(t *testing.T) {
	u, ft := newUniverseAndFuncType()
	d := New(u)

	toF64 := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::i32_to_f64"), &spyfunc.FuncType{Color: ast.Red}, nil)
	opConvert := spyfunc.NewBuiltinFunc(ft, fqn.Parse("builtins::i32$op_CONVERT"), &spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return &oparg.WOpImpl{Impl: oparg.Simple(toF64, false)}, nil
		})
	u.I32.Caps[objmodel.CapConvert] = opConvert

	impl, err := d.ResolveConvert(fakeCtx{}, oparg.New(u.I32, ast.Pos{}), u.F64)
	require.NoError(t, err)
	require.Same(t, toF64, impl.Func)
}
