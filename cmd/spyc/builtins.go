package main

import (
	"reflect"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// registerI32Add wires i32's op_ADD capability the same way the core
// packages' own seed-scenario tests do: a red i32_add builtin doing the
// arithmetic, and a blue op_ADD capability function returning an OpImpl
// over it. Every arithmetic capability is supplied by the embedder
// (spec §3 "dunder-style capability functions"), never baked into the
// bootstrap Universe itself.
func registerI32Add(u *objmodel.Universe, funcType *objmodel.WType) {
	i32Add := spyfunc.NewBuiltinFunc(funcType, fqn.Parse("builtins::i32_add"), &spyfunc.FuncType{
		Params: []spyfunc.Param{{Name: "a", WType: u.I32}, {Name: "b", WType: u.I32}},
		Result: u.I32, Color: ast.Red,
	}, func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
		return u.WrapInt(args[0].(*objmodel.WInt).Value + args[1].(*objmodel.WInt).Value), nil
	})
	opAdd := spyfunc.NewBuiltinFunc(funcType, fqn.Parse("builtins::i32$op_ADD"), &spyfunc.FuncType{Color: ast.Blue},
		func(ctx spyfunc.Context, args []objmodel.W) (objmodel.W, error) {
			return &oparg.WOpImpl{Impl: oparg.Simple(i32Add, false)}, nil
		})
	u.I32.Caps[objmodel.CapAdd] = opAdd
}

// newPointType builds the demo program's one user-defined struct type:
// a reference-storage Point{x, y: i32}, exercising the §6 supplement's
// struct-literal constructor fast path.
func newPointType(u *objmodel.Universe) *objmodel.WType {
	point := objmodel.NewType(fqn.Parse("demo::Point"), u.Object, objmodel.StorageReference)
	point.Metaclass = u.Type
	point.Members["x"] = &objmodel.Member{Name: "x", Offset: 0, WType: u.I32}
	point.Members["y"] = &objmodel.Member{Name: "y", Offset: 1, WType: u.I32}
	u.Register(point, reflect.TypeOf((*objmodel.WStruct)(nil)))
	return point
}
