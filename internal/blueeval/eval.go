package blueeval

import (
	"fmt"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/diagnostics"
	"github.com/spy-lang/spy/internal/dispatch"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/registry"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// blueArg packages an already-evaluated wrapped value as an OpArg:
// blue evaluation always knows both the value and (via its dynamic
// type) the static type, satisfying the dispatcher's OpArg contract.
func blueArg(v objmodel.W, pos ast.Pos) oparg.OpArg {
	return oparg.NewBlue(objmodel.DynamicType(v), v, pos)
}

// EvalExpr evaluates e to a wrapped value (spec §4.8: "a direct-style
// interpreter over wrapped values"). mod resolves unqualified names
// against module-level globals when env has no local binding.
func (vm *VM) EvalExpr(env *Environment, mod *registry.Registry, e ast.Expr) (objmodel.W, error) {
	switch n := e.(type) {
	case *ast.ConstantExpr:
		return n.Value, nil

	case *ast.NameExpr:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		if mod != nil {
			if v, ok := mod.LookupName(n.Name); ok {
				return v, nil
			}
		}
		return nil, diagnostics.ScopeError(n.Pos, fmt.Sprintf("undeclared name %q", n.Name))

	case *ast.ListExpr:
		items := make([]objmodel.W, len(n.Elements))
		for i, el := range n.Elements {
			v, err := vm.EvalExpr(env, mod, el)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return vm.U.NewList(vm.U.List, items), nil

	case *ast.GetItemExpr:
		obj, err := vm.EvalExpr(env, mod, n.Obj)
		if err != nil {
			return nil, err
		}
		idx, err := vm.EvalExpr(env, mod, n.Index)
		if err != nil {
			return nil, err
		}
		impl, err := vm.Disp.ResolveGetItem(vm, blueArg(obj, n.Pos), blueArg(idx, n.Pos))
		if err != nil {
			return nil, err
		}
		if impl.IsNull() {
			return nil, diagnostics.DispatchError(n.Pos, fmt.Sprintf("type %q does not support item access", obj.WType().Name()))
		}
		if m, _, ok := dispatch.Member(impl); ok {
			ws, ok := obj.(*objmodel.WStruct)
			if !ok {
				return nil, diagnostics.BlueEvalError(n.Pos, "member access on non-struct value")
			}
			return ws.Get(m), nil
		}
		return vm.invoke(impl, []objmodel.W{obj, idx})

	case *ast.AttrExpr:
		obj, err := vm.EvalExpr(env, mod, n.Obj)
		if err != nil {
			return nil, err
		}
		impl, err := vm.Disp.ResolveGetAttr(vm, blueArg(obj, n.Pos), n.Attr)
		if err != nil {
			return nil, err
		}
		if impl.IsNull() {
			return nil, diagnostics.TypeError(n.Pos, fmt.Sprintf("type '%s' has no attribute '%s'", obj.WType().Name(), n.Attr))
		}
		if m, _, ok := dispatch.Member(impl); ok {
			ws, ok := obj.(*objmodel.WStruct)
			if !ok {
				return nil, diagnostics.BlueEvalError(n.Pos, "member access on non-struct value")
			}
			return ws.Get(m), nil
		}
		return vm.invoke(impl, []objmodel.W{obj})

	case *ast.CallExpr:
		callee, err := vm.EvalExpr(env, mod, n.Func)
		if err != nil {
			return nil, err
		}
		args := make([]objmodel.W, len(n.Args))
		for i, a := range n.Args {
			v, err := vm.EvalExpr(env, mod, a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if wfn, ok := callee.(*spyfunc.WFunc); ok {
			return vm.Call(wfn, args)
		}
		if t, ok := callee.(*objmodel.WType); ok && t.Storage == objmodel.StorageReference && len(t.Members) > 0 {
			if len(args) != len(t.Members) {
				return nil, diagnostics.TypeError(n.Pos, fmt.Sprintf("%s() takes %d arguments but %d were supplied", t.Name(), len(t.Members), len(args)))
			}
			s := objmodel.NewStruct(t)
			copy(s.Slots, args)
			return s, nil
		}
		opArgs := make([]oparg.OpArg, len(args))
		for i, a := range args {
			opArgs[i] = blueArg(a, n.Pos)
		}
		impl, err := vm.Disp.ResolveCall(vm, blueArg(callee, n.Pos), opArgs)
		if err != nil {
			return nil, err
		}
		if impl.IsNull() {
			return nil, diagnostics.TypeError(n.Pos, fmt.Sprintf("'%s' object is not callable", callee.WType().Name()))
		}
		return vm.invoke(impl, append([]objmodel.W{callee}, args...))

	case *ast.BinOpExpr:
		l, err := vm.EvalExpr(env, mod, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := vm.EvalExpr(env, mod, n.Right)
		if err != nil {
			return nil, err
		}
		impl, err := vm.Disp.ResolveBinOp(vm, n.Op, blueArg(l, n.Pos), blueArg(r, n.Pos))
		if err != nil {
			return nil, err
		}
		if impl.IsNull() {
			return nil, diagnostics.DispatchError(n.Pos, fmt.Sprintf("unsupported operand types for %s: '%s' and '%s'", n.Op, l.WType().Name(), r.WType().Name()))
		}
		return vm.invoke(impl, []objmodel.W{l, r})

	case *ast.UnaryOpExpr:
		v, err := vm.EvalExpr(env, mod, n.Operand)
		if err != nil {
			return nil, err
		}
		impl, err := vm.Disp.ResolveUnaryOp(vm, n.Op, blueArg(v, n.Pos))
		if err != nil {
			return nil, err
		}
		if impl.IsNull() {
			return nil, diagnostics.DispatchError(n.Pos, fmt.Sprintf("bad operand type for unary %s: '%s'", n.Op, v.WType().Name()))
		}
		return vm.invoke(impl, []objmodel.W{v})

	default:
		return nil, fmt.Errorf("blueeval: unhandled expression node %T", e)
	}
}

// invoke resolves impl's argument mapping (or the identity order) and
// calls the resolved callee.
func (vm *VM) invoke(impl oparg.OpImpl, callArgs []objmodel.W) (objmodel.W, error) {
	wfn, ok := impl.Func.(*spyfunc.WFunc)
	if !ok {
		return nil, fmt.Errorf("blueeval: resolved OpImpl callee is not callable")
	}
	return vm.Call(wfn, oparg.ResolveArgs(impl, callArgs))
}
