package blueeval

import (
	"fmt"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/diagnostics"
	"github.com/spy-lang/spy/internal/dispatch"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/registry"
)

// execBlock runs stmts in sequence, short-circuiting on the first
// `return` or error (spec §4.9 step 3: statements are structural; a
// bare `return` yields (None, true, nil)).
func (vm *VM) execBlock(env *Environment, mod *registry.Registry, stmts []ast.Stmt) (result objmodel.W, returned bool, err error) {
	for _, s := range stmts {
		result, returned, err = vm.execStmt(env, mod, s)
		if err != nil || returned {
			return result, returned, err
		}
	}
	return nil, false, nil
}

func (vm *VM) execStmt(env *Environment, mod *registry.Registry, s ast.Stmt) (objmodel.W, bool, error) {
	switch n := s.(type) {
	case *ast.PassStmt:
		return nil, false, nil

	case *ast.ExprStmt:
		_, err := vm.EvalExpr(env, mod, n.Value)
		return nil, false, err

	case *ast.ReturnStmt:
		if n.Value == nil {
			return vm.U.WNone, true, nil
		}
		v, err := vm.EvalExpr(env, mod, n.Value)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil

	case *ast.AssignStmt:
		err := vm.execAssign(env, mod, n)
		return nil, false, err

	case *ast.IfStmt:
		cond, err := vm.EvalExpr(env, mod, n.Cond)
		if err != nil {
			return nil, false, err
		}
		if isTruthy(cond) {
			return vm.execBlock(NewEnclosedEnvironment(env), mod, n.Then)
		}
		return vm.execBlock(NewEnclosedEnvironment(env), mod, n.Else)

	case *ast.WhileStmt:
		for {
			cond, err := vm.EvalExpr(env, mod, n.Cond)
			if err != nil {
				return nil, false, err
			}
			if !isTruthy(cond) {
				return nil, false, nil
			}
			result, returned, err := vm.execBlock(NewEnclosedEnvironment(env), mod, n.Body)
			if err != nil || returned {
				return result, returned, err
			}
		}

	default:
		return nil, false, fmt.Errorf("blueeval: unhandled statement node %T", s)
	}
}

func (vm *VM) execAssign(env *Environment, mod *registry.Registry, a *ast.AssignStmt) error {
	value, err := vm.EvalExpr(env, mod, a.Value)
	if err != nil {
		return err
	}

	switch target := a.Target.(type) {
	case *ast.NameExpr:
		if !env.Update(target.Name, value) {
			env.Set(target.Name, value)
		}
		return nil

	case *ast.AttrExpr:
		obj, err := vm.EvalExpr(env, mod, target.Obj)
		if err != nil {
			return err
		}
		impl, err := vm.Disp.ResolveSetAttr(vm, blueArg(obj, target.Pos), target.Attr, blueArg(value, target.Pos))
		if err != nil {
			return err
		}
		if impl.IsNull() {
			return diagnostics.TypeError(target.Pos, fmt.Sprintf("type '%s' has no attribute '%s'", obj.WType().Name(), target.Attr))
		}
		if m, _, ok := dispatch.Member(impl); ok {
			ws, ok := obj.(*objmodel.WStruct)
			if !ok {
				return diagnostics.BlueEvalError(target.Pos, "member access on non-struct value")
			}
			ws.Set(m, value)
			return nil
		}
		_, err = vm.invoke(impl, []objmodel.W{obj, value})
		return err

	case *ast.GetItemExpr:
		obj, err := vm.EvalExpr(env, mod, target.Obj)
		if err != nil {
			return err
		}
		idx, err := vm.EvalExpr(env, mod, target.Index)
		if err != nil {
			return err
		}
		impl, err := vm.Disp.ResolveSetItem(vm, blueArg(obj, target.Pos), blueArg(idx, target.Pos), blueArg(value, target.Pos))
		if err != nil {
			return err
		}
		if impl.IsNull() {
			return diagnostics.DispatchError(target.Pos, fmt.Sprintf("type %q does not support item assignment", obj.WType().Name()))
		}
		_, err = vm.invoke(impl, []objmodel.W{obj, idx, value})
		return err

	default:
		return fmt.Errorf("blueeval: unsupported assignment target %T", a.Target)
	}
}

// isTruthy is used by If/While conditions. bool, i32 (non-zero) and None
// (always false) have their own truthiness; every other value is truthy.
func isTruthy(v objmodel.W) bool {
	switch t := v.(type) {
	case *objmodel.WBool:
		return t.Value
	case *objmodel.WInt:
		return t.Value != 0
	case *objmodel.WNone:
		return false
	default:
		return true
	}
}
