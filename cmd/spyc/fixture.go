package main

import (
	_ "embed"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/objmodel"
)

// demoSource is demo.spy, embedded purely for the banner this CLI
// prints before compiling — it is never parsed. There is no parser in
// this repository (SPEC_FULL.md §6: the Parser collaborator stays out
// of scope); buildDemoProgram below hand-builds the same tree a parser
// would have produced from this text.
//
//go:embed demo.spy
var demoSource string

// demoProgram is the pre-built AST the demo CLI feeds to redshift, plus
// the individual FuncDefs main needs to wrap as callable W_Funcs once
// redshift has resolved them.
type demoProgram struct {
	Module *ast.Module
	Add    *ast.FuncDef
	Origin *ast.FuncDef
	Broken *ast.FuncDef
}

// buildDemoProgram mirrors demo.spy:
//
//	blue N: i32 = 21
//	def add(x: i32, y: i32) -> i32: return x + y
//	def origin() -> Point: return Point(0, N)
//	def broken() -> i32: return nosuchvar
func buildDemoProgram(u *objmodel.Universe, point *objmodel.WType) *demoProgram {
	global := &ast.GlobalVarDef{Var: &ast.VarDef{
		Name: "N", Type: u.I32, Value: &ast.ConstantExpr{Value: u.WrapInt(21)},
	}}

	add := &ast.FuncDef{
		Name: "add", Color: ast.Red,
		Args:       []*ast.FuncArg{{Name: "x", Type: u.I32}, {Name: "y", Type: u.I32}},
		ReturnType: u.I32,
		Body: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinOpExpr{
				Op: "+", Left: &ast.NameExpr{Name: "x"}, Right: &ast.NameExpr{Name: "y"},
			}},
		},
	}

	origin := &ast.FuncDef{
		Name: "origin", Color: ast.Red, ReturnType: point,
		Body: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.CallExpr{
				Func: &ast.ConstantExpr{Value: point},
				Args: []ast.Expr{
					&ast.ConstantExpr{Value: u.WrapInt(0)},
					&ast.NameExpr{Name: "N"},
				},
			}},
		},
	}

	broken := &ast.FuncDef{
		Name: "broken", Color: ast.Red, ReturnType: u.I32,
		Body: []ast.Stmt{&ast.ReturnStmt{Value: &ast.NameExpr{Name: "nosuchvar"}}},
	}

	mod := &ast.Module{Name: "demo", Decls: []ast.Decl{global, add, origin, broken}}
	return &demoProgram{Module: mod, Add: add, Origin: origin, Broken: broken}
}
