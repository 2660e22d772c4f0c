// Package ast defines the fixed node vocabulary the Parser collaborator
// hands to the core (spec §6 "To the Parser (input)"). This repository
// does not implement a parser: tests and the demo CLI construct trees
// of these nodes directly, exactly as the out-of-scope-collaborator
// boundary in spec §1 intends.
package ast

import (
	"github.com/spy-lang/spy/internal/objmodel"
)

// Pos is a source location, used by diagnostics to point at a span.
type Pos struct {
	Line, Col int
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	isStmt()
}

// Decl is implemented by every top-level declaration.
type Decl interface {
	Node
	isDecl()
}

// Color classifies a function or expression as compile-time (Blue) or
// runtime (Red) per spec §3.
type Color int

const (
	Red Color = iota
	Blue
)

func (c Color) String() string {
	if c == Blue {
		return "blue"
	}
	return "red"
}

// Module is the root node: a module is a flat list of declarations
// (spec §6 "Module(decls)").
type Module struct {
	Name  string
	Decls []Decl
}

func (m *Module) Position() Pos { return Pos{} }

// FuncArg is one formal parameter of a FuncDef (spec §6 "FuncArg(name, type)").
type FuncArg struct {
	Pos  Pos
	Name string
	Type *objmodel.WType
}

func (a *FuncArg) Position() Pos { return a.Pos }

// FuncDef is a function declaration (spec §6 "FuncDef(color, name,
// args, return_type, body)"). Its Color is assigned by the parser
// (`def` vs `blue def`, or equivalent surface syntax) and defaults to
// Red unless annotated otherwise (spec §3 invariant).
type FuncDef struct {
	Pos        Pos
	Color      Color
	Name       string
	Args       []*FuncArg
	ReturnType *objmodel.WType
	Body       []Stmt
}

func (f *FuncDef) Position() Pos { return f.Pos }
func (f *FuncDef) isDecl()       {}

// VarDef declares a named, typed value, optionally initialized (spec
// §6 "VarDef(name, type, value)").
type VarDef struct {
	Pos   Pos
	Name  string
	Type  *objmodel.WType
	Value Expr
}

func (v *VarDef) Position() Pos { return v.Pos }

// GlobalVarDef wraps a VarDef at module scope (spec §6 "GlobalVarDef(vardef)").
type GlobalVarDef struct {
	Pos Pos
	Var *VarDef
}

func (g *GlobalVarDef) Position() Pos { return g.Pos }
func (g *GlobalVarDef) isDecl()       {}

// ImportDecl brings a global from another module into scope (spec §6 "Import(fqn, asname)").
type ImportDecl struct {
	Pos    Pos
	Module string
	Name   string
	AsName string
}

func (i *ImportDecl) Position() Pos { return i.Pos }
func (i *ImportDecl) isDecl()       {}

// --- Statements (spec §6: Return, Assign, If, While, Pass, StmtExpr) ---

type ReturnStmt struct {
	Pos   Pos
	Value Expr // nil for a bare `return` in a void function
}

func (s *ReturnStmt) Position() Pos { return s.Pos }
func (s *ReturnStmt) isStmt()       {}

// AssignStmt covers plain-variable, attribute and item assignment
// targets; redshift (§4.9 step 3) determines which of store/SETATTR/
// SETITEM applies based on the dynamic type of Target.
type AssignStmt struct {
	Pos    Pos
	Target Expr
	Value  Expr

	// Resolved is filled in by redshift: *redshift.ResolvedAssign.
	Resolved any
}

func (s *AssignStmt) Position() Pos { return s.Pos }
func (s *AssignStmt) isStmt()       {}

type IfStmt struct {
	Pos  Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *IfStmt) Position() Pos { return s.Pos }
func (s *IfStmt) isStmt()       {}

type WhileStmt struct {
	Pos  Pos
	Cond Expr
	Body []Stmt
}

func (s *WhileStmt) Position() Pos { return s.Pos }
func (s *WhileStmt) isStmt()       {}

type PassStmt struct {
	Pos Pos
}

func (s *PassStmt) Position() Pos { return s.Pos }
func (s *PassStmt) isStmt()       {}

// ExprStmt is a bare expression used as a statement (spec §6 "StmtExpr").
type ExprStmt struct {
	Pos   Pos
	Value Expr
}

func (s *ExprStmt) Position() Pos { return s.Pos }
func (s *ExprStmt) isStmt()       {}

// --- Expressions ---

type NameExpr struct {
	Pos  Pos
	Name string
}

func (e *NameExpr) Position() Pos { return e.Pos }
func (e *NameExpr) isExpr()       {}

// ConstantExpr is a literal already wrapped as a blue value by the
// parser/lexer collaborator (spec §4.9 step 1: "blue value if the
// expression is a constant").
type ConstantExpr struct {
	Pos   Pos
	Value objmodel.W
}

func (e *ConstantExpr) Position() Pos { return e.Pos }
func (e *ConstantExpr) isExpr()       {}

type ListExpr struct {
	Pos      Pos
	Elements []Expr
}

func (e *ListExpr) Position() Pos { return e.Pos }
func (e *ListExpr) isExpr()       {}

// GetItemExpr is both `obj[i]` reads and (as an AssignStmt.Target) writes.
type GetItemExpr struct {
	Pos   Pos
	Obj   Expr
	Index Expr

	// Resolved is filled in by redshift: an oparg.OpImpl value.
	Resolved any
}

func (e *GetItemExpr) Position() Pos { return e.Pos }
func (e *GetItemExpr) isExpr()       {}

// AttrExpr is both `obj.attr` reads and (as an AssignStmt.Target)
// writes. Supplemented into the vocabulary; see SPEC_FULL.md §6.
type AttrExpr struct {
	Pos  Pos
	Obj  Expr
	Attr string

	Resolved any
}

func (e *AttrExpr) Position() Pos { return e.Pos }
func (e *AttrExpr) isExpr()       {}

type CallExpr struct {
	Pos  Pos
	Func Expr
	Args []Expr

	Resolved any
}

func (e *CallExpr) Position() Pos { return e.Pos }
func (e *CallExpr) isExpr()       {}

// BinOpExpr covers both the "binary" (Add, Sub, ..., MatMul) and
// "compare" (Eq ... NotIn) node families from spec §6: dispatch only
// cares about the operator symbol, not which AST subclass produced it.
type BinOpExpr struct {
	Pos   Pos
	Op    string // "+", "-", "*", "/", "%", "@", "==", "!=", "<", "<=", ">", ">=", "in", "not in"
	Left  Expr
	Right Expr

	Resolved any
}

func (e *BinOpExpr) Position() Pos { return e.Pos }
func (e *BinOpExpr) isExpr()       {}

// UnaryOpExpr covers UnaryPos, UnaryNeg, Invert, Not.
type UnaryOpExpr struct {
	Pos     Pos
	Op      string // "+", "-", "~", "not"
	Operand Expr

	Resolved any
}

func (e *UnaryOpExpr) Position() Pos { return e.Pos }
func (e *UnaryOpExpr) isExpr()       {}
