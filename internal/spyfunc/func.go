package spyfunc

import (
	"fmt"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
)

// Kind distinguishes the two ways a W_Func can be backed (spec §3
// "Either a builtin ... or an AST function").
type Kind int

const (
	KindBuiltin Kind = iota
	KindAST
)

// Context is the minimal surface a builtin function body needs from
// its caller — the "leading VM parameter" convention of spec §4.3.
// The blue evaluator (internal/blueeval) implements this.
type Context interface {
	// Call invokes fn with args, running it to completion (blue calls
	// always run to completion during compilation, spec §4.8).
	Call(fn *WFunc, args []objmodel.W) (objmodel.W, error)
}

// BuiltinImpl is a host-code function body.
type BuiltinImpl func(ctx Context, args []objmodel.W) (objmodel.W, error)

// WFunc is a wrapped function value (spec §3 "Function (W_Func)").
type WFunc struct {
	FQN  fqn.FQN
	Type *FuncType
	Kind Kind

	Builtin BuiltinImpl

	// AST-backed functions additionally carry their body, their
	// module's FQN, and the closed-over globals (spec §4.3).
	Body      *ast.FuncDef
	ModuleFQN fqn.FQN
	Closure   map[string]objmodel.W

	typ *objmodel.WType
}

// NewBuiltinFunc wraps a host function. funcWType is the dynamic type
// of function values; the caller supplies it (Universe has no function
// type of its own).
func NewBuiltinFunc(funcWType *objmodel.WType, name fqn.FQN, ft *FuncType, impl BuiltinImpl) *WFunc {
	return &WFunc{FQN: name, Type: ft, Kind: KindBuiltin, Builtin: impl, typ: funcWType}
}

// NewASTFunc wraps a parsed function body.
func NewASTFunc(funcWType *objmodel.WType, name fqn.FQN, ft *FuncType, moduleFQN fqn.FQN, body *ast.FuncDef, closure map[string]objmodel.W) *WFunc {
	return &WFunc{
		FQN: name, Type: ft, Kind: KindAST,
		Body: body, ModuleFQN: moduleFQN, Closure: closure,
		typ: funcWType,
	}
}

func (f *WFunc) WType() *objmodel.WType { return f.typ }

func (f *WFunc) String() string {
	return fmt.Sprintf("<spy function '%s'>", f.FQN.Fullname())
}

// IsBlue reports whether f can be fully evaluated at compile time.
func (f *WFunc) IsBlue() bool { return f.Type.Color == ast.Blue }

// Arity is f's declared parameter count.
func (f *WFunc) Arity() int { return f.Type.Arity() }
