// Package spyfunc implements the Function Model (spec §3 "Function
// (W_Func)", §4.3): signatures, builtin and AST-backed functions, and
// their color.
package spyfunc

import (
	"fmt"
	"strings"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/objmodel"
)

// Param is one formal parameter of a FuncType.
type Param struct {
	Name  string
	WType *objmodel.WType
}

// FuncType is a function's signature: its parameter list, result type
// and color (spec §3 "FuncType lists (param_name, w_type) pairs and a
// result type, plus color").
type FuncType struct {
	Params []Param
	Result *objmodel.WType
	Color  ast.Color
}

func (ft *FuncType) String() string {
	parts := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.WType.Name())
	}
	resName := "void"
	if ft.Result != nil {
		resName = ft.Result.Name()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), resName)
}

// Arity is the number of declared parameters.
func (ft *FuncType) Arity() int { return len(ft.Params) }
