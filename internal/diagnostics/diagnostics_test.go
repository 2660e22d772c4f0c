package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spy-lang/spy/internal/ast"
)

func TestNewErrorCarriesPrimaryNote(t *testing.T) {
	err := NewError(KindType, ast.Pos{Line: 3, Col: 7}, "mismatched types: expected i32, got str")
	require.Equal(t, KindType, err.Kind)
	require.Contains(t, err.Error(), "mismatched types: expected i32, got str")
	require.Len(t, err.Notes, 1)
	require.Equal(t, ast.Pos{Line: 3, Col: 7}, err.Notes[0].Span)
}

func TestWithNoteAppends(t *testing.T) {
	err := TypeError(ast.Pos{Line: 1, Col: 1}, "mismatched types: expected i32, got str")
	err.WithNote(ast.Pos{Line: 1, Col: 10}, "declared i32 here")
	require.Len(t, err.Notes, 2)
	require.Contains(t, err.Error(), "declared i32 here")
}

func TestInTagsDeclaration(t *testing.T) {
	err := ScopeError(ast.Pos{}, "undeclared name 'x'")
	err.In("mymod", "myfunc")
	require.Equal(t, "mymod", err.Module)
	require.Equal(t, "myfunc", err.Func)
}

func TestConvenienceConstructorsSetKind(t *testing.T) {
	require.Equal(t, KindParse, ParseError(ast.Pos{}, "x").Kind)
	require.Equal(t, KindScope, ScopeError(ast.Pos{}, "x").Kind)
	require.Equal(t, KindType, TypeError(ast.Pos{}, "x").Kind)
	require.Equal(t, KindDispatch, DispatchError(ast.Pos{}, "x").Kind)
	require.Equal(t, KindBlueEval, BlueEvalError(ast.Pos{}, "x").Kind)
}
