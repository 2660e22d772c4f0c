// Package diagnostics implements the error taxonomy (spec §7) and wire
// format (spec §6 "Diagnostics format: every error carries an error
// kind, a primary message, and a list of (source span, note)
// annotations").
//
// The teacher's own internal/diagnostics package source was not part
// of the retrieval pack — only its call sites were (cmd/lsp/diagnostics.go,
// internal/analyzer/declarations_imports.go: `diagnostics.NewError(code,
// token, message)` producing a `*DiagnosticError` with a `.Code`,
// `.Token`/`.File` location and an `.Error()` message). This package
// reconstructs that shape, generalized from a single token location to
// a list of (span, note) annotations as spec §6 requires.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/spy-lang/spy/internal/ast"
)

// Kind is the error taxonomy of spec §7.
type Kind string

const (
	KindParse     Kind = "ParseError"
	KindScope     Kind = "ScopeError"
	KindType      Kind = "TypeError"
	KindDispatch  Kind = "DispatchError"
	KindBlueEval  Kind = "BlueEvalError"
	KindRuntimeAbort Kind = "RuntimeAbort"
)

// Note is one (source span, note) annotation (spec §6).
type Note struct {
	Span ast.Pos
	Text string
}

// DiagnosticError is the wire format every error in this compiler is
// reported through: a kind, a primary message, and annotations.
type DiagnosticError struct {
	Kind    Kind
	Message string
	Notes   []Note

	// Func/Module name the error occurred in, used by redshift's
	// per-declaration error-locality guarantee (spec §8 "Error locality").
	Func   string
	Module string
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "\n  at %d:%d: %s", n.Span.Line, n.Span.Col, n.Text)
	}
	return b.String()
}

// NewError builds a DiagnosticError with a single primary note at pos,
// the common case (mirrors the teacher's
// diagnostics.NewError(code, token, message) call shape).
func NewError(kind Kind, pos ast.Pos, message string) *DiagnosticError {
	return &DiagnosticError{Kind: kind, Message: message, Notes: []Note{{Span: pos, Text: message}}}
}

// WithNote appends an additional (span, note) annotation, e.g. to point
// at both the expected-type declaration site and the offending call site.
func (e *DiagnosticError) WithNote(pos ast.Pos, text string) *DiagnosticError {
	e.Notes = append(e.Notes, Note{Span: pos, Text: text})
	return e
}

// In tags the declaration the error was found in, so error-locality
// (spec §8) can be checked: a TypeError tagged Func "A" must not
// prevent redshift of Func "B".
func (e *DiagnosticError) In(module, fn string) *DiagnosticError {
	e.Module, e.Func = module, fn
	return e
}

// ParseError, ScopeError, TypeError, DispatchError, BlueEvalError are
// convenience constructors for each taxonomy member (spec §7).
func ParseError(pos ast.Pos, message string) *DiagnosticError {
	return NewError(KindParse, pos, message)
}

func ScopeError(pos ast.Pos, message string) *DiagnosticError {
	return NewError(KindScope, pos, message)
}

func TypeError(pos ast.Pos, message string) *DiagnosticError {
	return NewError(KindType, pos, message)
}

func DispatchError(pos ast.Pos, message string) *DiagnosticError {
	return NewError(KindDispatch, pos, message)
}

func BlueEvalError(pos ast.Pos, message string) *DiagnosticError {
	return NewError(KindBlueEval, pos, message)
}
