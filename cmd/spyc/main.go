// Command spyc is the ambient demo CLI described in SPEC_FULL.md §6: it
// drives a hand-built AST (this repository ships no parser — the
// Parser collaborator stays out of scope, spec §1) through the
// Redshift pass end to end, and runs the two functions Redshift
// resolved successfully through the Blue Evaluator. It exists to give
// the core packages a runnable entry point, not to be a language
// front-end.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/blueeval"
	"github.com/spy-lang/spy/internal/config"
	"github.com/spy-lang/spy/internal/diagnostics"
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/redshift"
	"github.com/spy-lang/spy/internal/registry"
	"github.com/spy-lang/spy/internal/spyfunc"
)

func main() {
	os.Exit(run())
}

func run() int {
	jobID := uuid.New()
	color := isatty.IsTerminal(os.Stdout.Fd())

	printBanner(jobID, color)
	fmt.Println(demoSource)

	u := objmodel.NewUniverse()
	funcType := objmodel.NewType(fqn.Parse("builtins::function"), u.Object, objmodel.StorageReference)
	funcType.Metaclass = u.Type
	registerI32Add(u, funcType)
	point := newPointType(u)

	vm := blueeval.New(u)
	mod := registry.New("demo", u, funcType)
	vm.MakeModule(mod)

	program := buildDemoProgram(u, point)
	rs := redshift.New(u, vm.Disp, vm, mod, funcType, "demo")
	results := rs.RedshiftModule(program.Module)

	// Re-realize demo now that redshift has defined N into mod, so the
	// runtime NameExpr lookups inside origin()'s body see it too (spec
	// §4.4: a registry is copied into a VM module at make_module time).
	vm.MakeModule(mod)

	failed := printDiagnostics(jobID, color, results)

	if errs := results["add"]; len(errs) == 0 {
		addFn := spyfunc.NewASTFunc(funcType, mod.FQN("add"), &spyfunc.FuncType{
			Params: []spyfunc.Param{{Name: "x", WType: u.I32}, {Name: "y", WType: u.I32}},
			Result: u.I32, Color: ast.Red,
		}, fqn.Parse("demo"), program.Add, nil)
		runDemoCall(vm, "add(19, 23)", addFn, []objmodel.W{u.WrapInt(19), u.WrapInt(23)})
	}
	if errs := results["origin"]; len(errs) == 0 {
		originFn := spyfunc.NewASTFunc(funcType, mod.FQN("origin"), &spyfunc.FuncType{
			Result: point, Color: ast.Red,
		}, fqn.Parse("demo"), program.Origin, nil)
		runDemoCall(vm, "origin()", originFn, nil)
	}

	if failed {
		return 1
	}
	return 0
}

func printBanner(jobID uuid.UUID, color bool) {
	if color {
		fmt.Printf("\x1b[36mspyc\x1b[0m %s — job %s\n", config.Version, jobID)
	} else {
		fmt.Printf("spyc %s — job %s\n", config.Version, jobID)
	}
}

// printDiagnostics prints every redshift error, grouped by the
// function it occurred in (spec §8 "Error locality"), colored red on a
// real terminal. Returns true if any function failed to redshift.
func printDiagnostics(jobID uuid.UUID, color bool, results map[string][]error) bool {
	failed := false
	for fn, errs := range results {
		for _, err := range errs {
			failed = true
			msg := err.Error()
			if de, ok := err.(*diagnostics.DiagnosticError); ok {
				msg = de.Error()
			}
			if color {
				fmt.Fprintf(os.Stderr, "\x1b[31m[%s] %s:\x1b[0m %s\n", jobID, fn, msg)
			} else {
				fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", jobID, fn, msg)
			}
		}
	}
	return failed
}

// runDemoCall runs an already-wrapped W_Func through the Blue Evaluator
// (spec §4.8) and prints the result the way a tiny embedder would.
func runDemoCall(vm *blueeval.VM, label string, fn *spyfunc.WFunc, args []objmodel.W) {
	result, err := vm.Call(fn, args)
	if err != nil {
		fmt.Printf("%s -> error: %v\n", label, err)
		return
	}
	fmt.Printf("%s -> %s\n", label, describe(result))
}

// describe renders a W value for the demo banner without relying on
// any dunder-style "repr" capability — this CLI is ambient scaffolding,
// not a language front-end, so it reaches into the concrete Go types
// directly rather than dispatching through the object model.
func describe(w objmodel.W) string {
	switch v := w.(type) {
	case *objmodel.WInt:
		return fmt.Sprintf("%d", v.Value)
	case *objmodel.WStruct:
		fields := make([]string, len(v.Slots))
		for i, slot := range v.Slots {
			fields[i] = describe(slot)
		}
		return fmt.Sprintf("%s%v", v.WType().FQN.Symbol(), fields)
	default:
		return fmt.Sprintf("%v", w)
	}
}
