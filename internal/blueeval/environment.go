package blueeval

import (
	"sync"

	"github.com/spy-lang/spy/internal/objmodel"
)

// Environment is a mutex-guarded, outer-chained variable scope,
// grounded on the teacher's internal/evaluator/environment.go idiom
// (NewEnvironment/NewEnclosedEnvironment, RWMutex-guarded Get/Set,
// outer-chain lookup) — adapted here to hold objmodel.W values instead
// of the teacher's dynamic-language Object.
type Environment struct {
	mu    sync.RWMutex
	store map[string]objmodel.W
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]objmodel.W)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (objmodel.W, bool) {
	e.mu.RLock()
	v, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return v, ok
}

func (e *Environment) Set(name string, v objmodel.W) {
	e.mu.Lock()
	e.store[name] = v
	e.mu.Unlock()
}

// Update assigns to the nearest enclosing scope that already declares
// name, walking the outer chain (spec §4.9 step 3 "assign"). It
// reports whether an existing binding was found.
func (e *Environment) Update(name string, v objmodel.W) bool {
	e.mu.Lock()
	if _, ok := e.store[name]; ok {
		e.store[name] = v
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Update(name, v)
	}
	return false
}
