package functions

import (
	"sort"
	"strings"
	"sync"
)

// Func is the signature for registered functions. Implementations must be
// pure: no I/O, no mutation of arguments.
type Func func(args ...any) (any, error)

// Registry manages the named functions available to expressions.
// Lookup is case-insensitive. Safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]Func
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{fns: make(map[string]Func)}
}

// NewWithBuiltins creates a registry pre-loaded with the standard function
// library (SUM, DATEADD, IF, CONCAT, ...).
func NewWithBuiltins() *Registry {
	r := New()
	registerBuiltins(r)
	return r
}

// Register stores fn under name. Names are case-insensitive; an existing
// function with the same name is overwritten.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[strings.ToUpper(name)] = fn
}

// Get returns the function registered under name, if any.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[strings.ToUpper(name)]
	return fn, ok
}

// Has reports whether a function is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the canonical (upper-case) registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot exports a flattened name-to-function view for injection into the
// evaluator environment. Each function appears under its canonical upper-case
// name and a lower-case alias, so expressions may write SUM(...) or sum(...).
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.fns)*2)
	for name, fn := range r.fns {
		out[name] = fn
		out[strings.ToLower(name)] = fn
	}
	return out
}
