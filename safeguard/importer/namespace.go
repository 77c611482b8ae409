package importer

import (
	"sort"
	"sync"
)

// Namespace is a mutable name-to-module binding table, the target for Load's
// Into option.
//
// It is safe for concurrent use.
type Namespace struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{modules: make(map[string]*Module)}
}

// Bind associates name with module. When a binding for name already exists
// and overwrite is false, the existing binding is left untouched and Bind
// returns false.
func (ns *Namespace) Bind(name string, module *Module, overwrite bool) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if _, exists := ns.modules[name]; exists && !overwrite {
		return false
	}

	ns.modules[name] = module

	return true
}

// Get returns the module bound under name.
func (ns *Namespace) Get(name string) (*Module, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	module, ok := ns.modules[name]

	return module, ok
}

// Names returns the bound names in sorted order.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	names := make([]string, 0, len(ns.modules))
	for name := range ns.modules {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of bindings.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	return len(ns.modules)
}
