// Package mappings lets embedding applications compose the mapping-handler
// stack for a tree by name. Handlers registered here are handed to the tree
// at construction; the registry itself is never consulted during a refresh.
package mappings

import (
	"fmt"
	"sync"

	"github.com/projtree/projtree"
)

// Registry holds named mapping handlers in registration order
type Registry struct {
	mu       sync.RWMutex
	names    []string
	handlers map[string]projtree.MappingHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]projtree.MappingHandler)}
}

// Register ties a handler to a name. The first registration for a name wins;
// later registrations for the same name are dropped.
func (r *Registry) Register(name string, h projtree.MappingHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return
	}
	r.handlers[name] = h
	r.names = append(r.names, name)
}

// Get returns the handler registered under name
func (r *Registry) Get(name string) (projtree.MappingHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("no mapping handler for %q", name)
	}
	return h, nil
}

// Handlers returns all registered handlers in registration order
func (r *Registry) Handlers() []projtree.MappingHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]projtree.MappingHandler, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.handlers[name])
	}
	return out
}
