package evmrpc

import (
	"context"
	"encoding/json"
	"sort"
)

// Handler serves one method. A nil result with a nil error means the call produces no
// content (HTTP 204).
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register panics on a duplicate name: the table is built once at boot.
func (r *Registry) Register(method string, handler Handler) {
	if _, exists := r.handlers[method]; exists {
		panic("evmrpc: duplicate handler for " + method)
	}
	r.handlers[method] = handler
}

func (r *Registry) Lookup(method string) (Handler, bool) {
	h, ok := r.handlers[method]
	return h, ok
}

func (r *Registry) Methods() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
