package pipe

import (
	"strings"
	"sync"
)

// Registry holds the pipes the host can route requests to.
type Registry struct {
	mu    sync.RWMutex
	pipes map[string]Pipe
	order []string
}

// NewRegistry creates an empty pipe registry.
func NewRegistry() *Registry {
	return &Registry{pipes: make(map[string]Pipe)}
}

// Register adds a pipe. Registering the same ID twice replaces the earlier
// pipe but keeps its position in the listing order.
func (r *Registry) Register(p Pipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := p.ID()
	if _, exists := r.pipes[id]; !exists {
		r.order = append(r.order, id)
	}
	r.pipes[id] = p
}

// Get returns the pipe registered under the given ID.
func (r *Registry) Get(id string) (Pipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipes[id]
	return p, ok
}

// List returns all registered pipes in registration order.
func (r *Registry) List() []Pipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pipes := make([]Pipe, 0, len(r.order))
	for _, id := range r.order {
		pipes = append(pipes, r.pipes[id])
	}
	return pipes
}

// Models returns the combined model catalog across all pipes.
func (r *Registry) Models() []ModelInfo {
	var models []ModelInfo
	for _, p := range r.List() {
		models = append(models, p.Models()...)
	}
	return models
}

// Resolve picks the pipe for a model identifier. A "pipe/" prefix selects the
// pipe with that ID; otherwise the first registered pipe is the default.
func (r *Registry) Resolve(model string) (Pipe, bool) {
	if prefix, _, found := strings.Cut(model, "/"); found {
		if p, ok := r.Get(prefix); ok {
			return p, true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, false
	}
	return r.pipes[r.order[0]], true
}
