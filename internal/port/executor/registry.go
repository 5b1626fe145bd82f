package executor

import (
	"fmt"
	"sync"

	"github.com/mindhq/mindcore/internal/domain/task"
)

// Registry resolves a task category to its executor. Categories without a
// dedicated executor route to the fallback, so resolution never fails.
type Registry struct {
	mu       sync.RWMutex
	byCat    map[task.Category]Executor
	fallback Executor
}

// NewRegistry creates a Registry with the given fallback executor. The
// fallback is also registered under its own category.
func NewRegistry(fallback Executor) *Registry {
	r := &Registry{
		byCat:    make(map[task.Category]Executor),
		fallback: fallback,
	}
	r.byCat[fallback.Category()] = fallback
	return r
}

// Register makes an executor available for its category.
// Registering the same category twice is a wiring bug.
func (r *Registry) Register(e Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCat[e.Category()]; exists {
		panic(fmt.Sprintf("executor: duplicate registration for %q", e.Category()))
	}
	r.byCat[e.Category()] = e
}

// Resolve returns the executor for the category, or the fallback when the
// category is unknown.
func (r *Registry) Resolve(c task.Category) Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.byCat[c]; ok {
		return e
	}
	return r.fallback
}

// Categories returns all registered categories.
func (r *Registry) Categories() []task.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cats := make([]task.Category, 0, len(r.byCat))
	for c := range r.byCat {
		cats = append(cats, c)
	}
	return cats
}
