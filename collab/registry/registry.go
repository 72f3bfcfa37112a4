// Package registry tracks live connections and the display names they have
// claimed. It is the source of truth for presence: the online-user snapshot is
// always recomputed from the current table, never maintained incrementally.
//
// Display names are not unique. Two connections may claim the same name; the
// registry does not reject or rename them. Name-based lookups resolve to the
// earliest-registered connection currently holding the name, which keeps the
// policy deterministic instead of depending on map iteration order.
package registry

import (
	"sync"

	"github.com/samber/lo"
)

// Registry maps connection identifiers to claimed display names.
//
// All mutations normally arrive from a single dispatch goroutine, but the
// introspection API reads concurrently, so access is guarded by a mutex.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string
	order []string // connection ids in registration order
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{names: make(map[string]string)}
}

// Register records name for connID, overwriting any previous name. A repeated
// register keeps the connection's original position in registration order.
func (r *Registry) Register(connID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.names[connID]; !known {
		r.order = append(r.order, connID)
	}
	r.names[connID] = name
}

// Unregister removes connID and reports the name it held, if any.
func (r *Registry) Unregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.names[connID]
	if !ok {
		return "", false
	}
	delete(r.names, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return name, true
}

// Name returns the display name claimed by connID. Connections that have not
// sent a join yet resolve to the empty string.
func (r *Registry) Name(connID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[connID]
}

// Names returns the deduplicated display names of all registered connections,
// in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.names[id])
	}
	return lo.Uniq(names)
}

// ConnIDs returns all registered connection ids in registration order.
func (r *Registry) ConnIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// FindByName returns the earliest-registered connection currently holding
// name. Duplicate names are an accepted limitation of name-based identity:
// later holders are unreachable by lookup until the first one leaves.
func (r *Registry) FindByName(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.names[id] == name {
			return id, true
		}
	}
	return "", false
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
