package allergen

import "sync"

// Registry holds the vocabulary currently in use. Reloads swap it atomically.
type Registry struct {
	mu      sync.RWMutex
	current Vocabulary
}

// NewRegistry creates a registry serving v
func NewRegistry(v Vocabulary) *Registry {
	return &Registry{current: v}
}

// Current returns the active vocabulary
func (r *Registry) Current() Vocabulary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Replace swaps in a new vocabulary
func (r *Registry) Replace(v Vocabulary) {
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}
