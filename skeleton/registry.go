package skeleton

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry holds bone tables keyed by unit image name
// Populated once at load, then frozen; frozen reads take no lock
type Registry struct {
	mu     sync.Mutex
	frozen atomic.Bool
	defs   map[string]*Definition
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition under its image name
func (r *Registry) Register(def *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return fmt.Errorf("%w: register %s", ErrRegistryFrozen, def.image)
	}
	if _, dup := r.defs[def.image]; dup {
		return fmt.Errorf("%w: image %s registered twice", ErrInvalidDefinition, def.image)
	}
	r.defs[def.image] = def
	return nil
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Get returns the definition for an image
func (r *Registry) Get(image string) (*Definition, error) {
	if !r.frozen.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	def, ok := r.defs[image]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, image)
	}
	return def, nil
}

// Images returns registered image names in sorted order
func (r *Registry) Images() []string {
	if !r.frozen.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
