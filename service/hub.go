package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrUnknownDep = errors.New("dependency not registered")
	ErrCycle      = errors.New("circular service dependency")
)

// Hub starts services in dependency order and stops them in reverse
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	sorted   []string
	started  []string
	logger   zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		services: make(map[string]Service),
		logger:   logger.With().Str("component", "services").Logger(),
	}
}

// Register adds a service; the start order is recomputed on the next StartAll
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = svc
	h.sorted = nil
	return nil
}

// Get retrieves a service by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[name]
	return svc, ok
}

// MustGet retrieves a service and casts to type T
// Panics if the service is missing or of another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("service not found: %s", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("service %s: type mismatch, got %T", name, svc))
	}
	return typed
}

// StartAll starts every service in dependency order
// On failure, already started services are stopped in reverse order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		order, err := h.topologicalSort()
		if err != nil {
			return err
		}
		h.sorted = order
	}

	h.started = nil
	for _, name := range h.sorted {
		if err := h.services[name].Start(); err != nil {
			h.stopStartedLocked()
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.started = append(h.started, name)
		h.logger.Debug().Str("service", name).Msg("started")
	}
	return nil
}

// StopAll stops started services in reverse order; errors are logged, not returned
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopStartedLocked()
}

func (h *Hub) stopStartedLocked() {
	for i := len(h.started) - 1; i >= 0; i-- {
		name := h.started[i]
		if err := h.services[name].Stop(); err != nil {
			h.logger.Error().Err(err).Str("service", name).Msg("stop failed")
		}
	}
	h.started = nil
}

// Order returns the start order, computing it if needed
func (h *Hub) Order() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sorted == nil {
		order, err := h.topologicalSort()
		if err != nil {
			return nil, err
		}
		h.sorted = order
	}
	return slices.Clone(h.sorted), nil
}

// topologicalSort orders services with Kahn's algorithm; ties break by name
func (h *Hub) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)

	for name := range h.services {
		inDegree[name] = 0
	}
	for name, svc := range h.services {
		for _, dep := range svc.Dependencies() {
			if _, exists := h.services[dep]; !exists {
				return nil, fmt.Errorf("%w: %s needs %s", ErrUnknownDep, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	slices.Sort(queue)

	result := make([]string, 0, len(h.services))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		next := dependents[name]
		slices.Sort(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(h.services) {
		return nil, ErrCycle
	}
	return result, nil
}
