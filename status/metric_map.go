package status

import (
	"slices"
	"sync"
)

// MetricMap lazily creates one value per key and hands out stable pointers
// Owners fetch a pointer once at construction and then touch it lock-free;
// only creation and enumeration take the lock
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the value for key, creating a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	p, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p = new(T)
	m.items[key] = p
	return p
}

// Keys returns registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedKeys()
}

func (m *MetricMap[T]) sortedKeys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Range visits every value in key order; fn must not call back into m
func (m *MetricMap[T]) Range(fn func(key string, v *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.sortedKeys() {
		fn(k, m.items[k])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
