package shared

import "sync"

// Map is a key/value map safe for concurrent use.
type Map[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewMap returns an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

// Set stores v under k.
func (m *Map[K, V]) Set(k K, v V) {
	m.mu.Lock()
	m.items[k] = v
	m.mu.Unlock()
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[k]
	return v, ok
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[k]
	delete(m.items, k)
	return ok
}

// Update replaces the value under k with fn(old, present) as a single
// atomic step and returns the new value.
func (m *Map[K, V]) Update(k K, fn func(old V, present bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[k]
	v := fn(old, ok)
	m.items[k] = v
	return v
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Keys returns the keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]K, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a copy of the current contents.
func (m *Map[K, V]) Snapshot() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make(map[K]V, len(m.items))
	for k, v := range m.items {
		ret[k] = v
	}
	return ret
}
