package cache

import (
	"container/list"
	"sync"
	"time"
)

// Memory is an in-memory LRU cache with per-entry TTL. It is safe for
// concurrent use.
type Memory[V any] struct {
	maxSize    int
	defaultTTL time.Duration
	items      map[string]*list.Element
	lru        *list.List
	now        func() time.Time
	hits       int64
	misses     int64
	mu         sync.Mutex
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewMemory creates a cache holding at most maxSize entries. Entries stored
// with a zero TTL use defaultTTL.
func NewMemory[V any](maxSize int, defaultTTL time.Duration) *Memory[V] {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Memory[V]{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// Get returns a live entry and marks it most recently used.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	element, exists := m.items[key]
	if !exists {
		m.misses++
		return zero, false
	}

	item := element.Value.(*entry[V])
	if m.now().After(item.expiresAt) {
		m.removeElement(element)
		m.misses++
		return zero, false
	}

	m.lru.MoveToFront(element)
	m.hits++
	return item.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	item := &entry[V]{key: key, value: value, expiresAt: m.now().Add(ttl)}

	if element, exists := m.items[key]; exists {
		element.Value = item
		m.lru.MoveToFront(element)
		return
	}

	m.items[key] = m.lru.PushFront(item)
	for len(m.items) > m.maxSize {
		if oldest := m.lru.Back(); oldest != nil {
			m.removeElement(oldest)
		}
	}
}

// Delete removes key if present.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if element, exists := m.items[key]; exists {
		m.removeElement(element)
	}
}

// Clean removes expired entries and returns how many were dropped.
func (m *Memory[V]) Clean() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var expired []*list.Element
	for element := m.lru.Back(); element != nil; element = element.Prev() {
		if now.After(element.Value.(*entry[V]).expiresAt) {
			expired = append(expired, element)
		}
	}
	for _, element := range expired {
		m.removeElement(element)
	}
	return len(expired)
}

// Stats contains cache statistics
type Stats struct {
	Items   int   `json:"items"`
	MaxSize int   `json:"max_size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns a snapshot of cache counters.
func (m *Memory[V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Items:   len(m.items),
		MaxSize: m.maxSize,
		Hits:    m.hits,
		Misses:  m.misses,
	}
}

// removeElement must be called with mu held.
func (m *Memory[V]) removeElement(element *list.Element) {
	delete(m.items, element.Value.(*entry[V]).key)
	m.lru.Remove(element)
}
