package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	expiresAt time.Time // zero = no expiry
	value     V
	key       string
}

func (it *memoryItem[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Memory is an in-process Cache.
// Expired entries are dropped lazily on access and by a background sweep.
// When a capacity is set, the least recently written entry is evicted first.
type Memory[V any] struct {
	items  map[string]*list.Element
	order  *list.List // front = most recently written
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory cache and starts its sweeper.
// Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.sweepInterval > 0 {
		go m.sweep()
	}

	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}

	it := elem.Value.(*memoryItem[V])
	if it.expired(time.Now()) {
		m.remove(elem)
		return zero, ErrNotFound
	}

	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		it := elem.Value.(*memoryItem[V])
		it.value = value
		it.expiresAt = expiresAt
		m.order.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.order.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.order.PushFront(&memoryItem[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

func (m *Memory[V]) Has(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		return false, nil
	}
	return true, nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) sweep() {
	ticker := time.NewTicker(m.opts.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for elem := m.order.Back(); elem != nil; {
				prev := elem.Prev()
				if elem.Value.(*memoryItem[V]).expired(now) {
					m.remove(elem)
				}
				elem = prev
			}
			m.mu.Unlock()
		}
	}
}

// remove deletes elem. Caller must hold m.mu.
func (m *Memory[V]) remove(elem *list.Element) {
	m.order.Remove(elem)
	delete(m.items, elem.Value.(*memoryItem[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
