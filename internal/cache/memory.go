package cache

import (
	"container/list"
	"sync"
)

// Memory is an in-process LRU cache bounded by total clip size.
type Memory struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	stats    Stats
}

type memoryEntry struct {
	key   string
	audio []byte
}

// NewMemory creates a Memory cache holding at most capacity bytes.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the clip for key and marks it recently used.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		m.stats.Misses++
		return nil, false
	}
	m.order.MoveToFront(el)
	m.stats.Hits++
	return el.Value.(*memoryEntry).audio, true
}

// Put stores audio under key, evicting least recently used clips to make
// room.
func (m *Memory) Put(key string, audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(audio))
	if n > m.capacity {
		return ErrItemTooLarge
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry)
		m.size += n - int64(len(e.audio))
		e.audio = audio
		m.order.MoveToFront(el)
	} else {
		m.items[key] = m.order.PushFront(&memoryEntry{key: key, audio: audio})
		m.size += n
	}

	for m.size > m.capacity {
		back := m.order.Back()
		if back == nil || back.Value.(*memoryEntry).key == key {
			break
		}
		m.remove(back)
		m.stats.Evictions++
	}
	return nil
}

// Delete removes key if present.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
}

// Clear drops every clip. Counters are kept.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*list.Element)
	m.order.Init()
	m.size = 0
	return nil
}

// Contains reports whether key is cached without touching the LRU order.
func (m *Memory) Contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

// Stats returns a snapshot of the cache counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Capacity = m.capacity
	s.Size = m.size
	s.Items = len(m.items)
	return s
}

// remove must be called with mu held.
func (m *Memory) remove(el *list.Element) {
	e := m.order.Remove(el).(*memoryEntry)
	delete(m.items, e.key)
	m.size -= int64(len(e.audio))
}
