package utils

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Store is a concurrency-safe key/value cache.
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Len() int
}

// MapStore never evicts; entries live until Delete or process exit.
type MapStore[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewMapStore[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{items: make(map[K]V)}
}

func (s *MapStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MapStore[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

func (s *MapStore[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *MapStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// LRUStore keeps at most size entries, evicting the least recently used.
type LRUStore[K comparable, V any] struct {
	lruCache *lru.Cache[K, V]
}

func NewLRUStore[K comparable, V any](size int) (*LRUStore[K, V], error) {
	l, err := lru.New[K, V](size)
	if err != nil {
		return nil, errors.Wrapf(err, "utils:NewLRUStore: size %d", size)
	}
	return &LRUStore[K, V]{lruCache: l}, nil
}

func (s *LRUStore[K, V]) Get(key K) (V, bool) {
	return s.lruCache.Get(key)
}

func (s *LRUStore[K, V]) Set(key K, value V) {
	s.lruCache.Add(key, value)
}

func (s *LRUStore[K, V]) Delete(key K) {
	s.lruCache.Remove(key)
}

func (s *LRUStore[K, V]) Len() int {
	return s.lruCache.Len()
}
