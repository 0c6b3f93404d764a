package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func entrySize(key string, e memoryEntry) int64 {
	return int64(len(key) + len(e.value))
}

// MemoryStore は件数とバイト数の両方で上限を持つLRU。
// 期限切れは読み出し時に消す。
type MemoryStore struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[string, memoryEntry]
	maxBytes int64
	bytes    int64
	now      func() time.Time
}

func NewMemoryStore(maxEntries int, maxBytes int64) (*MemoryStore, error) {
	s := &MemoryStore{
		maxBytes: maxBytes,
		now:      time.Now,
	}

	l, err := simplelru.NewLRU[string, memoryEntry](maxEntries, func(key string, e memoryEntry) {
		s.bytes -= entrySize(key, e)
	})
	if err != nil {
		return nil, err
	}
	s.lru = l

	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	size := entrySize(key, e)
	if s.maxBytes > 0 && size > s.maxBytes {
		return ErrValueTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 上書きはevictコールバックが呼ばれないので先に消す
	s.lru.Remove(key)
	s.lru.Add(key, e)
	s.bytes += size

	for s.maxBytes > 0 && s.bytes > s.maxBytes {
		if _, _, ok := s.lru.RemoveOldest(); !ok {
			break
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Remove(key)
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, k := range s.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.lru.Remove(k)
			n++
		}
	}
	return n, nil
}

// 件数
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// 概算の使用バイト数
func (s *MemoryStore) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}
