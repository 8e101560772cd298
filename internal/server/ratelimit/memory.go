package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	window Window
	ttl    time.Duration
}

// MemoryStore keeps windows in process memory. Counts reset when the process
// restarts and are not shared between instances.
type MemoryStore struct {
	entries       map[string]*memoryEntry
	mu            sync.Mutex
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval starts
// a goroutine that evicts expired windows; Close stops it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]*memoryEntry),
	}

	if cleanupInterval > 0 {
		store.cleanupTicker = time.NewTicker(cleanupInterval)
		store.cleanupStop = make(chan struct{})
		go store.cleanup()
	}

	return store
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists || now.Sub(entry.window.Start) > window {
		entry = &memoryEntry{window: Window{Count: 1, Start: now}, ttl: window}
		s.entries[key] = entry
		return entry.window, nil
	}

	entry.window.Count++
	entry.ttl = window
	return entry.window, nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// cleanup evicts expired windows on every tick.
func (s *MemoryStore) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.evictExpired(time.Now())
		case <-s.cleanupStop:
			return
		}
	}
}

// evictExpired removes windows that a Hit at now would replace anyway.
func (s *MemoryStore) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if now.Sub(entry.window.Start) > entry.ttl {
			delete(s.entries, key)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
		if s.cleanupStop != nil {
			close(s.cleanupStop)
		}
	})
	return nil
}
