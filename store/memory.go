// Package store provides challenge store implementations: an in-memory
// map for tests and single-process deployments, and a Redis-backed
// store under redisstore for everything else.
package store

import (
	"context"
	"sync"
	"time"

	"mathcaptcha/captcha"
)

type entry struct {
	ch        *captcha.Challenge
	expiresAt time.Time
}

// Memory is a mutex-guarded in-memory challenge store with absolute
// expiration checked on read. Expired entries are dropped lazily on
// access; Purge sweeps the rest.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

var _ captcha.Store = (*Memory)(nil)

// Set stores the challenge under key until expiresAt.
func (m *Memory) Set(_ context.Context, key string, ch *captcha.Challenge, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{ch: ch, expiresAt: expiresAt}
	return nil
}

// Get returns the stored challenge, or captcha.ErrNotFound when the key
// is absent or its deadline has passed. The two cases are deliberately
// indistinguishable.
func (m *Memory) Get(_ context.Context, key string) (*captcha.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, captcha.ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, captcha.ErrNotFound
	}
	return e.ch, nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Purge drops all expired entries and reports how many were removed.
func (m *Memory) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
