package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/procurement"
)

const cleanupInterval = 5 * time.Minute

// entry is a stored value with its expiration; a zero expiresAt never expires
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// expiringMap is a mutex-guarded map whose entries expire after ttl. A
// background goroutine drops expired entries until Close is called.
type expiringMap[V any] struct {
	mu        sync.RWMutex
	entries   map[string]entry[V]
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newExpiringMap[V any](ttl time.Duration) *expiringMap[V] {
	m := &expiringMap[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.cleanupLoop()
	return m
}

func (m *expiringMap[V]) get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || e.expired(m.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *expiringMap[V]) set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry[V]{value: value}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[key] = e
}

// update applies fn to the live value under key and stores the result
func (m *expiringMap[V]) update(key string, fn func(V, bool) V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if ok && e.expired(m.now()) {
		ok = false
	}
	next := entry[V]{value: fn(e.value, ok)}
	if m.ttl > 0 {
		next.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[key] = next
}

func (m *expiringMap[V]) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Size returns the number of entries (for testing/monitoring)
func (m *expiringMap[V]) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (m *expiringMap[V]) Close() error {
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
	})
	return nil
}

func (m *expiringMap[V]) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *expiringMap[V]) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

// InMemoryPreferenceStore keeps preferences in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryPreferenceStore struct {
	*expiringMap[string]
}

// NewInMemoryPreferenceStore creates a preference store whose entries live for ttl (0 = forever)
func NewInMemoryPreferenceStore(ttl time.Duration) *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{expiringMap: newExpiringMap[string](ttl)}
}

// BusinessName returns the stored name, or "" if none
func (s *InMemoryPreferenceStore) BusinessName(_ context.Context, email string) (string, error) {
	name, _ := s.get(email)
	return name, nil
}

// SetBusinessName stores name for email; an empty name clears it
func (s *InMemoryPreferenceStore) SetBusinessName(_ context.Context, email, name string) error {
	if name == "" {
		s.delete(email)
		return nil
	}
	s.set(email, name)
	return nil
}

// Clear removes every preference of email
func (s *InMemoryPreferenceStore) Clear(_ context.Context, email string) error {
	s.delete(email)
	return nil
}

var _ identity.PreferenceStore = (*InMemoryPreferenceStore)(nil)

// InMemoryDecisionStore keeps procurement decisions in process memory
type InMemoryDecisionStore struct {
	*expiringMap[map[string]procurement.Decision]
}

// NewInMemoryDecisionStore creates a decision store whose per-identity sets live for ttl (0 = forever)
func NewInMemoryDecisionStore(ttl time.Duration) *InMemoryDecisionStore {
	return &InMemoryDecisionStore{expiringMap: newExpiringMap[map[string]procurement.Decision](ttl)}
}

// Put records d for email, replacing an earlier decision on the same request
func (s *InMemoryDecisionStore) Put(_ context.Context, email string, d procurement.Decision) error {
	s.update(email, func(cur map[string]procurement.Decision, ok bool) map[string]procurement.Decision {
		next := make(map[string]procurement.Decision, len(cur)+1)
		if ok {
			for k, v := range cur {
				next[k] = v
			}
		}
		next[d.RequestID] = d
		return next
	})
	return nil
}

// All returns a copy of the decisions of email
func (s *InMemoryDecisionStore) All(_ context.Context, email string) (map[string]procurement.Decision, error) {
	cur, _ := s.get(email)
	out := make(map[string]procurement.Decision, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out, nil
}

// Forget drops the decisions on requestIDs
func (s *InMemoryDecisionStore) Forget(_ context.Context, email string, requestIDs ...string) error {
	if len(requestIDs) == 0 {
		return nil
	}
	s.update(email, func(cur map[string]procurement.Decision, _ bool) map[string]procurement.Decision {
		next := make(map[string]procurement.Decision, len(cur))
		for k, v := range cur {
			next[k] = v
		}
		for _, id := range requestIDs {
			delete(next, id)
		}
		return next
	})
	return nil
}

var _ procurement.DecisionStore = (*InMemoryDecisionStore)(nil)
