// Package keyvaluestore is an in-memory store whose entries may carry an
// expiry. Expired entries are dropped on read.
package keyvaluestore

import (
	"sync"
	"time"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

// KeyValueStore is safe for concurrent use.
type KeyValueStore interface {
	// zero expiresAt never expires
	Set(key shared.Key, value interface{}, expiresAt time.Time)
	Get(key shared.Key) (interface{}, bool)
	Delete(key shared.Key)
	Len() int
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

type keyValueStore struct {
	store sync.Map
	now   func() time.Time
}

// NewKeyValueStore uses now to judge expiry; nil means time.Now.
func NewKeyValueStore(now func() time.Time) KeyValueStore {
	if now == nil {
		now = time.Now
	}
	return &keyValueStore{now: now}
}

func (s *keyValueStore) Set(key shared.Key, value interface{}, expiresAt time.Time) {
	s.store.Store(key.ToString(), entry{value: value, expiresAt: expiresAt})
}

func (s *keyValueStore) Get(key shared.Key) (interface{}, bool) {
	result, exists := s.store.Load(key.ToString())
	if !exists {
		return nil, false
	}
	e := result.(entry)
	if s.expired(e) {
		s.store.Delete(key.ToString())
		return nil, false
	}
	return e.value, true
}

// delete value from key value store
func (s *keyValueStore) Delete(key shared.Key) {
	s.store.Delete(key.ToString())
}

// Len counts live entries.
func (s *keyValueStore) Len() int {
	count := 0
	s.store.Range(func(_, value interface{}) bool {
		if !s.expired(value.(entry)) {
			count++
		}
		return true
	})
	return count
}

func (s *keyValueStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
