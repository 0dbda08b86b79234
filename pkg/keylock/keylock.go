package keylock

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// KeyLock provides one mutex per key, created on demand. The checkout flow
// uses it to serialize all mutations on one medicine's batch set so a
// deduction plan cannot be invalidated between planning and commit.
type KeyLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New creates an empty KeyLock
func New() *KeyLock {
	return &KeyLock{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *KeyLock) get(key uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for one key.
func (k *KeyLock) Lock(key uuid.UUID) {
	k.get(key).Lock()
}

// Unlock releases the mutex for one key.
func (k *KeyLock) Unlock(key uuid.UUID) {
	k.get(key).Unlock()
}

// LockAll acquires the mutexes for every key in a fixed global order
// (sorted by id) so two overlapping carts can never deadlock. Duplicate
// keys are collapsed. It returns the release function.
func (k *KeyLock) LockAll(keys []uuid.UUID) func() {
	unique := make(map[uuid.UUID]struct{}, len(keys))
	for _, key := range keys {
		unique[key] = struct{}{}
	}

	ordered := make([]uuid.UUID, 0, len(unique))
	for key := range unique {
		ordered = append(ordered, key)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})

	for _, key := range ordered {
		k.Lock(key)
	}

	return func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			k.Unlock(ordered[i])
		}
	}
}
