package keylock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyLock(t *testing.T) {
	t.Run("serializes access per key", func(t *testing.T) {
		kl := New()
		key := uuid.New()
		counter := 0

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				kl.Lock(key)
				counter++
				kl.Unlock(key)
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, counter)
	})

	t.Run("LockAll collapses duplicate keys", func(t *testing.T) {
		kl := New()
		key := uuid.New()

		// Would deadlock if the same key were locked twice.
		release := kl.LockAll([]uuid.UUID{key, key, key})
		release()

		kl.Lock(key)
		kl.Unlock(key)
	})

	t.Run("overlapping multi-key acquisitions do not deadlock", func(t *testing.T) {
		kl := New()
		a, b, c := uuid.New(), uuid.New(), uuid.New()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				release := kl.LockAll([]uuid.UUID{a, b, c})
				release()
			}()
			go func() {
				defer wg.Done()
				release := kl.LockAll([]uuid.UUID{c, a})
				release()
			}()
		}
		wg.Wait()
	})
}
