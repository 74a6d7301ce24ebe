package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	assert.False(t, store.Has(1))

	got := store.Set(1, model.Session("a=b"))
	assert.Equal(t, model.Session("a=b"), got)
	assert.True(t, store.Has(1))
	assert.False(t, store.Has(2), "sessions are keyed by operator")

	session, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.Session("a=b"), session)

	store.Clear(1)
	assert.False(t, store.Has(1))
}

func TestSessionStoreEmptySetClears(t *testing.T) {
	store := NewSessionStore()
	store.Set(1, "a=b")
	store.Set(1, "")
	assert.False(t, store.Has(1))
}

func TestSessionStoreConcurrentAccess(t *testing.T) {
	store := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, "c=d")
			store.Has(id)
			store.Clear(id)
		}(int64(i))
	}
	wg.Wait()
	for i := 0; i < 50; i++ {
		assert.False(t, store.Has(int64(i)))
	}
}
