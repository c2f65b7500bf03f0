package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/podwatch/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore()
	key := domain.SessionKey{ChatID: 1, UserID: 2}

	_, ok := store.Get(key)
	assert.False(t, ok)

	store.Put(domain.Session{Key: key, Step: domain.StepAwaitTemplate})

	session, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, domain.StepAwaitTemplate, session.Step)

	store.Delete(key)
	_, ok = store.Get(key)
	assert.False(t, ok)
}

func TestSessionStorePutReplaces(t *testing.T) {
	store := NewSessionStore()
	key := domain.SessionKey{ChatID: 1, UserID: 2}

	store.Put(domain.Session{Key: key, Step: domain.StepAwaitTemplate})
	store.Put(domain.Session{Key: key, Step: domain.StepAwaitConfirm})

	session, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, domain.StepAwaitConfirm, session.Step)
}

func TestSessionStoreKeysAreIndependent(t *testing.T) {
	store := NewSessionStore()
	a := domain.SessionKey{ChatID: 1, UserID: 2}
	b := domain.SessionKey{ChatID: 1, UserID: 3}

	store.Put(domain.Session{Key: a, Step: domain.StepAwaitGPU})
	store.Put(domain.Session{Key: b, Step: domain.StepAwaitVolume})
	store.Delete(a)

	_, ok := store.Get(a)
	assert.False(t, ok)
	session, ok := store.Get(b)
	require.True(t, ok)
	assert.Equal(t, domain.StepAwaitVolume, session.Step)
}

func TestSessionStoreConcurrentAccess(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			key := domain.SessionKey{ChatID: n, UserID: n}
			store.Put(domain.Session{Key: key, Step: domain.StepAwaitTemplate})
			store.Get(key)
			store.Delete(key)
		}(int64(i))
	}
	wg.Wait()
}
