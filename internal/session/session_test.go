package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store double.
type memStore struct {
	token   string
	has     bool
	readErr bool
}

func (m *memStore) Save(token string) error {
	m.token, m.has = token, true
	return nil
}

func (m *memStore) Read() (string, bool) {
	if m.readErr {
		return "", false
	}
	return m.token, m.has
}

func (m *memStore) Clear() error {
	m.token, m.has = "", false
	return nil
}

func TestInitialStateIsHydrating(t *testing.T) {
	s := New(&memStore{})
	assert.Equal(t, Hydrating, s.State())
	assert.False(t, s.Authenticated())
}

func TestHydrateEmptyStore(t *testing.T) {
	s := New(&memStore{})

	got := s.Hydrate()
	assert.Equal(t, Unauthenticated, got)
	// loading resolves exactly once and stays resolved
	assert.Equal(t, Unauthenticated, s.State())
}

func TestHydrateWithStoredToken(t *testing.T) {
	s := New(&memStore{token: "persisted", has: true})

	assert.Equal(t, Authenticated, s.Hydrate())
	token, found := s.Token()
	require.True(t, found)
	assert.Equal(t, "persisted", token)
}

func TestHydrateIsIdempotent(t *testing.T) {
	store := &memStore{}
	s := New(store)
	require.Equal(t, Unauthenticated, s.Hydrate())

	// a token saved behind the session's back is not picked up: hydration
	// reads the store exactly once
	store.token, store.has = "late", true
	assert.Equal(t, Unauthenticated, s.Hydrate())
}

func TestHydrateResolvesEvenOnUnreadableStore(t *testing.T) {
	s := New(&memStore{readErr: true})

	assert.Equal(t, Unauthenticated, s.Hydrate())
}

func TestLoginPersistsAndAuthenticates(t *testing.T) {
	store := &memStore{}
	s := New(store)
	s.Hydrate()

	require.NoError(t, s.Login("tok-1"))
	assert.Equal(t, Authenticated, s.State())

	stored, found := store.Read()
	require.True(t, found)
	assert.Equal(t, "tok-1", stored)
}

func TestLoginFromHydratingState(t *testing.T) {
	s := New(&memStore{})

	// login is valid from any prior state and resolves loading
	require.NoError(t, s.Login("tok-1"))
	assert.Equal(t, Authenticated, s.State())
}

func TestLogoutClearsStoreAndState(t *testing.T) {
	store := &memStore{}
	s := New(store)
	s.Hydrate()
	require.NoError(t, s.Login("tok-1"))

	require.NoError(t, s.Logout())
	assert.Equal(t, Unauthenticated, s.State())
	_, found := store.Read()
	assert.False(t, found)
	_, found = s.Token()
	assert.False(t, found)
}

func TestLoginSaveFailureKeepsState(t *testing.T) {
	s := New(failingStore{})
	s.Hydrate()

	err := s.Login("tok-1")
	require.Error(t, err)
	assert.Equal(t, Unauthenticated, s.State())
}

type failingStore struct{}

func (failingStore) Save(string) error { return errors.New("disk full") }

func (failingStore) Read() (string, bool) { return "", false }

func (failingStore) Clear() error { return nil }
