package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskdeck/internal/config"
	"github.com/idilsaglam/taskdeck/internal/session"
)

// wedgedStore fails on demand, standing in for a full or read-only disk.
type wedgedStore struct {
	token    string
	saveErr  error
	clearErr error
}

func (s *wedgedStore) Save(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *wedgedStore) Read() (string, bool) {
	return s.token, s.token != ""
}

func (s *wedgedStore) Clear() error {
	return s.clearErr
}

func newTestApp(st session.Store) (App, *session.Session) {
	sess := session.New(st)
	sess.Hydrate()
	return NewApp(config.Default(), sess, nil), sess
}

func TestLoginPersistFailureKeepsFormUsable(t *testing.T) {
	a, sess := newTestApp(&wedgedStore{saveErr: errors.New("disk full")})
	a.route = routeLogin
	_ = a.login.focusCmd()
	a.login.busy = true // a submit is in flight

	got, _ := a.Update(loginDoneMsg{token: "tok"})
	a = got.(App)

	assert.Equal(t, routeLogin, a.route)
	assert.False(t, sess.Authenticated())
	assert.Contains(t, a.login.err, "disk full")
	require.False(t, a.login.busy, "a failed persist must unlock the form")

	// the user can keep typing and retry
	got, _ = a.Update(keyRune('x'))
	a = got.(App)
	assert.Equal(t, "x", a.login.email.Value())
}

func TestLoginPersistSuccessEntersDashboard(t *testing.T) {
	st := &wedgedStore{}
	a, sess := newTestApp(st)
	a.route = routeLogin

	got, _ := a.Update(loginDoneMsg{token: "tok"})
	a = got.(App)

	assert.Equal(t, routeDash, a.route)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok", st.token)
}

func TestLogoutClearFailureIsSurfaced(t *testing.T) {
	a, sess := newTestApp(&wedgedStore{token: "tok", clearErr: errors.New("permission denied")})
	a.route = routeDash

	got, _ := a.Update(loggedOutMsg{})
	a = got.(App)

	assert.Equal(t, routeLogin, a.route)
	assert.False(t, sess.Authenticated(), "the in-memory session still ends")
	assert.Contains(t, a.login.err, "permission denied")
	assert.Empty(t, a.login.note)
}

func TestLogoutShowsNote(t *testing.T) {
	a, _ := newTestApp(&wedgedStore{token: "tok"})
	a.route = routeDash

	got, _ := a.Update(loggedOutMsg{})
	a = got.(App)

	assert.Equal(t, routeLogin, a.route)
	assert.Equal(t, "Logged out.", a.login.note)
	assert.Empty(t, a.login.err)
}
