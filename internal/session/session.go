// Package session owns the auth state for one program run: an explicit
// hydrate-once object, not an ambient singleton.
package session

// Store is the persistence the session depends on; satisfied by
// credstore.Store.
type Store interface {
	Save(token string) error
	Read() (string, bool)
	Clear() error
}

// State is where the session is in its lifecycle.
type State int

const (
	// Hydrating is the initial state, before the store has been read.
	Hydrating State = iota
	// Unauthenticated means hydration resolved with no token.
	Unauthenticated
	// Authenticated means a token is held.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Hydrating:
		return "hydrating"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Session holds the current token and the hydration flag. All methods are
// called from the single event loop; there is no internal locking.
type Session struct {
	store   Store
	token   string
	loading bool
}

// New returns a Session in the Hydrating state. Call Hydrate before
// consulting State.
func New(store Store) *Session {
	return &Session{store: store, loading: true}
}

// Hydrate reads the store exactly once and resolves the loading flag. It
// always completes: an empty store just resolves to Unauthenticated.
// Calling it again is a no-op.
func (s *Session) Hydrate() State {
	if !s.loading {
		return s.State()
	}
	if token, ok := s.store.Read(); ok {
		s.token = token
	}
	s.loading = false
	return s.State()
}

// Login persists the token and moves to Authenticated, whatever the prior
// state was.
func (s *Session) Login(token string) error {
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	s.loading = false
	return nil
}

// Logout clears the persisted token and moves to Unauthenticated.
func (s *Session) Logout() error {
	s.token = ""
	s.loading = false
	return s.store.Clear()
}

// State derives the current lifecycle state.
func (s *Session) State() State {
	switch {
	case s.loading:
		return Hydrating
	case s.token == "":
		return Unauthenticated
	default:
		return Authenticated
	}
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool { return s.State() == Authenticated }

// Token returns the current token, empty when unauthenticated. Wired into
// the API client as its token source.
func (s *Session) Token() (string, bool) {
	return s.token, s.token != ""
}
