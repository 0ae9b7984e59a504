package session

import (
	"github.com/trezcool/proctor/core"
)

// Manager owns the session lifecycle. Renew is the only way a token gets persisted:
// it is called by the login and refresh paths, never by the generic HTTP client.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Renew persists sess as the current session.
func (m *Manager) Renew(sess Session) error {
	return m.store.Save(sess)
}

// Current returns the current session, ErrNoSession when logged out.
func (m *Manager) Current() (Session, error) {
	return m.store.Load()
}

// Token implements client.TokenSource.
func (m *Manager) Token() string {
	sess, err := m.store.Load()
	if err != nil {
		return ""
	}
	return sess.Token
}

// Forget destroys the current session. The token is ignored: a Manager holds a single session.
func (m *Manager) Forget(_ string) error {
	return m.store.Clear()
}

// End destroys the current session.
func (m *Manager) End() error {
	return m.store.Clear()
}

// Check ends the session when err says the backend no longer accepts the token.
// It reports whether err was an authentication failure, and any error clearing the store.
func (m *Manager) Check(err error) (bool, error) {
	if !core.IsUnauthorized(err) {
		return false, nil
	}
	return true, m.store.Clear()
}
