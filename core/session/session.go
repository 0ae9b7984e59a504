// Package session holds the authenticated state of a console user: the bearer token and who it belongs to.
package session

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrNoSession = errors.New("not logged in")
	ErrExpired   = errors.New("session expired")
)

type (
	User struct {
		Username string `json:"username" yaml:"username"`
		Role     string `json:"role" yaml:"role"`
	}

	Session struct {
		Token     string    `json:"token" yaml:"token"`
		User      User      `json:"user" yaml:"user"`
		ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"` // zero: unknown
	}

	// Claims are the session token claims the console cares about.
	Claims struct {
		jwt.StandardClaims
		Username string `json:"username,omitempty"`
		Role     string `json:"role,omitempty"`
	}
)

// FromToken builds a Session from an issued token. The token is read, not verified:
// the backend is the only authority on its validity. Opaque (non-JWT) tokens are kept as-is.
func FromToken(token string, usr User) Session {
	sess := Session{Token: token, User: usr}

	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return sess
	}
	if sess.User.Username == "" {
		sess.User.Username = claims.Username
		if sess.User.Username == "" {
			sess.User.Username = claims.Subject
		}
	}
	if sess.User.Role == "" {
		sess.User.Role = claims.Role
	}
	sess.User.Role = strings.ToLower(sess.User.Role)
	if claims.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(claims.ExpiresAt, 0).UTC()
	}
	return sess
}

// Expired reports whether the token is known to be expired at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ttl returns how long the session may be kept; zero means no known expiry.
func (s Session) ttl(now time.Time) (time.Duration, error) {
	if s.ExpiresAt.IsZero() {
		return 0, nil
	}
	if s.Expired(now) {
		return 0, ErrExpired
	}
	return s.ExpiresAt.Sub(now), nil
}
