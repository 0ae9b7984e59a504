package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Registry tracks many browser sessions by token, for the dashboard gateway.
type Registry struct {
	cache *cache.Cache
}

func NewRegistry(cleanupInterval time.Duration) *Registry {
	return &Registry{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (r *Registry) Put(sess Session) error {
	ttl, err := sess.ttl(nowFunc())
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = cache.NoExpiration
	}
	r.cache.Set(sess.Token, sess, ttl)
	return nil
}

// Renew registers a session issued by a login or refresh call.
func (r *Registry) Renew(sess Session) error { return r.Put(sess) }

// Forget drops a browser session.
func (r *Registry) Forget(token string) error {
	r.Delete(token)
	return nil
}

func (r *Registry) Get(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	v, ok := r.cache.Get(token)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

func (r *Registry) Delete(token string) {
	r.cache.Delete(token)
}
