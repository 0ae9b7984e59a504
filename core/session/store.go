package session

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var nowFunc = time.Now // mockable

// Store keeps the current session of a console.
type Store interface {
	Load() (Session, error) // ErrNoSession when there is none
	Save(Session) error
	Clear() error
}

const memoryKey = "session"

// MemoryStore keeps the session in memory until its token expires.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, time.Minute)}
}

func (s *MemoryStore) Load() (Session, error) {
	if v, ok := s.cache.Get(memoryKey); ok {
		return v.(Session), nil
	}
	return Session{}, ErrNoSession
}

func (s *MemoryStore) Save(sess Session) error {
	ttl, err := sess.ttl(nowFunc())
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = cache.NoExpiration
	}
	s.cache.Set(memoryKey, sess, ttl)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.cache.Delete(memoryKey)
	return nil
}

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, errors.Wrap(err, "reading session file")
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, errors.Wrap(err, "decoding session file")
	}
	if sess.Token == "" {
		return Session{}, ErrNoSession
	}
	if sess.Expired(nowFunc()) {
		return Session{}, ErrExpired
	}
	return sess, nil
}

func (s *FileStore) Save(sess Session) error {
	if _, err := sess.ttl(nowFunc()); err != nil {
		return err
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o600), "writing session file")
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
