// Package inmemdb is the mock backend: in-memory repositories shaped like the real API answers.
package inmemdb

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/session"
	"github.com/trezcool/proctor/core/user"
)

type (
	// DB holds every mock table. Each DB is independent: tests open their own.
	DB struct {
		conf   core.MockConfig
		tokens client.TokenSource
		now    func() time.Time
		noSeed bool

		user      *table[userRow]
		course    *table[course.Course]
		classroom *table[classroom.Classroom]
		exam      *table[exam.Exam]
		audit     *table[audit.Event]
		alert     *table[alert.Alert]
		revoked   *table[string]
	}

	table[T any] struct {
		sync.RWMutex
		rows []T
	}

	userRow struct {
		user         user.User
		passwordHash []byte
	}

	Option func(*DB)
)

// WithTokenSource lets the mock know who is calling when the context carries no token.
func WithTokenSource(ts client.TokenSource) Option {
	return func(db *DB) { db.tokens = ts }
}

func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithoutSeed opens an empty DB.
func WithoutSeed() Option {
	return func(db *DB) { db.noSeed = true }
}

// Open returns a DB filled with the demo data set.
func Open(conf core.MockConfig, opts ...Option) (*DB, error) {
	db := &DB{
		conf:      conf,
		now:       time.Now,
		user:      &table[userRow]{},
		course:    &table[course.Course]{},
		classroom: &table[classroom.Classroom]{},
		exam:      &table[exam.Exam]{},
		audit:     &table[audit.Event]{},
		alert:     &table[alert.Alert]{},
		revoked:   &table[string]{},
	}
	for _, opt := range opts {
		opt(db)
	}
	if !db.noSeed {
		if err := seed(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (t *table[T]) all() []T {
	rows := make([]T, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// index returns the position of the row with id, -1 when absent. Callers hold the lock.
func (t *table[T]) index(id core.ID, idOf func(T) core.ID) int {
	for i, row := range t.rows {
		if idOf(row) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) remove(i int) {
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
}

func newID() core.ID { return core.ID(uuid.NewString()) }

func notFound(what string) error { return core.NewNotFoundError(what + " not found") }

func conflict(field, msg string) error {
	return &core.APIError{Status: http.StatusConflict, Message: msg, Fields: map[string]string{field: msg}}
}

func unauthorized(msg string) error {
	return &core.APIError{Status: http.StatusUnauthorized, Message: msg}
}

// token is the bearer token of the caller, resolved the way the HTTP client does.
func (db *DB) token(ctx context.Context) string {
	if token := client.TokenFromContext(ctx); token != "" {
		return token
	}
	if db.tokens != nil {
		return db.tokens.Token()
	}
	return ""
}

// actor names the caller in audit events.
func (db *DB) actor(ctx context.Context) string {
	if token := db.token(ctx); token != "" {
		if name := session.FromToken(token, session.User{}).User.Username; name != "" {
			return name
		}
	}
	return "system"
}

func (db *DB) record(ctx context.Context, action, target, details string) {
	db.audit.Lock()
	defer db.audit.Unlock()
	db.audit.rows = append(db.audit.rows, audit.Event{
		ID:        newID(),
		Actor:     db.actor(ctx),
		Action:    action,
		Target:    target,
		Details:   details,
		IP:        "127.0.0.1",
		CreatedAt: db.now().UTC(),
	})
}

func lowerExt(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ""
}
