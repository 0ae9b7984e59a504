// Package listpage holds the local state of a list screen: what was last fetched,
// whether a fetch is in flight and the last failure.
package listpage

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/proctor/core"
)

type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Loaded  State = "loaded"
	Errored State = "errored"
)

const fallbackMessage = "something went wrong, please try again"

type (
	// Fetch loads the whole list.
	Fetch[T any] func(ctx context.Context) core.Result[T]

	// Action is a mutating call; a nil detail means it succeeded.
	Action func(ctx context.Context) *core.ErrorDetail

	Snapshot[T any] struct {
		State State
		Data  T
		// Message is set in the Errored state only.
		Message string
		// Unauthenticated is set when the failure means the session is gone.
		Unauthenticated bool
		UpdatedAt       time.Time
	}

	Page[T any] struct {
		mu       sync.Mutex
		snap     Snapshot[T]
		closed   bool
		onChange func(Snapshot[T])
	}
)

var nowFunc = time.Now // mockable

// New returns an idle page. onChange, if not nil, is called after every state change of a live page.
func New[T any](onChange func(Snapshot[T])) *Page[T] {
	return &Page[T]{snap: Snapshot[T]{State: Idle}, onChange: onChange}
}

func (p *Page[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Close discards the page. Calls still in flight complete but their results are dropped.
func (p *Page[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Load fetches the list: loading, then loaded or errored. Overlapping loads are not ordered,
// the last one to complete wins.
func (p *Page[T]) Load(ctx context.Context, fetch Fetch[T]) Snapshot[T] {
	p.set(func(s *Snapshot[T]) {
		s.State = Loading
		s.Message = ""
		s.Unauthenticated = false
	})
	res := fetch(ctx)
	return p.settle(res.Detail, res.Data, res.OK)
}

// Mutate runs action then re-fetches the whole list. The list is never patched locally.
// A failed action leaves the previous data in place and moves to errored.
func (p *Page[T]) Mutate(ctx context.Context, action Action, fetch Fetch[T]) Snapshot[T] {
	p.set(func(s *Snapshot[T]) {
		s.State = Loading
		s.Message = ""
		s.Unauthenticated = false
	})
	if detail := action(ctx); detail != nil {
		var zero T
		return p.settle(detail, zero, false)
	}
	res := fetch(ctx)
	return p.settle(res.Detail, res.Data, res.OK)
}

// Fail moves the page to errored, whatever its state.
func (p *Page[T]) Fail(detail *core.ErrorDetail) Snapshot[T] {
	var zero T
	return p.settle(detail, zero, false)
}

// Visible applies a pure filter to the loaded data. It reports false when nothing was loaded yet.
func (p *Page[T]) Visible(filter func(T) T) (T, bool) {
	snap := p.Snapshot()
	if snap.UpdatedAt.IsZero() {
		var zero T
		return zero, false
	}
	if filter == nil {
		return snap.Data, true
	}
	return filter(snap.Data), true
}

func (p *Page[T]) settle(detail *core.ErrorDetail, data T, ok bool) Snapshot[T] {
	return p.set(func(s *Snapshot[T]) {
		if ok {
			s.State = Loaded
			s.Data = data
			s.UpdatedAt = nowFunc()
			return
		}
		s.State = Errored
		s.Message = fallbackMessage
		if detail != nil {
			if detail.Message != "" {
				s.Message = detail.Message
			}
			s.Unauthenticated = detail.Unauthenticated()
		}
	})
}

func (p *Page[T]) set(update func(s *Snapshot[T])) Snapshot[T] {
	p.mu.Lock()
	if p.closed {
		snap := p.snap
		p.mu.Unlock()
		return snap
	}
	update(&p.snap)
	snap := p.snap
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange(snap)
	}
	return snap
}
