package listpage

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/core"
)

func okFetch(items ...string) Fetch[[]string] {
	return func(context.Context) core.Result[[]string] { return core.Ok(items) }
}

func failFetch(detail *core.ErrorDetail) Fetch[[]string] {
	return func(context.Context) core.Result[[]string] {
		return core.Result[[]string]{Kind: core.KindError, Detail: detail}
	}
}

func TestPage_Load(t *testing.T) {
	var states []State
	page := New(func(s Snapshot[[]string]) { states = append(states, s.State) })
	assert.Equal(t, Idle, page.Snapshot().State)

	snap := page.Load(context.Background(), okFetch("a", "b"))
	assert.Equal(t, Loaded, snap.State)
	assert.Equal(t, []string{"a", "b"}, snap.Data)
	assert.Equal(t, []State{Loading, Loaded}, states)
}

func TestPage_Load_errored(t *testing.T) {
	tests := []struct {
		name     string
		detail   *core.ErrorDetail
		wantMsg  string
		wantAuth bool
	}{
		{name: "api", detail: &core.ErrorDetail{Kind: core.ErrAPI, Status: 500, Message: "Internal Server Error"}, wantMsg: "Internal Server Error"},
		{name: "unauthenticated", detail: &core.ErrorDetail{Kind: core.ErrAPI, Status: http.StatusUnauthorized, Message: "token expired"}, wantMsg: "token expired", wantAuth: true},
		{name: "no detail", detail: nil, wantMsg: fallbackMessage},
		{name: "blank message", detail: &core.ErrorDetail{Kind: core.ErrUnexpected}, wantMsg: fallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := New[[]string](nil)
			page.Load(context.Background(), okFetch("kept"))

			snap := page.Load(context.Background(), failFetch(tt.detail))
			assert.Equal(t, Errored, snap.State)
			assert.Equal(t, tt.wantMsg, snap.Message)
			assert.Equal(t, tt.wantAuth, snap.Unauthenticated)
			assert.Equal(t, []string{"kept"}, snap.Data)

			snap = page.Load(context.Background(), okFetch("again"))
			assert.Equal(t, Loaded, snap.State)
			assert.Empty(t, snap.Message)
			assert.False(t, snap.Unauthenticated)
		})
	}
}

func TestPage_Mutate_refetches(t *testing.T) {
	items := []string{"a", "b"}
	fetches := 0
	fetch := func(context.Context) core.Result[[]string] {
		fetches++
		return core.Ok(append([]string(nil), items...))
	}

	page := New[[]string](nil)
	page.Load(context.Background(), fetch)

	snap := page.Mutate(context.Background(), func(context.Context) *core.ErrorDetail {
		items = items[1:]
		return nil
	}, fetch)
	assert.Equal(t, Loaded, snap.State)
	assert.Equal(t, []string{"b"}, snap.Data)
	assert.Equal(t, 2, fetches)

	snap = page.Mutate(context.Background(), func(context.Context) *core.ErrorDetail {
		return &core.ErrorDetail{Kind: core.ErrValidation, Message: "please correct the highlighted fields"}
	}, fetch)
	assert.Equal(t, Errored, snap.State)
	assert.Equal(t, "please correct the highlighted fields", snap.Message)
	assert.Equal(t, []string{"b"}, snap.Data)
	assert.Equal(t, 2, fetches, "failed actions are not followed by a fetch")
}

func TestPage_Close_dropsInFlightResults(t *testing.T) {
	page := New[[]string](nil)
	release := make(chan struct{})
	done := make(chan Snapshot[[]string])

	go func() {
		done <- page.Load(context.Background(), func(context.Context) core.Result[[]string] {
			<-release
			return core.Ok([]string{"late"})
		})
	}()

	require.Eventually(t, func() bool { return page.Snapshot().State == Loading }, time.Second, time.Millisecond)
	page.Close()
	close(release)

	snap := <-done
	assert.Equal(t, Loading, snap.State)
	assert.Nil(t, snap.Data)
}

func TestPage_Visible(t *testing.T) {
	page := New[[]string](nil)
	_, ok := page.Visible(nil)
	assert.False(t, ok)

	page.Load(context.Background(), okFetch("apple", "banana", "avocado"))
	got, ok := page.Visible(func(items []string) []string {
		return core.FilterSlice(items, func(s string) bool { return s[0] == 'a' })
	})
	require.True(t, ok)
	assert.Equal(t, []string{"apple", "avocado"}, got)
	assert.Len(t, page.Snapshot().Data, 3)
}

func TestPage_Fail(t *testing.T) {
	page := New[[]string](nil)
	snap := page.Fail(&core.ErrorDetail{Kind: core.ErrTransport, Message: "could not reach the server"})
	assert.Equal(t, Errored, snap.State)
	assert.Equal(t, "could not reach the server", snap.Message)
}
