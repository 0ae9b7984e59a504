package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/listpage"
)

// listing describes one list screen: how to fetch it, the local filter and how to print it.
type listing[T any] struct {
	fetch  listpage.Fetch[T]
	filter func(T) T
	render func(io.Writer, T)
}

// show prints the list once, or every `every` until ctx is done.
func show[T any](ctx context.Context, cli *commandLine, every time.Duration, l listing[T]) error {
	page := listpage.New[T](nil)
	defer page.Close()

	for {
		snap := page.Load(ctx, l.fetch)
		if ctx.Err() != nil {
			return nil
		}
		switch {
		case snap.State != listpage.Errored:
			if every > 0 {
				fmt.Fprintf(cli.out, "\n[%s]\n", formatTime(snap.UpdatedAt))
			}
			data, _ := page.Visible(l.filter)
			l.render(cli.out, data)
		case snap.Unauthenticated:
			_ = cli.sessions.End()
			return errSessionExpired
		case every <= 0:
			return errors.New(snap.Message)
		default:
			fmt.Fprintf(cli.out, "\nerror: %s\n", snap.Message)
		}

		if every <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(every):
		}
	}
}

// mutate runs action, prints done, then re-fetches and prints the whole list.
func mutate[T any](ctx context.Context, cli *commandLine, action listpage.Action, done string, l listing[T]) error {
	page := listpage.New[T](nil)
	defer page.Close()

	var failed *core.ErrorDetail
	snap := page.Mutate(ctx, func(ctx context.Context) *core.ErrorDetail {
		failed = action(ctx)
		return failed
	}, l.fetch)
	if failed != nil {
		return cli.check(failed)
	}

	fmt.Fprintln(cli.out, done)
	if snap.State == listpage.Errored {
		if snap.Unauthenticated {
			_ = cli.sessions.End()
			return errSessionExpired
		}
		return errors.New(snap.Message)
	}
	data, _ := page.Visible(l.filter)
	l.render(cli.out, data)
	return nil
}
