package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/session"
)

func (cli *commandLine) login(ctx context.Context, fs *flag.FlagSet, args []string) error {
	username := fs.String("username", "", "username or email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *username); err != nil {
		return err
	}
	pwd, err := cli.readPassword("Enter password: ")
	if err != nil {
		return err
	}

	res := cli.svcs.Auth.Login(ctx, auth.LoginRequest{Username: *username, Password: pwd})
	if !res.OK {
		return cli.check(res.Detail)
	}
	sess := res.Data
	fmt.Fprintf(cli.out, "Logged in as %s (%s).\n", sess.User.Username, sess.User.Role)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(cli.out, "Session expires at %s.\n", formatTime(sess.ExpiresAt))
	}
	return nil
}

func (cli *commandLine) logout(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := cli.sessions.Current()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cli.out, "Not logged in.")
			return nil
		}
		return err
	}
	res := cli.svcs.Auth.Logout(client.ContextWithToken(ctx, sess.Token), sess.Token)
	if !res.OK {
		return cli.check(res.Detail)
	}
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) whoami(_ context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := cli.sessions.Current()
	if err != nil {
		return err
	}
	if sess.Expired(time.Now()) {
		_ = cli.sessions.End()
		return errSessionExpired
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", sess.User.Username, sess.User.Role)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(cli.out, "Session expires at %s.\n", formatTime(sess.ExpiresAt))
	}
	return nil
}

func (cli *commandLine) refresh(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	res := cli.svcs.Auth.Refresh(ctx)
	if !res.OK {
		return cli.check(res.Detail)
	}
	fmt.Fprintln(cli.out, "Session renewed.")
	if !res.Data.ExpiresAt.IsZero() {
		fmt.Fprintf(cli.out, "Session expires at %s.\n", formatTime(res.Data.ExpiresAt))
	}
	return nil
}

func (cli *commandLine) overview(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	res := cli.svcs.Overview.Summary(ctx)
	if !res.OK {
		return cli.check(res.Detail)
	}
	renderSummary(cli.out, res.Data)
	return nil
}
