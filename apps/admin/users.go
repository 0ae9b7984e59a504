package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/user"
)

func (cli *commandLine) usersListing(qf user.QueryFilter) listing[user.Users] {
	qf.Clean()
	return listing[user.Users]{
		fetch: func(ctx context.Context) core.Result[user.Users] {
			return cli.svcs.Users.List(ctx, user.QueryFilter{})
		},
		filter: func(us user.Users) user.Users { return user.Users{Users: user.Filter(us.Users, qf)} },
		render: renderUsers,
	}
}

func (cli *commandLine) listUsers(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf user.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search name, username and email")
	fs.StringVar(&qf.Role, "role", "", "admin, proctor, instructor or student")
	fs.StringVar(&qf.Status, "status", "", "active, suspended or pending")
	every := fs.Duration("watch", 0, "refresh every DURATION")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, *every, cli.usersListing(qf))
}

func (cli *commandLine) createUser(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var nu user.NewUser
	fs.StringVar(&nu.Name, "name", "", "full name")
	fs.StringVar(&nu.Username, "username", "", "username")
	fs.StringVar(&nu.Email, "email", "", "email")
	fs.StringVar(&nu.Role, "role", user.RoleStudent, "admin, proctor, instructor or student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, nu.Username, nu.Email); err != nil {
		return err
	}

	var err error
	if nu.Password, err = cli.readPassword("Enter password: "); err != nil {
		return err
	}
	if nu.PasswordConfirm, err = cli.readPassword("Confirm password: "); err != nil {
		return err
	}

	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Users.Create(ctx, nu).Detail
	}, "User created.", cli.usersListing(user.QueryFilter{}))
}

func (cli *commandLine) setUserStatus(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "user id")
	status := fs.String("status", "", "active, suspended or pending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id, *status); err != nil {
		return err
	}
	return cli.updateUser(ctx, func(ctx context.Context) core.Result[user.User] {
		return cli.svcs.Users.SetStatus(ctx, core.ID(*id), *status)
	})
}

func (cli *commandLine) setUserRole(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "user id")
	role := fs.String("role", "", "admin, proctor, instructor or student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id, *role); err != nil {
		return err
	}
	return cli.updateUser(ctx, func(ctx context.Context) core.Result[user.User] {
		return cli.svcs.Users.SetRole(ctx, core.ID(*id), *role)
	})
}

func (cli *commandLine) setUserPerms(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "user id")
	perms := fs.String("perms", "", "comma separated permissions, empty to clear")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id); err != nil {
		return err
	}
	return cli.updateUser(ctx, func(ctx context.Context) core.Result[user.User] {
		return cli.svcs.Users.SetPermissions(ctx, core.ID(*id), core.SplitList(*perms))
	})
}

// updateUser prints the updated user, then the refreshed list.
func (cli *commandLine) updateUser(ctx context.Context, update func(ctx context.Context) core.Result[user.User]) error {
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		res := update(ctx)
		if res.OK {
			renderUser(cli.out, res.Data)
		}
		return res.Detail
	}, "User updated.", cli.usersListing(user.QueryFilter{}))
}

func (cli *commandLine) deleteUser(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id); err != nil {
		return err
	}
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Users.Delete(ctx, core.ID(*id)).Detail
	}, "User deleted.", cli.usersListing(user.QueryFilter{}))
}

func (cli *commandLine) importUsers(ctx context.Context, fs *flag.FlagSet, args []string) error {
	path := fs.String("file", "", "spreadsheet to import (.csv, .xls, .xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *path); err != nil {
		return err
	}
	return withFile(*path, func(name string, content io.Reader) error {
		return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
			res := cli.svcs.Users.BulkImport(ctx, name, content)
			if res.OK {
				rowErrs := make(map[int]string, len(res.Data.Errors))
				for _, e := range res.Data.Errors {
					rowErrs[e.Row] = e.Error
				}
				renderImport(cli.out, res.Data.Created, res.Data.Failed, rowErrs)
			}
			return res.Detail
		}, "Import done.", cli.usersListing(user.QueryFilter{}))
	})
}

func withFile(path string, fn func(name string, content io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer f.Close()
	return fn(filepath.Base(path), f)
}
