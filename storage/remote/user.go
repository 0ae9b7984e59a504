package remoterepos

import (
	"context"
	"io"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/user"
)

const usersPath = "/admin/users"

type (
	userRepository struct {
		c *client.Client
	}

	userEnvelope struct {
		User user.User `json:"user"`
	}
)

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func (r *Repos) Users() user.Repository { return &userRepository{c: r.c} }

func (repo *userRepository) List(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	var out user.Users
	err := repo.c.JSON(ctx, client.Request{Path: usersPath, Query: filter.Values()}, &out)
	return out.Users, err
}

func (repo *userRepository) Get(ctx context.Context, id core.ID) (user.User, error) {
	return repo.one(ctx, client.Request{Path: resource(usersPath, id)})
}

func (repo *userRepository) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPost, Path: usersPath, JSON: nu})
}

func (repo *userRepository) Update(ctx context.Context, id core.ID, uu user.UpdateUser) (user.User, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPatch, Path: resource(usersPath, id), JSON: uu})
}

func (repo *userRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := repo.c.Do(ctx, client.Request{Method: http.MethodDelete, Path: resource(usersPath, id)})
	return err
}

func (repo *userRepository) SetStatus(ctx context.Context, id core.ID, status string) (user.User, error) {
	return repo.one(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   resource(usersPath, id, "status"),
		JSON:   map[string]string{"status": status},
	})
}

func (repo *userRepository) SetRole(ctx context.Context, id core.ID, role string) (user.User, error) {
	return repo.one(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   resource(usersPath, id, "role"),
		JSON:   map[string]string{"role": role},
	})
}

func (repo *userRepository) SetPermissions(ctx context.Context, id core.ID, perms []string) (user.User, error) {
	return repo.one(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   resource(usersPath, id, "permissions"),
		JSON:   map[string][]string{"permissions": perms},
	})
}

func (repo *userRepository) BulkImport(ctx context.Context, filename string, content io.Reader) (user.ImportReport, error) {
	var report user.ImportReport
	err := repo.c.JSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   usersPath + "/bulk",
		Form:   client.NewFileForm("file", filename, content),
	}, &report)
	return report, err
}

// one decodes a {"user": {...}} answer. An empty answer yields the zero User.
func (repo *userRepository) one(ctx context.Context, req client.Request) (user.User, error) {
	var out userEnvelope
	err := repo.c.JSON(ctx, req, &out)
	return out.User, err
}
