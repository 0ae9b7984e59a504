// Package user manages console and exam users: admins, proctors, instructors and students.
package user

import (
	"context"
	"io"
	"path/filepath"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Repository interface {
		// List applies the present QueryFilter fields server side.
		List(ctx context.Context, filter QueryFilter) ([]User, error)
		Get(ctx context.Context, id core.ID) (User, error)
		Create(ctx context.Context, nu NewUser) (User, error)
		Update(ctx context.Context, id core.ID, uu UpdateUser) (User, error)
		Delete(ctx context.Context, id core.ID) error
		SetStatus(ctx context.Context, id core.ID, status string) (User, error)
		SetRole(ctx context.Context, id core.ID, role string) (User, error)
		SetPermissions(ctx context.Context, id core.ID, perms []string) (User, error)
		// BulkImport uploads a spreadsheet of users. Columns are validated by the backend.
		BulkImport(ctx context.Context, filename string, content io.Reader) (ImportReport, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Users] {
	filter.Clean()
	users, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Users](errors.Wrap(err, "listing users"), svc.translator)
	}
	if users == nil {
		users = []User{}
	}
	return core.Ok(Users{Users: users})
}

func (svc *Service) Get(ctx context.Context, id core.ID) core.Result[User] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	usr, err := svc.repo.Get(ctx, id)
	return core.ResultOf(usr, errors.Wrap(err, "getting user"), svc.translator)
}

func (svc *Service) Create(ctx context.Context, nu NewUser) core.Result[User] {
	if err := nu.Validate(svc.validate); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	usr, err := svc.repo.Create(ctx, nu)
	return core.ResultOf(usr, errors.Wrap(err, "creating user"), svc.translator)
}

func (svc *Service) Update(ctx context.Context, id core.ID, uu UpdateUser) core.Result[User] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	if err := uu.Validate(svc.validate); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	usr, err := svc.repo.Update(ctx, id, uu)
	return core.ResultOf(usr, errors.Wrap(err, "updating user"), svc.translator)
}

func (svc *Service) Delete(ctx context.Context, id core.ID) core.Result[struct{}] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[struct{}](err, svc.translator)
	}
	err := svc.repo.Delete(ctx, id)
	return core.ResultOf(struct{}{}, errors.Wrap(err, "deleting user"), svc.translator)
}

func (svc *Service) SetStatus(ctx context.Context, id core.ID, status string) core.Result[User] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	st, ok := Statuses.Lookup(status)
	if !ok {
		return core.Fail[User](core.NewValidationError(nil, core.FieldError{Field: "status", Error: statusText}), svc.translator)
	}
	usr, err := svc.repo.SetStatus(ctx, id, st)
	return core.ResultOf(usr, errors.Wrap(err, "setting user status"), svc.translator)
}

func (svc *Service) SetRole(ctx context.Context, id core.ID, role string) core.Result[User] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	r, ok := Roles.Lookup(role)
	if !ok {
		return core.Fail[User](core.NewValidationError(nil, core.FieldError{Field: "role", Error: roleText}), svc.translator)
	}
	usr, err := svc.repo.SetRole(ctx, id, r)
	return core.ResultOf(usr, errors.Wrap(err, "setting user role"), svc.translator)
}

func (svc *Service) SetPermissions(ctx context.Context, id core.ID, perms []string) core.Result[User] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[User](err, svc.translator)
	}
	cleaned := make([]string, 0, len(perms))
	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		p = core.CleanString(p, true /* lower */)
		if p != "" && !seen[p] {
			seen[p] = true
			cleaned = append(cleaned, p)
		}
	}
	usr, err := svc.repo.SetPermissions(ctx, id, cleaned)
	return core.ResultOf(usr, errors.Wrap(err, "setting user permissions"), svc.translator)
}

func (svc *Service) BulkImport(ctx context.Context, filename string, content io.Reader) core.Result[ImportReport] {
	if err := core.CheckSpreadsheet(filename); err != nil {
		return core.Fail[ImportReport](err, svc.translator)
	}
	report, err := svc.repo.BulkImport(ctx, filepath.Base(filename), content)
	return core.ResultOf(report, errors.Wrap(err, "importing users"), svc.translator)
}
