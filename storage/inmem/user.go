package inmemdb

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func userID(row userRow) core.ID { return row.user.ID }

func (repo *userRepository) List(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	users := make([]user.User, 0, len(repo.db.user.rows))
	for _, row := range repo.db.user.rows {
		users = append(users, row.user)
	}
	return user.Filter(users, filter), nil
}

func (repo *userRepository) Get(_ context.Context, id core.ID) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if i := repo.db.user.index(id, userID); i >= 0 {
		return repo.db.user.rows[i].user, nil
	}
	return user.User{}, notFound("user")
}

// checkUniqueness fails when username or email is already used by a user other than excluded.
// Callers hold the lock.
func (repo *userRepository) checkUniqueness(username, email string, excluded core.ID) error {
	for _, row := range repo.db.user.rows {
		if row.user.ID == excluded {
			continue
		}
		if username != "" && row.user.Username == username {
			return conflict("username", "username already taken")
		}
		if email != "" && row.user.Email == email {
			return conflict("email", "email already taken")
		}
	}
	return nil
}

func (repo *userRepository) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	repo.db.user.Lock()
	if err := repo.checkUniqueness(nu.Username, nu.Email, ""); err != nil {
		repo.db.user.Unlock()
		return user.User{}, err
	}
	usr := user.User{
		ID:        newID(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		Status:    user.StatusActive,
		CreatedAt: repo.db.now().UTC(),
	}
	repo.db.user.rows = append(repo.db.user.rows, userRow{user: usr, passwordHash: hash})
	repo.db.user.Unlock()

	repo.db.record(ctx, "user.create", "user:"+usr.Username, "")
	return usr, nil
}

func (repo *userRepository) Update(ctx context.Context, id core.ID, uu user.UpdateUser) (user.User, error) {
	usr, err := repo.update(id, func(usr *user.User) error {
		if err := repo.checkUniqueness(uu.Username, uu.Email, id); err != nil {
			return err
		}
		// only save set fields
		if uu.Name != "" {
			usr.Name = uu.Name
		}
		if uu.Username != "" {
			usr.Username = uu.Username
		}
		if uu.Email != "" {
			usr.Email = uu.Email
		}
		return nil
	})
	if err == nil {
		repo.db.record(ctx, "user.update", "user:"+usr.Username, "")
	}
	return usr, err
}

func (repo *userRepository) Delete(ctx context.Context, id core.ID) error {
	repo.db.user.Lock()
	i := repo.db.user.index(id, userID)
	if i < 0 {
		repo.db.user.Unlock()
		return notFound("user")
	}
	username := repo.db.user.rows[i].user.Username
	repo.db.user.remove(i)
	repo.db.user.Unlock()

	repo.db.record(ctx, "user.delete", "user:"+username, "")
	return nil
}

func (repo *userRepository) SetStatus(ctx context.Context, id core.ID, status string) (user.User, error) {
	usr, err := repo.update(id, func(usr *user.User) error {
		usr.Status = status
		return nil
	})
	if err == nil {
		repo.db.record(ctx, "user.status", "user:"+usr.Username, status)
	}
	return usr, err
}

func (repo *userRepository) SetRole(ctx context.Context, id core.ID, role string) (user.User, error) {
	usr, err := repo.update(id, func(usr *user.User) error {
		usr.Role = role
		return nil
	})
	if err == nil {
		repo.db.record(ctx, "user.role", "user:"+usr.Username, role)
	}
	return usr, err
}

func (repo *userRepository) SetPermissions(ctx context.Context, id core.ID, perms []string) (user.User, error) {
	usr, err := repo.update(id, func(usr *user.User) error {
		usr.Permissions = append([]string(nil), perms...)
		return nil
	})
	if err == nil {
		repo.db.record(ctx, "user.permissions", "user:"+usr.Username, fmt.Sprintf("%d permissions", len(perms)))
	}
	return usr, err
}

// BulkImport reads name, username, email and role columns. Imported users are pending:
// they have no password yet.
func (repo *userRepository) BulkImport(ctx context.Context, filename string, content io.Reader) (user.ImportReport, error) {
	rows, err := readCSV(filename, content, "username", "email")
	if err != nil {
		return user.ImportReport{}, err
	}

	var report user.ImportReport
	repo.db.user.Lock()
	for _, row := range rows {
		usr := user.User{
			ID:        newID(),
			Name:      row.get("name"),
			Username:  core.CleanString(row.get("username"), true /* lower */),
			Email:     core.CleanString(row.get("email"), true /* lower */),
			Status:    user.StatusPending,
			CreatedAt: repo.db.now().UTC(),
		}
		role, ok := user.Roles.Lookup(row.get("role"))
		switch {
		case usr.Username == "" || usr.Email == "":
			err = errors.New("username and email are required")
		case row.get("role") != "" && !ok:
			err = errors.Errorf("unknown role %q", row.get("role"))
		default:
			err = repo.checkUniqueness(usr.Username, usr.Email, "")
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, user.ImportRowError{Row: row.line, Error: importError(err)})
			continue
		}
		usr.Role = user.Roles.Normalize(role)
		repo.db.user.rows = append(repo.db.user.rows, userRow{user: usr})
		report.Created++
	}
	repo.db.user.Unlock()

	repo.db.record(ctx, "user.import", filename, fmt.Sprintf("%d created, %d failed", report.Created, report.Failed))
	return report, nil
}

func (repo *userRepository) update(id core.ID, apply func(usr *user.User) error) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	i := repo.db.user.index(id, userID)
	if i < 0 {
		return user.User{}, notFound("user")
	}
	usr := repo.db.user.rows[i].user
	if err := apply(&usr); err != nil {
		return user.User{}, err
	}
	repo.db.user.rows[i].user = usr
	return usr, nil
}

func importError(err error) string {
	if apiErr, ok := err.(*core.APIError); ok {
		return apiErr.Message
	}
	return err.Error()
}
