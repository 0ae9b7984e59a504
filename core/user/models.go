package user

import (
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
)

// Roles
const (
	RoleAdmin      = "admin"
	RoleProctor    = "proctor"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

var (
	Roles    = core.NewEnumSet(RoleStudent, RoleAdmin, RoleProctor, RoleInstructor, RoleStudent)
	Statuses = core.NewEnumSet(StatusActive, StatusActive, StatusSuspended, StatusPending)
)

type User struct {
	ID          core.ID    `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Normalize maps Role and Status onto their closed sets.
func (u User) Normalize() User {
	u.Role = Roles.Normalize(u.Role)
	u.Status = Statuses.Normalize(u.Status)
	return u
}

func (u User) IsAdmin() bool { return Roles.Normalize(u.Role) == RoleAdmin }

// Users is the list payload: {"users": [...]}.
type Users struct {
	Users []User `json:"users"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"notblank"`
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Blank fields are left untouched.
type UpdateUser struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,alphanum_"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Username = core.CleanString(uu.Username, true /* lower */)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if uu.Name == "" && uu.Username == "" && uu.Email == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "nothing to update"})
	}
	return validate.Struct(uu)
}

type QueryFilter struct {
	Search string `query:"q"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// Values translates the present criteria into query parameters.
func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	core.SetQuery(v, "role", qf.Role)
	core.SetQuery(v, "status", qf.Status)
	return v
}

type (
	ImportRowError struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	}

	// ImportReport is the backend's answer to a bulk import.
	ImportReport struct {
		Created int              `json:"created"`
		Failed  int              `json:"failed"`
		Errors  []ImportRowError `json:"errors,omitempty"`
	}
)
