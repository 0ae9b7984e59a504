package user

import (
	"context"
	"io"
	"net/http"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/core"
)

type repoStub struct {
	calls   []string
	users   []User
	err     error
	created NewUser
	status  string
	perms   []string
}

func (r *repoStub) List(_ context.Context, _ QueryFilter) ([]User, error) {
	r.calls = append(r.calls, "list")
	return r.users, r.err
}

func (r *repoStub) Get(_ context.Context, id core.ID) (User, error) {
	r.calls = append(r.calls, "get")
	return User{ID: id}, r.err
}

func (r *repoStub) Create(_ context.Context, nu NewUser) (User, error) {
	r.calls = append(r.calls, "create")
	r.created = nu
	return User{ID: "9", Username: nu.Username, Role: nu.Role}, r.err
}

func (r *repoStub) Update(_ context.Context, id core.ID, uu UpdateUser) (User, error) {
	r.calls = append(r.calls, "update")
	return User{ID: id, Name: uu.Name}, r.err
}

func (r *repoStub) Delete(_ context.Context, _ core.ID) error {
	r.calls = append(r.calls, "delete")
	return r.err
}

func (r *repoStub) SetStatus(_ context.Context, id core.ID, status string) (User, error) {
	r.calls = append(r.calls, "status")
	r.status = status
	return User{ID: id, Status: status}, r.err
}

func (r *repoStub) SetRole(_ context.Context, id core.ID, role string) (User, error) {
	r.calls = append(r.calls, "role")
	return User{ID: id, Role: role}, r.err
}

func (r *repoStub) SetPermissions(_ context.Context, id core.ID, perms []string) (User, error) {
	r.calls = append(r.calls, "perms")
	r.perms = perms
	return User{ID: id, Permissions: perms}, r.err
}

func (r *repoStub) BulkImport(_ context.Context, _ string, _ io.Reader) (ImportReport, error) {
	r.calls = append(r.calls, "import")
	return ImportReport{Created: 2}, r.err
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func setup() (*Service, *repoStub) {
	repo := &repoStub{}
	validate, translator := newValidator()
	return NewService(repo, validate, translator), repo
}

func TestService_List(t *testing.T) {
	svc, repo := setup()

	res := svc.List(context.Background(), QueryFilter{Search: "  ami "})
	require.True(t, res.OK)
	assert.Equal(t, core.KindOK, res.Kind)
	assert.NotNil(t, res.Data.Users) // never null in the envelope

	repo.err = &core.APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	res = svc.List(context.Background(), QueryFilter{})
	require.False(t, res.OK)
	assert.Equal(t, core.KindError, res.Kind)
	assert.Equal(t, core.ErrAPI, res.Detail.Kind)
	assert.True(t, res.Detail.Unauthenticated())
	assert.Equal(t, "token expired", res.Detail.Message)
}

func TestService_Create(t *testing.T) {
	valid := NewUser{
		Name: "Amani", Username: " Amani_K ", Email: "AMANI@test.cd", Role: "Proctor",
		Password: "Sup3r$ecret", PasswordConfirm: "Sup3r$ecret",
	}
	tests := []struct {
		name       string
		mutate     func(nu *NewUser)
		wantFields map[string]string
	}{
		{name: "valid"},
		{name: "missing name", mutate: func(nu *NewUser) { nu.Name = "  " }, wantFields: map[string]string{"name": "this field cannot be blank"}},
		{name: "bad email", mutate: func(nu *NewUser) { nu.Email = "nope" }, wantFields: map[string]string{"email": "email must be a valid email address"}},
		{name: "bad role", mutate: func(nu *NewUser) { nu.Role = "janitor" }, wantFields: map[string]string{"role": "invalid role"}},
		{
			name: "short password", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "Ab1!", "Ab1!" },
			wantFields: map[string]string{"password": pwdMinLenText},
		},
		{
			name: "numeric password", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "12345678", "12345678" },
			wantFields: map[string]string{"password": pwdNotAllNumText},
		},
		{
			name: "simple password", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "abcdefgh1", "abcdefgh1" },
			wantFields: map[string]string{"password": pwdComplexityText},
		},
		{
			name: "password like username", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "Amani_k1", "Amani_k1" },
			wantFields: map[string]string{"password": pwdAttrSimText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setup()
			nu := valid
			if tt.mutate != nil {
				tt.mutate(&nu)
			}

			res := svc.Create(context.Background(), nu)
			if tt.wantFields == nil {
				require.True(t, res.OK, "unexpected failure: %+v", res.Detail)
				assert.Equal(t, "amani_k", repo.created.Username)
				assert.Equal(t, "amani@test.cd", repo.created.Email)
				assert.Equal(t, "proctor", repo.created.Role)
				return
			}
			require.False(t, res.OK)
			assert.Equal(t, core.ErrValidation, res.Detail.Kind)
			for fld, msg := range tt.wantFields {
				assert.Equal(t, msg, res.Detail.Fields[fld])
			}
			assert.Empty(t, repo.calls, "validation failures must not reach the repository")
		})
	}
}

func TestService_SetStatusAndRole(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	res := svc.SetStatus(ctx, "3", " SUSPENDED ")
	require.True(t, res.OK)
	assert.Equal(t, StatusSuspended, repo.status)

	res = svc.SetStatus(ctx, "3", "asleep")
	require.False(t, res.OK)
	assert.Equal(t, map[string]string{"status": statusText}, res.Detail.Fields)

	res = svc.SetRole(ctx, "", RoleAdmin)
	require.False(t, res.OK)
	assert.Contains(t, res.Detail.Fields, "id")

	res = svc.SetRole(ctx, "3", "Instructor")
	require.True(t, res.OK)
	assert.Equal(t, RoleInstructor, res.Data.Role)
}

func TestService_SetPermissions(t *testing.T) {
	svc, repo := setup()
	res := svc.SetPermissions(context.Background(), "3", []string{"Exams.Read", " exams.read", "", "alerts.resolve"})
	require.True(t, res.OK)
	assert.Equal(t, []string{"exams.read", "alerts.resolve"}, repo.perms)
}

func TestService_BulkImport(t *testing.T) {
	svc, repo := setup()

	res := svc.BulkImport(context.Background(), "users.pdf", nil)
	require.False(t, res.OK)
	assert.Contains(t, res.Detail.Fields, "file")
	assert.Empty(t, repo.calls)

	res = svc.BulkImport(context.Background(), "/tmp/Users.XLSX", nil)
	require.True(t, res.OK)
	assert.Equal(t, 2, res.Data.Created)
}

func TestService_Update(t *testing.T) {
	svc, repo := setup()

	res := svc.Update(context.Background(), "3", UpdateUser{})
	require.False(t, res.OK)
	assert.Equal(t, core.ErrValidation, res.Detail.Kind)
	assert.Empty(t, repo.calls)

	res = svc.Update(context.Background(), "3", UpdateUser{Name: " Chris "})
	require.True(t, res.OK)
	assert.Equal(t, "Chris", res.Data.Name)
}
