package remoterepos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/bot"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/user"
)

type call struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

// fakeBackend answers canned bodies by "METHOD path" and records the calls.
func fakeBackend(t *testing.T, answers map[string]string) (*Repos, *[]call) {
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.EscapedPath(), query: r.URL.RawQuery}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&c.body))
		}
		calls = append(calls, c)

		body, ok := answers[r.Method+" "+r.URL.Path]
		switch {
		case !ok:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"not found"}`)
		case body == "":
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, body)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return "tok" })))
	require.NoError(t, err)
	return New(c), &calls
}

func TestUserRepository(t *testing.T) {
	repos, calls := fakeBackend(t, map[string]string{
		"GET /admin/users":                 `{"users":[{"id":1,"username":"ami","role":"ADMIN"},{"id":"2","username":"bea"}]}`,
		"PATCH /admin/users/1/status":      `{"user":{"id":1,"status":"suspended"}}`,
		"PATCH /admin/users/1/permissions": `{"user":{"id":1,"permissions":["exams.read"]}}`,
		"DELETE /admin/users/1":            ``,
	})
	repo := repos.Users()
	ctx := context.Background()

	users, err := repo.List(ctx, user.QueryFilter{Search: "abc"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, core.ID("1"), users[0].ID)
	assert.Equal(t, "q=abc", (*calls)[0].query)

	usr, err := repo.SetStatus(ctx, "1", user.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, user.StatusSuspended, usr.Status)
	assert.Equal(t, map[string]interface{}{"status": "suspended"}, (*calls)[1].body)

	_, err = repo.SetPermissions(ctx, "1", []string{"exams.read"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"permissions": []interface{}{"exams.read"}}, (*calls)[2].body)

	require.NoError(t, repo.Delete(ctx, "1"))

	_, err = repo.Get(ctx, "9")
	assert.True(t, core.IsNotFound(err))
}

func TestResource_escapesIDs(t *testing.T) {
	assert.Equal(t, "/admin/users/a%2Fb/role", resource(usersPath, "a/b", "role"))
	assert.Equal(t, "/admin/exams/7", resource(examsPath, "7"))
}

func TestUserRepository_SetRole_idsReachTheBackendIntact(t *testing.T) {
	tests := []struct {
		id          core.ID
		wantEscaped string
	}{
		{id: "a/b", wantEscaped: "/admin/users/a%2Fb/role"},
		{id: "a b", wantEscaped: "/admin/users/a%20b/role"},
		{id: "42", wantEscaped: "/admin/users/42/role"},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			repos, calls := fakeBackend(t, map[string]string{
				"PATCH /admin/users/" + tt.id.String() + "/role": `{"user":{"id":1,"role":"proctor"}}`,
			})

			usr, err := repos.Users().SetRole(context.Background(), tt.id, user.RoleProctor)
			require.NoError(t, err)
			assert.Equal(t, user.RoleProctor, usr.Role)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.wantEscaped, (*calls)[0].path)
		})
	}
}

func TestUserRepository_BulkImport(t *testing.T) {
	var gotName, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users/bulk", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotContent = hdr.Filename, string(data)
		_, _ = io.WriteString(w, `{"created":1,"failed":1,"errors":[{"row":3,"error":"duplicate email"}]}`)
	}))
	defer srv.Close()
	c, err := client.New(srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return "tok" })))
	require.NoError(t, err)

	report, err := New(c).Users().BulkImport(context.Background(), "users.csv", strings.NewReader("username\nami\n"))
	require.NoError(t, err)
	assert.Equal(t, "users.csv", gotName)
	assert.Equal(t, "username\nami\n", gotContent)
	assert.Equal(t, user.ImportReport{Created: 1, Failed: 1, Errors: []user.ImportRowError{{Row: 3, Error: "duplicate email"}}}, report)
}

func TestExamAndSecurityRepositories(t *testing.T) {
	repos, calls := fakeBackend(t, map[string]string{
		"GET /admin/exams":                      `{"exams":[{"id":5,"title":"Final","status":"live"}]}`,
		"GET /api/student/exams":                `{"exams":[]}`,
		"GET /admin/audit":                      `{"events":[{"id":1,"actor":"admin","action":"user.create"}]}`,
		"GET /admin/security/alerts":            `{"alerts":[{"id":1,"status":"open"},{"id":2,"status":"resolved"}]}`,
		"POST /admin/security/alerts/1/resolve": `{"alert":{"id":1,"status":"resolved","note":"ok"}}`,
	})
	ctx := context.Background()

	exams, err := repos.Exams().List(ctx, exam.QueryFilter{Status: "live", CourseID: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Final", exams[0].Title)
	assert.Equal(t, "course_id=3&status=live", (*calls)[0].query)

	student, err := repos.Exams().StudentExams(ctx)
	require.NoError(t, err)
	assert.Empty(t, student)

	events, err := repos.Audit().List(ctx, audit.QueryFilter{Actor: "admin"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "actor=admin", (*calls)[2].query)

	alerts, err := repos.Alerts().List(ctx, alert.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []alert.Alert{alerts[0]}, alert.Filter(alerts, alert.QueryFilter{Status: "open"}))
	assert.Empty(t, (*calls)[3].query)

	a, err := repos.Alerts().Resolve(ctx, "1", alert.Resolution{Note: "ok"})
	require.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, a.Status)
	assert.Equal(t, map[string]interface{}{"note": "ok"}, (*calls)[4].body)
}

func TestAuthAndBotRepositories(t *testing.T) {
	repos, calls := fakeBackend(t, map[string]string{
		"POST /auth/login":  `{"token":"new-token","user":{"username":"ami","role":"admin"}}`,
		"POST /auth/logout": ``,
		"POST /bot/chat":    `{"reply":"hi","at":"2026-10-01T12:00:00Z"}`,
		"GET /bot/status":   `{"online":true,"model":"m1"}`,
	})
	ctx := context.Background()

	resp, err := repos.Auth().Login(ctx, auth.LoginRequest{Username: "ami", Password: "pwd"})
	require.NoError(t, err)
	assert.Equal(t, "new-token", resp.Token)
	assert.Equal(t, map[string]interface{}{"username": "ami", "password": "pwd"}, (*calls)[0].body)

	require.NoError(t, repos.Auth().Logout(ctx))

	_, err = repos.Auth().Refresh(ctx)
	assert.True(t, core.IsNotFound(err))

	reply, err := repos.Bot().Chat(ctx, bot.Message{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Reply)

	st, err := repos.Bot().Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, bot.Status{Online: true, Model: "m1"}, st)
}
