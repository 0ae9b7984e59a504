package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/apps/shared/testutil"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
	inmemdb "github.com/trezcool/proctor/storage/inmem"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	sessions := session.NewManager(session.NewMemoryStore())
	out := new(bytes.Buffer)
	return &commandLine{svcs: testutil.MockServices(t, sessions, sessions), sessions: sessions, out: out}, out
}

func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(context.Background(), append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.wantErrStr)
				}
			default:
				assert.NoError(t, err)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_run_usage(t *testing.T) {
	cli, out := setup(t)
	runCLITests(t, cli, out, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp, wantOut: []string{"Usage:", "alert-resolve"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"users", "-h"}, wantErr: errHelp},
		{name: "missing required flag", args: []string{"user-status", "-id", "5"}, wantErr: errHelp, wantOut: []string{"Usage: user-status"}},
	})
}

func Test_commandLine_login(t *testing.T) {
	cli, out := setup(t)

	mockPassword(t, "nope")
	runCLITests(t, cli, out, []cliTest{
		{name: "no username", args: []string{"login"}, wantErr: errHelp},
		{name: "wrong password", args: []string{"login", "-username", "admin"}, wantErrStr: "invalid credentials"},
		{name: "whoami logged out", args: []string{"whoami"}, wantErr: session.ErrNoSession},
	})

	mockPassword(t, inmemdb.DemoPassword)
	runCLITests(t, cli, out, []cliTest{
		{name: "suspended", args: []string{"login", "-username", "eli"}, wantErrStr: "account suspended"},
		{name: "ok", args: []string{"login", "-username", "ADMIN"}, wantOut: []string{"Logged in as admin (admin)", "Session expires at"}},
		{name: "whoami", args: []string{"whoami"}, wantOut: []string{"admin (admin)"}},
		{name: "refresh", args: []string{"refresh"}, wantOut: []string{"Session renewed."}},
		{name: "logout", args: []string{"logout"}, wantOut: []string{"Logged out."}},
		{name: "logout again", args: []string{"logout"}, wantOut: []string{"Not logged in."}},
	})

	_, err := cli.sessions.Current()
	assert.Equal(t, session.ErrNoSession, err)
}

func Test_commandLine_expiredSession(t *testing.T) {
	cli, out := setup(t)
	trequire.NoError(t, cli.sessions.Renew(session.Session{Token: "forged", User: session.User{Username: "admin"}}))

	runCLITests(t, cli, out, []cliTest{
		{name: "401 ends the session", args: []string{"my-exams"}, wantErr: errSessionExpired},
	})
	_, err := cli.sessions.Current()
	assert.Equal(t, session.ErrNoSession, err)
}

func Test_commandLine_users(t *testing.T) {
	cli, out := setup(t)

	mockPassword(t, "Str0ng#Passw0rd")
	runCLITests(t, cli, out, []cliTest{
		{name: "list", args: []string{"users"}, wantOut: []string{"USERNAME", "admin", "fifi"}},
		{name: "filter by role", args: []string{"users", "-role", "PROCTOR"}, wantOut: []string{"bea"}},
		{name: "unknown role", args: []string{"users", "-role", "janitor"}, wantOut: []string{"No users."}},
		{name: "suspend", args: []string{"user-status", "-id", "4", "-status", "suspended"}, wantOut: []string{"dede (4) role=student status=suspended", "User updated."}},
		{name: "bad status", args: []string{"user-status", "-id", "4", "-status", "asleep"}, wantErrStr: "status"},
		{name: "promote", args: []string{"user-role", "-id", "3", "-role", "proctor"}, wantOut: []string{"chris (3) role=proctor"}},
		{name: "permissions", args: []string{"user-perms", "-id", "3", "-perms", "exams.read, alerts.resolve,"}, wantOut: []string{"permissions=exams.read,alerts.resolve"}},
		{name: "not found", args: []string{"user-delete", "-id", "404"}, wantErrStr: "not found"},
		{name: "delete", args: []string{"user-delete", "-id", "6"}, wantOut: []string{"User deleted."}},
		{
			name:    "create",
			args:    []string{"user-create", "-name", "Gina Ilunga", "-username", "gina", "-email", "gina@proctor.test", "-role", "instructor"},
			wantOut: []string{"User created.", "gina@proctor.test"},
		},
		{
			name:       "create duplicate",
			args:       []string{"user-create", "-name", "Gina Ilunga", "-username", "gina", "-email", "gina2@proctor.test"},
			wantErrStr: "username",
		},
	})

	out.Reset()
	trequire.NoError(t, cli.run(context.Background(), []string{"admin", "users", "-status", "pending"}))
	assert.NotContains(t, out.String(), "fifi")
}

func Test_commandLine_imports(t *testing.T) {
	cli, out := setup(t)
	users := testutil.WriteFile(t, "users.csv", "username,email,role\nhawa,hawa@proctor.test,student\n,nobody@proctor.test,student\n")
	exams := testutil.WriteFile(t, "exams.csv", "title,course_id,starts_at,duration_minutes\nQuiz 2,1,2030-01-10T09:00:00Z,30\n")
	notes := testutil.WriteFile(t, "notes.txt", "hello")

	runCLITests(t, cli, out, []cliTest{
		{name: "users", args: []string{"users-import", "-file", users}, wantOut: []string{"1 created, 1 failed", "row 3:", "hawa"}},
		{name: "exams", args: []string{"exams-import", "-file", exams}, wantOut: []string{"1 created, 0 failed", "Quiz 2"}},
		{name: "wrong type", args: []string{"exams-import", "-file", notes}, wantErrStr: "file"},
		{name: "missing file", args: []string{"users-import", "-file", filepath.Join(filepath.Dir(users), "nope.csv")}, wantErrStr: "opening import file"},
	})
}

func Test_commandLine_catalog(t *testing.T) {
	cli, out := setup(t)
	runCLITests(t, cli, out, []cliTest{
		{name: "courses", args: []string{"courses"}, wantOut: []string{"CS101", "MA201", "HI110"}},
		{name: "search courses", args: []string{"courses", "-search", "algebra"}, wantOut: []string{"MA201"}},
		{name: "create course", args: []string{"course-create", "-code", "PH100", "-title", "Physics"}, wantOut: []string{"Course created.", "PH100"}},
		{name: "delete course with exams", args: []string{"course-delete", "-id", "1"}, wantErrStr: "course still has exams"},
		{name: "classrooms by course", args: []string{"classrooms", "-course", "2"}, wantOut: []string{"Room 204"}},
		{name: "create classroom", args: []string{"classroom-create", "-name", "Lab 9", "-course", "2", "-capacity", "20"}, wantOut: []string{"Classroom created.", "Lab 9"}},
		{name: "live exams", args: []string{"exams", "-status", "live"}, wantOut: []string{"CS101 Lab quiz"}},
		{name: "bad start", args: []string{"exam-create", "-title", "T", "-course", "1", "-starts", "tomorrow"}, wantErrStr: "parsing -starts"},
		{
			name:    "create exam",
			args:    []string{"exam-create", "-title", "Physics Final", "-course", "1", "-starts", "2030-06-01T08:00:00Z", "-duration", "120"},
			wantOut: []string{"Exam created.", "Physics Final", "draft"},
		},
	})

	out.Reset()
	trequire.NoError(t, cli.run(context.Background(), []string{"admin", "exams", "-status", "live"}))
	assert.NotContains(t, out.String(), "Linear Algebra Final")
}

func Test_commandLine_security(t *testing.T) {
	cli, out := setup(t)
	runCLITests(t, cli, out, []cliTest{
		{name: "open alerts", args: []string{"alerts", "-status", "open"}, wantOut: []string{"Face not detected", "Audio spike"}},
		{name: "resolve", args: []string{"alert-resolve", "-id", "1", "-note", "lighting issue"}, wantOut: []string{"Alert resolved.", "Tab switch"}},
		{name: "resolve again", args: []string{"alert-resolve", "-id", "1"}, wantErrStr: "alert already resolved"},
		{name: "audit by action", args: []string{"audit", "-action", "ALERT.RESOLVE"}, wantOut: []string{"alert:1", "alert:3"}},
		{name: "overview", args: []string{"overview"}, wantOut: []string{"open alerts", "users/role/admin"}},
		{name: "bot", args: []string{"bot", "-message", "hello"}, wantOut: []string{"Hello!"}},
		{name: "bot blank", args: []string{"bot", "-message", "   "}, wantErr: errHelp},
		{name: "bot status", args: []string{"bot-status"}, wantOut: []string{"Assistant is online (mock)."}},
	})

	out.Reset()
	trequire.NoError(t, cli.run(context.Background(), []string{"admin", "alerts", "-status", "open"}))
	assert.NotContains(t, out.String(), "Face not detected")
}

func Test_commandLine_watch(t *testing.T) {
	cli, out := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	err := cli.run(ctx, []string{"admin", "alerts", "-watch", "20ms"})
	trequire.NoError(t, err)
	assert.GreaterOrEqual(t, bytes.Count(out.Bytes(), []byte("Face not detected")), 2)
}

func Test_resultError(t *testing.T) {
	err := &resultError{detail: &core.ErrorDetail{
		Message: "please correct the highlighted fields",
		Fields:  map[string]string{"username": "required", "email": "invalid"},
	}}
	assert.Equal(t, "please correct the highlighted fields\n  email: invalid\n  username: required", err.Error())

	var re *resultError
	assert.True(t, errors.As(error(err), &re))
}
