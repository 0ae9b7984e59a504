package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp           = errors.New("help provided")
	errSessionExpired = errors.New("your session has expired, please log in again")
)

type (
	commandLine struct {
		svcs     *shared.Services
		sessions *session.Manager
		out      io.Writer
	}

	command struct {
		name  string
		usage string
		run   func(ctx context.Context, fs *flag.FlagSet, args []string) error
	}

	// resultError is a failed call, printed with its field messages.
	resultError struct {
		detail *core.ErrorDetail
	}
)

func (err *resultError) Error() string {
	var b strings.Builder
	b.WriteString(err.detail.Message)
	flds := make([]string, 0, len(err.detail.Fields))
	for fld := range err.detail.Fields {
		flds = append(flds, fld)
	}
	sort.Strings(flds)
	for _, fld := range flds {
		fmt.Fprintf(&b, "\n  %s: %s", fld, err.detail.Fields[fld])
	}
	return b.String()
}

func (cli *commandLine) commands() []command {
	return []command{
		{"login", "-username USERNAME|EMAIL - log in (the password is prompted)", cli.login},
		{"logout", "- end the session", cli.logout},
		{"whoami", "- show the logged in user", cli.whoami},
		{"refresh", "- renew the session token", cli.refresh},
		{"overview", "- dashboard counters", cli.overview},
		{"users", "[-search S -role R -status S -watch D] - list users", cli.listUsers},
		{"user-create", "-name N -username U -email E -role R - create a user (the password is prompted)", cli.createUser},
		{"user-status", "-id ID -status S - activate, suspend a user", cli.setUserStatus},
		{"user-role", "-id ID -role R - change a user's role", cli.setUserRole},
		{"user-perms", "-id ID -perms a,b - replace a user's permissions", cli.setUserPerms},
		{"user-delete", "-id ID - delete a user", cli.deleteUser},
		{"users-import", "-file PATH - import users from a spreadsheet", cli.importUsers},
		{"courses", "[-search S] - list courses", cli.listCourses},
		{"course-create", "-code C -title T [-description D -instructor ID] - create a course", cli.createCourse},
		{"course-delete", "-id ID - delete a course", cli.deleteCourse},
		{"classrooms", "[-search S -course ID] - list classrooms", cli.listClassrooms},
		{"classroom-create", "-name N -course ID -capacity N [-location L] - create a classroom", cli.createClassroom},
		{"exams", "[-search S -status S -course ID -watch D] - list exams", cli.listExams},
		{"exam-create", "-title T -course ID -starts RFC3339 -duration MIN [-classroom ID -status S] - schedule an exam", cli.createExam},
		{"exams-import", "-file PATH - import exams from a spreadsheet", cli.importExams},
		{"my-exams", "- list the exams of the logged in student", cli.myExams},
		{"audit", "[-search S -action A -actor A -watch D] - show the audit trail", cli.listAudit},
		{"alerts", "[-search S -severity S -status S -watch D] - list security alerts", cli.listAlerts},
		{"alert-resolve", "-id ID [-note N] - resolve a security alert", cli.resolveAlert},
		{"bot", "-message M - ask the assistant", cli.chat},
		{"bot-status", "- show the assistant status", cli.botStatus},
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	for _, cmd := range cli.commands() {
		fmt.Fprintf(cli.out, "  %s %s\n", cmd.name, cmd.usage)
	}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	for _, cmd := range cli.commands() {
		if cmd.name != args[1] {
			continue
		}
		fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
		fs.SetOutput(cli.out)
		usage := cmd.usage
		fs.Usage = func() { fmt.Fprintf(cli.out, "Usage: %s %s\n", fs.Name(), usage) }
		err := cmd.run(ctx, fs, args[2:])
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	cli.printUsage()
	return errHelp
}

// check turns a failed call into an error. An unauthenticated failure also ends the session;
// any other failure leaves it alone.
func (cli *commandLine) check(detail *core.ErrorDetail) error {
	if detail == nil {
		return nil
	}
	if detail.Unauthenticated() {
		_ = cli.sessions.End()
		return errSessionExpired
	}
	return &resultError{detail: detail}
}

// require prints the usage when one of values is blank.
func require(fs *flag.FlagSet, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}
