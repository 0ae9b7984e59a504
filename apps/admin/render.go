package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/overview"
	"github.com/trezcool/proctor/core/user"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderUsers(w io.Writer, us user.Users) {
	if len(us.Users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := newTable(w, "ID", "USERNAME", "NAME", "EMAIL", "ROLE", "STATUS", "LAST LOGIN")
	for _, u := range us.Users {
		u = u.Normalize()
		row(tw, u.ID.String(), u.Username, orDash(u.Name), u.Email, u.Role, u.Status, formatTimePtr(u.LastLogin))
	}
	_ = tw.Flush()
}

func renderUser(w io.Writer, u user.User) {
	u = u.Normalize()
	fmt.Fprintf(w, "%s (%s) role=%s status=%s", u.Username, u.ID, u.Role, u.Status)
	if len(u.Permissions) > 0 {
		fmt.Fprintf(w, " permissions=%s", strings.Join(u.Permissions, ","))
	}
	fmt.Fprintln(w)
}

func renderCourses(w io.Writer, cs course.Courses) {
	if len(cs.Courses) == 0 {
		fmt.Fprintln(w, "No courses.")
		return
	}
	tw := newTable(w, "ID", "CODE", "TITLE", "INSTRUCTOR")
	for _, c := range cs.Courses {
		row(tw, c.ID.String(), c.Code, c.Title, orDash(c.InstructorID.String()))
	}
	_ = tw.Flush()
}

func renderClassrooms(w io.Writer, cs classroom.Classrooms) {
	if len(cs.Classrooms) == 0 {
		fmt.Fprintln(w, "No classrooms.")
		return
	}
	tw := newTable(w, "ID", "NAME", "COURSE", "CAPACITY", "LOCATION")
	for _, c := range cs.Classrooms {
		row(tw, c.ID.String(), c.Name, c.CourseID.String(), fmt.Sprint(c.Capacity), orDash(c.Location))
	}
	_ = tw.Flush()
}

func renderExams(w io.Writer, es exam.Exams) {
	if len(es.Exams) == 0 {
		fmt.Fprintln(w, "No exams.")
		return
	}
	tw := newTable(w, "ID", "TITLE", "COURSE", "STATUS", "STARTS", "ENDS")
	for _, e := range es.Exams {
		e = e.Normalize()
		row(tw, e.ID.String(), e.Title, e.CourseID.String(), e.Status, formatTime(e.StartsAt), formatTime(e.EndsAt()))
	}
	_ = tw.Flush()
}

func renderEvents(w io.Writer, es audit.Events) {
	if len(es.Events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	tw := newTable(w, "WHEN", "ACTOR", "ACTION", "TARGET", "DETAILS")
	for _, e := range es.Events {
		row(tw, formatTime(e.CreatedAt), e.Actor, e.Action, orDash(e.Target), orDash(e.Details))
	}
	_ = tw.Flush()
}

func renderAlerts(w io.Writer, as alert.Alerts) {
	if len(as.Alerts) == 0 {
		fmt.Fprintln(w, "No alerts.")
		return
	}
	tw := newTable(w, "ID", "SEVERITY", "STATUS", "TITLE", "RAISED", "RESOLVED BY")
	for _, a := range as.Alerts {
		a = a.Normalize()
		row(tw, a.ID.String(), a.Severity, a.Status, a.Title, formatTime(a.CreatedAt), orDash(a.ResolvedBy))
	}
	_ = tw.Flush()
}

func renderSummary(w io.Writer, s overview.Summary) {
	tw := newTable(w, "METRIC", "COUNT")
	row(tw, "users", fmt.Sprint(s.Users))
	counts(tw, "users/role", s.UsersByRole)
	counts(tw, "users/status", s.UsersByStatus)
	row(tw, "exams", fmt.Sprint(s.Exams))
	counts(tw, "exams/status", s.ExamsByStatus)
	row(tw, "open alerts", fmt.Sprint(s.OpenAlerts))
	counts(tw, "open alerts/severity", s.OpenBySeverity)
	_ = tw.Flush()
}

func counts(tw *tabwriter.Writer, prefix string, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row(tw, "  "+prefix+"/"+k, fmt.Sprint(m[k]))
	}
}

func renderImport(w io.Writer, created, failed int, rowErrs map[int]string) {
	fmt.Fprintf(w, "Imported: %d created, %d failed.\n", created, failed)
	rows := make([]int, 0, len(rowErrs))
	for r := range rowErrs {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	for _, r := range rows {
		fmt.Fprintf(w, "  row %d: %s\n", r, rowErrs[r])
	}
}
