// Package overview aggregates the dashboard landing counters.
package overview

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/user"
)

type (
	Summary struct {
		Users          int            `json:"users"`
		UsersByRole    map[string]int `json:"users_by_role"`
		UsersByStatus  map[string]int `json:"users_by_status"`
		Exams          int            `json:"exams"`
		ExamsByStatus  map[string]int `json:"exams_by_status"`
		OpenAlerts     int            `json:"open_alerts"`
		OpenBySeverity map[string]int `json:"open_alerts_by_severity"`
	}

	Service struct {
		users      user.Repository
		exams      exam.Repository
		alerts     alert.Repository
		translator ut.Translator
	}
)

func NewService(users user.Repository, exams exam.Repository, alerts alert.Repository, translator ut.Translator) *Service {
	return &Service{users: users, exams: exams, alerts: alerts, translator: translator}
}

// Summary fetches users, exams and open alerts concurrently. The first failure cancels the others.
func (svc *Service) Summary(ctx context.Context) core.Result[Summary] {
	var (
		users  []user.User
		exams  []exam.Exam
		alerts []alert.Alert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = svc.users.List(gctx, user.QueryFilter{})
		return errors.Wrap(err, "listing users")
	})
	g.Go(func() (err error) {
		exams, err = svc.exams.List(gctx, exam.QueryFilter{})
		return errors.Wrap(err, "listing exams")
	})
	g.Go(func() (err error) {
		alerts, err = svc.alerts.List(gctx, alert.QueryFilter{Status: alert.StatusOpen})
		return errors.Wrap(err, "listing alerts")
	})
	if err := g.Wait(); err != nil {
		return core.Fail[Summary](err, svc.translator)
	}
	return core.Ok(summarize(users, exams, alerts))
}

func summarize(users []user.User, exams []exam.Exam, alerts []alert.Alert) Summary {
	sum := Summary{
		Users:          len(users),
		UsersByRole:    zeroCounts(user.Roles),
		UsersByStatus:  zeroCounts(user.Statuses),
		Exams:          len(exams),
		ExamsByStatus:  zeroCounts(exam.Statuses),
		OpenBySeverity: zeroCounts(alert.Severities),
	}
	for _, u := range users {
		u = u.Normalize()
		sum.UsersByRole[u.Role]++
		sum.UsersByStatus[u.Status]++
	}
	for _, e := range exams {
		sum.ExamsByStatus[e.Normalize().Status]++
	}
	// the backend may ignore the status filter
	for _, a := range alert.Filter(alerts, alert.QueryFilter{Status: alert.StatusOpen}) {
		sum.OpenAlerts++
		sum.OpenBySeverity[a.Normalize().Severity]++
	}
	return sum
}

func zeroCounts(set core.EnumSet) map[string]int {
	counts := make(map[string]int, len(set.Values()))
	for _, v := range set.Values() {
		counts[v] = 0
	}
	return counts
}
