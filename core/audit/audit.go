// Package audit reads the administration audit trail.
package audit

import (
	"context"
	"net/url"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type Event struct {
	ID        core.ID   `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Details   string    `json:"details,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Events is the list payload: {"events": [...]}.
type Events struct {
	Events []Event `json:"events"`
}

type QueryFilter struct {
	Search string `query:"q"`
	Action string `query:"action"`
	Actor  string `query:"actor"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Action == "" && qf.Actor == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Action = core.CleanString(qf.Action, true /* lower */)
	qf.Actor = core.CleanString(qf.Actor)
}

func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	core.SetQuery(v, "action", qf.Action)
	core.SetQuery(v, "actor", qf.Actor)
	return v
}

// Filter keeps the events matching every present criterion. Action names are compared whole,
// ignoring case; search and actor are substrings.
func Filter(events []Event, qf QueryFilter) []Event {
	if qf.IsEmpty() {
		return events
	}
	action := strings.TrimSpace(qf.Action)
	return core.FilterSlice(events, func(e Event) bool {
		if action != "" && !strings.EqualFold(strings.TrimSpace(e.Action), action) {
			return false
		}
		return core.ContainsFold(qf.Actor, e.Actor) &&
			core.ContainsFold(qf.Search, e.Actor, e.Action, e.Target, e.Details)
	})
}

type (
	Repository interface {
		List(ctx context.Context, filter QueryFilter) ([]Event, error)
	}

	Service struct {
		repo       Repository
		translator ut.Translator
	}
)

func NewService(repo Repository, translator ut.Translator) *Service {
	return &Service{repo: repo, translator: translator}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Events] {
	filter.Clean()
	events, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Events](errors.Wrap(err, "listing audit events"), svc.translator)
	}
	if events == nil {
		events = []Event{}
	}
	return core.Ok(Events{Events: events})
}
