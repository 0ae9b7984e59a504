package alert

import (
	"net/url"
	"time"

	"github.com/trezcool/proctor/core"
)

// Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Statuses
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

var (
	Severities = core.NewEnumSet(SeverityLow, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical)
	Statuses   = core.NewEnumSet(StatusOpen, StatusOpen, StatusResolved)
)

// Alert is a security event raised while monitoring an exam session.
type Alert struct {
	ID         core.ID    `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message,omitempty"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	StudentID  core.ID    `json:"student_id,omitempty"`
	ExamID     core.ID    `json:"exam_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	Note       string     `json:"note,omitempty"`
}

func (a Alert) Normalize() Alert {
	a.Severity = Severities.Normalize(a.Severity)
	a.Status = Statuses.Normalize(a.Status)
	return a
}

func (a Alert) IsOpen() bool { return Statuses.Normalize(a.Status) == StatusOpen }

// Alerts is the list payload: {"alerts": [...]}.
type Alerts struct {
	Alerts []Alert `json:"alerts"`
}

type Resolution struct {
	Note string `json:"note,omitempty" validate:"max=500"`
}

type QueryFilter struct {
	Search   string `query:"q"`
	Severity string `query:"severity"`
	Status   string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Severity == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Severity = core.CleanString(qf.Severity, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	core.SetQuery(v, "severity", qf.Severity)
	core.SetQuery(v, "status", qf.Status)
	return v
}
