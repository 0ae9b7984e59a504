package exam

import (
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

var Statuses = core.NewEnumSet(StatusDraft, StatusDraft, StatusScheduled, StatusLive, StatusCompleted, StatusArchived)

type Exam struct {
	ID              core.ID   `json:"id"`
	Title           string    `json:"title"`
	CourseID        core.ID   `json:"course_id"`
	ClassroomID     core.ID   `json:"classroom_id,omitempty"`
	Status          string    `json:"status"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (e Exam) Normalize() Exam {
	e.Status = Statuses.Normalize(e.Status)
	return e
}

func (e Exam) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// Exams is the list payload: {"exams": [...]}, also used by the student view.
type Exams struct {
	Exams []Exam `json:"exams"`
}

type NewExam struct {
	Title           string    `json:"title" validate:"notblank"`
	CourseID        core.ID   `json:"course_id" validate:"required"`
	ClassroomID     core.ID   `json:"classroom_id,omitempty"`
	Status          string    `json:"status,omitempty" validate:"omitempty,exam_status"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=1,lte=720"`
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.CourseID = core.ID(core.CleanString(ne.CourseID.String()))
	ne.ClassroomID = core.ID(core.CleanString(ne.ClassroomID.String()))
	ne.Status = core.CleanString(ne.Status, true /* lower */)
	if ne.Status == "" {
		ne.Status = Statuses.Default()
	}
	return validate.Struct(ne)
}

// UpdateExam carries the fields to change; zero fields are left untouched.
type UpdateExam struct {
	Title           string     `json:"title,omitempty"`
	ClassroomID     core.ID    `json:"classroom_id,omitempty"`
	Status          string     `json:"status,omitempty" validate:"omitempty,exam_status"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty" validate:"omitempty,gte=1,lte=720"`
}

func (ue *UpdateExam) Validate(validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	ue.ClassroomID = core.ID(core.CleanString(ue.ClassroomID.String()))
	ue.Status = core.CleanString(ue.Status, true /* lower */)
	if ue.Title == "" && ue.ClassroomID == "" && ue.Status == "" && ue.StartsAt == nil && ue.DurationMinutes == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: "nothing to update"})
	}
	return validate.Struct(ue)
}

type QueryFilter struct {
	Search   string `query:"q"`
	Status   string `query:"status"`
	CourseID string `query:"course_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.CourseID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.CourseID = core.CleanString(qf.CourseID)
}

func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	core.SetQuery(v, "status", qf.Status)
	core.SetQuery(v, "course_id", qf.CourseID)
	return v
}

type (
	ImportRowError struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	}

	ImportReport struct {
		Created int              `json:"created"`
		Failed  int              `json:"failed"`
		Errors  []ImportRowError `json:"errors,omitempty"`
	}
)
