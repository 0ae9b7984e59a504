package course

import (
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
)

type Course struct {
	ID           core.ID   `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	InstructorID core.ID   `json:"instructor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Courses is the list payload: {"courses": [...]}.
type Courses struct {
	Courses []Course `json:"courses"`
}

type NewCourse struct {
	Code         string  `json:"code" validate:"required,min=2,max=20,alphanum_"`
	Title        string  `json:"title" validate:"notblank"`
	Description  string  `json:"description,omitempty"`
	InstructorID core.ID `json:"instructor_id,omitempty"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// UpdateCourse carries the fields to change; blank fields are left untouched.
type UpdateCourse struct {
	Code         string  `json:"code,omitempty" validate:"omitempty,min=2,max=20,alphanum_"`
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	InstructorID core.ID `json:"instructor_id,omitempty"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Code = core.CleanString(uc.Code)
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	if uc.Code == "" && uc.Title == "" && uc.Description == "" && uc.InstructorID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: "nothing to update"})
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search string `query:"q"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf.Search == "" }

func (qf *QueryFilter) Clean() { qf.Search = core.CleanString(qf.Search) }

func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	return v
}
