package classroom

import (
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
)

type Classroom struct {
	ID       core.ID `json:"id"`
	Name     string  `json:"name"`
	CourseID core.ID `json:"course_id"`
	Capacity int     `json:"capacity"`
	Location string  `json:"location,omitempty"`
}

// Classrooms is the list payload: {"classrooms": [...]}.
type Classrooms struct {
	Classrooms []Classroom `json:"classrooms"`
}

type NewClassroom struct {
	Name     string  `json:"name" validate:"notblank"`
	CourseID core.ID `json:"course_id" validate:"required"`
	Capacity int     `json:"capacity" validate:"gte=1,lte=1000"`
	Location string  `json:"location,omitempty"`
}

func (nc *NewClassroom) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.CourseID = core.ID(core.CleanString(nc.CourseID.String()))
	nc.Location = core.CleanString(nc.Location)
	return validate.Struct(nc)
}

// UpdateClassroom carries the fields to change; zero fields are left untouched.
type UpdateClassroom struct {
	Name     string  `json:"name,omitempty"`
	CourseID core.ID `json:"course_id,omitempty"`
	Capacity int     `json:"capacity,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Location string  `json:"location,omitempty"`
}

func (uc *UpdateClassroom) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	uc.CourseID = core.ID(core.CleanString(uc.CourseID.String()))
	uc.Location = core.CleanString(uc.Location)
	if uc.Name == "" && uc.CourseID == "" && uc.Capacity == 0 && uc.Location == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "nothing to update"})
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search   string `query:"q"`
	CourseID string `query:"course_id"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf.Search == "" && qf.CourseID == "" }

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
}

func (qf QueryFilter) Values() url.Values {
	v := make(url.Values)
	core.SetQuery(v, "q", qf.Search)
	core.SetQuery(v, "course_id", qf.CourseID)
	return v
}
