package course

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/core"
)

type repoStub struct {
	Repository // unused methods panic
	created    NewCourse
	deleted    core.ID
}

func (r *repoStub) Create(_ context.Context, nc NewCourse) (Course, error) {
	r.created = nc
	return Course{ID: "c1", Code: nc.Code, Title: nc.Title}, nil
}

func (r *repoStub) Delete(_ context.Context, id core.ID) error {
	if id != "c1" {
		return core.NewNotFoundError("course not found")
	}
	r.deleted = id
	return nil
}

func setup() (*Service, *repoStub) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	repo := &repoStub{}
	return NewService(repo, validate, translator), repo
}

func TestFilter(t *testing.T) {
	courses := []Course{
		{ID: "1", Code: "CS101", Title: "Intro to Programming"},
		{ID: "2", Code: "MA201", Title: "Linear Algebra", Description: "vectors and matrices"},
		{ID: "3", Code: "CS240", Title: "Databases"},
	}

	assert.Equal(t, courses, Filter(courses, QueryFilter{}))
	assert.Equal(t, []Course{courses[0], courses[2]}, Filter(courses, QueryFilter{Search: "cs"}))
	assert.Equal(t, []Course{courses[1]}, Filter(courses, QueryFilter{Search: "MATRIC"}))
	assert.Empty(t, Filter(courses, QueryFilter{Search: "chemistry"}))
	assert.Equal(t, "q=abc", QueryFilter{Search: "abc"}.Values().Encode())
}

func TestService_Create(t *testing.T) {
	svc, repo := setup()

	res := svc.Create(context.Background(), NewCourse{Code: " CS101 ", Title: " Intro "})
	require.True(t, res.OK)
	assert.Equal(t, "CS101", repo.created.Code)
	assert.Equal(t, "Intro", res.Data.Title)

	res = svc.Create(context.Background(), NewCourse{Code: "C", Title: ""})
	require.False(t, res.OK)
	assert.Equal(t, core.ErrValidation, res.Detail.Kind)
	assert.Contains(t, res.Detail.Fields, "code")
	assert.Equal(t, "this field cannot be blank", res.Detail.Fields["title"])
}

func TestService_Delete(t *testing.T) {
	svc, repo := setup()

	res := svc.Delete(context.Background(), "c1")
	require.True(t, res.OK)
	assert.Equal(t, core.ID("c1"), repo.deleted)

	res = svc.Delete(context.Background(), "nope")
	require.False(t, res.OK)
	assert.Equal(t, core.ErrAPI, res.Detail.Kind)
	assert.Equal(t, 404, res.Detail.Status)
	assert.Equal(t, "course not found", res.Detail.Message)

	res = svc.Delete(context.Background(), " ")
	require.False(t, res.OK)
	assert.Equal(t, "this field is required", res.Detail.Fields["id"])
}
