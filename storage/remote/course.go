package remoterepos

import (
	"context"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/course"
)

const coursesPath = "/admin/courses"

type courseRepository struct {
	c *client.Client
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func (r *Repos) Courses() course.Repository { return &courseRepository{c: r.c} }

func (repo *courseRepository) List(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	var out course.Courses
	err := repo.c.JSON(ctx, client.Request{Path: coursesPath, Query: filter.Values()}, &out)
	return out.Courses, err
}

func (repo *courseRepository) Get(ctx context.Context, id core.ID) (course.Course, error) {
	return repo.one(ctx, client.Request{Path: resource(coursesPath, id)})
}

func (repo *courseRepository) Create(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPost, Path: coursesPath, JSON: nc})
}

func (repo *courseRepository) Update(ctx context.Context, id core.ID, uc course.UpdateCourse) (course.Course, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPatch, Path: resource(coursesPath, id), JSON: uc})
}

func (repo *courseRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := repo.c.Do(ctx, client.Request{Method: http.MethodDelete, Path: resource(coursesPath, id)})
	return err
}

func (repo *courseRepository) one(ctx context.Context, req client.Request) (course.Course, error) {
	var out struct {
		Course course.Course `json:"course"`
	}
	err := repo.c.JSON(ctx, req, &out)
	return out.Course, err
}
