package remoterepos

import (
	"context"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/classroom"
)

const classroomsPath = "/admin/classrooms"

type classroomRepository struct {
	c *client.Client
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func (r *Repos) Classrooms() classroom.Repository { return &classroomRepository{c: r.c} }

func (repo *classroomRepository) List(ctx context.Context, filter classroom.QueryFilter) ([]classroom.Classroom, error) {
	var out classroom.Classrooms
	err := repo.c.JSON(ctx, client.Request{Path: classroomsPath, Query: filter.Values()}, &out)
	return out.Classrooms, err
}

func (repo *classroomRepository) Get(ctx context.Context, id core.ID) (classroom.Classroom, error) {
	return repo.one(ctx, client.Request{Path: resource(classroomsPath, id)})
}

func (repo *classroomRepository) Create(ctx context.Context, nc classroom.NewClassroom) (classroom.Classroom, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPost, Path: classroomsPath, JSON: nc})
}

func (repo *classroomRepository) Update(ctx context.Context, id core.ID, uc classroom.UpdateClassroom) (classroom.Classroom, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPatch, Path: resource(classroomsPath, id), JSON: uc})
}

func (repo *classroomRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := repo.c.Do(ctx, client.Request{Method: http.MethodDelete, Path: resource(classroomsPath, id)})
	return err
}

func (repo *classroomRepository) one(ctx context.Context, req client.Request) (classroom.Classroom, error) {
	var out struct {
		Classroom classroom.Classroom `json:"classroom"`
	}
	err := repo.c.JSON(ctx, req, &out)
	return out.Classroom, err
}
