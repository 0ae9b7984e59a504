package inmemdb

import (
	"context"
	"net/http"
	"strings"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func courseID(c course.Course) core.ID { return c.ID }

func (repo *courseRepository) List(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()
	return course.Filter(repo.db.course.all(), filter), nil
}

func (repo *courseRepository) Get(_ context.Context, id core.ID) (course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	if i := repo.db.course.index(id, courseID); i >= 0 {
		return repo.db.course.rows[i], nil
	}
	return course.Course{}, notFound("course")
}

func (repo *courseRepository) Create(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	repo.db.course.Lock()
	for _, c := range repo.db.course.rows {
		if strings.EqualFold(c.Code, nc.Code) {
			repo.db.course.Unlock()
			return course.Course{}, conflict("code", "course code already exists")
		}
	}
	c := course.Course{
		ID:           newID(),
		Code:         nc.Code,
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: nc.InstructorID,
		CreatedAt:    repo.db.now().UTC(),
	}
	repo.db.course.rows = append(repo.db.course.rows, c)
	repo.db.course.Unlock()

	repo.db.record(ctx, "course.create", "course:"+c.Code, "")
	return c, nil
}

func (repo *courseRepository) Update(ctx context.Context, id core.ID, uc course.UpdateCourse) (course.Course, error) {
	repo.db.course.Lock()
	i := repo.db.course.index(id, courseID)
	if i < 0 {
		repo.db.course.Unlock()
		return course.Course{}, notFound("course")
	}
	c := repo.db.course.rows[i]
	if uc.Code != "" {
		c.Code = uc.Code
	}
	if uc.Title != "" {
		c.Title = uc.Title
	}
	if uc.Description != "" {
		c.Description = uc.Description
	}
	if uc.InstructorID != "" {
		c.InstructorID = uc.InstructorID
	}
	repo.db.course.rows[i] = c
	repo.db.course.Unlock()

	repo.db.record(ctx, "course.update", "course:"+c.Code, "")
	return c, nil
}

// Delete refuses to remove a course that still has exams.
func (repo *courseRepository) Delete(ctx context.Context, id core.ID) error {
	repo.db.exam.RLock()
	for _, e := range repo.db.exam.rows {
		if e.CourseID == id {
			repo.db.exam.RUnlock()
			return &core.APIError{Status: http.StatusConflict, Message: "course still has exams"}
		}
	}
	repo.db.exam.RUnlock()

	repo.db.course.Lock()
	i := repo.db.course.index(id, courseID)
	if i < 0 {
		repo.db.course.Unlock()
		return notFound("course")
	}
	code := repo.db.course.rows[i].Code
	repo.db.course.remove(i)
	repo.db.course.Unlock()

	repo.db.record(ctx, "course.delete", "course:"+code, "")
	return nil
}

// courseExists is used by the tables referencing courses.
func (db *DB) courseExists(id core.ID) bool {
	db.course.RLock()
	defer db.course.RUnlock()
	return db.course.index(id, courseID) >= 0
}

func unknownCourse() error {
	return &core.APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "unknown course",
		Fields:  map[string]string{"course_id": "unknown course"},
	}
}
