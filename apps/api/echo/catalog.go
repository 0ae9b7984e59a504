package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/user"
)

type catalogApi struct {
	courses    *course.Service
	classrooms *classroom.Service
	exams      *exam.Service
}

func registerCatalogAPI(g *echo.Group, authed echo.MiddlewareFunc, svcs *shared.Services) {
	api := catalogApi{courses: svcs.Courses, classrooms: svcs.Classrooms, exams: svcs.Exams}
	staff := roleMiddleware(user.RoleAdmin, user.RoleInstructor)

	cg := g.Group("/courses", authed)
	cg.GET("", api.queryCourses)
	cg.POST("", api.createCourse, staff)
	cg.GET("/:id", api.retrieveCourse)
	cg.PUT("/:id", api.updateCourse, staff)
	cg.DELETE("/:id", api.destroyCourse, staff)

	rg := g.Group("/classrooms", authed)
	rg.GET("", api.queryClassrooms)
	rg.POST("", api.createClassroom, staff)
	rg.GET("/:id", api.retrieveClassroom)
	rg.PUT("/:id", api.updateClassroom, staff)
	rg.DELETE("/:id", api.destroyClassroom, staff)

	eg := g.Group("/exams", authed)
	eg.GET("", api.queryExams)
	eg.POST("", api.createExam, staff)
	eg.POST("/import", api.importExams, staff)
	eg.GET("/:id", api.retrieveExam)
	eg.PUT("/:id", api.updateExam, staff)
	eg.DELETE("/:id", api.destroyExam, staff)

	g.GET("/student/exams", api.studentExams, authed)
}

// Courses

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	var qf course.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.courses.List(ctx.Request().Context(), qf))
}

func (api *catalogApi) createCourse(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	return respond(ctx, http.StatusCreated, api.courses.Create(ctx.Request().Context(), data))
}

func (api *catalogApi) retrieveCourse(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.courses.Get(ctx.Request().Context(), pathID(ctx)))
}

func (api *catalogApi) updateCourse(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	return respond(ctx, http.StatusOK, api.courses.Update(ctx.Request().Context(), pathID(ctx), data))
}

func (api *catalogApi) destroyCourse(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.courses.Delete(ctx.Request().Context(), pathID(ctx)))
}

// Classrooms

func (api *catalogApi) queryClassrooms(ctx echo.Context) error {
	var qf classroom.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.classrooms.List(ctx.Request().Context(), qf))
}

func (api *catalogApi) createClassroom(ctx echo.Context) error {
	var data classroom.NewClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassroom")
	}
	return respond(ctx, http.StatusCreated, api.classrooms.Create(ctx.Request().Context(), data))
}

func (api *catalogApi) retrieveClassroom(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.classrooms.Get(ctx.Request().Context(), pathID(ctx)))
}

func (api *catalogApi) updateClassroom(ctx echo.Context) error {
	var data classroom.UpdateClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassroom")
	}
	return respond(ctx, http.StatusOK, api.classrooms.Update(ctx.Request().Context(), pathID(ctx), data))
}

func (api *catalogApi) destroyClassroom(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.classrooms.Delete(ctx.Request().Context(), pathID(ctx)))
}

// Exams

func (api *catalogApi) queryExams(ctx echo.Context) error {
	var qf exam.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.exams.List(ctx.Request().Context(), qf))
}

func (api *catalogApi) createExam(ctx echo.Context) error {
	var data exam.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	return respond(ctx, http.StatusCreated, api.exams.Create(ctx.Request().Context(), data))
}

func (api *catalogApi) importExams(ctx echo.Context) error {
	fh, f, err := uploaded(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	return respond(ctx, http.StatusOK, api.exams.Import(ctx.Request().Context(), fh.Filename, f))
}

func (api *catalogApi) retrieveExam(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.exams.Get(ctx.Request().Context(), pathID(ctx)))
}

func (api *catalogApi) updateExam(ctx echo.Context) error {
	var data exam.UpdateExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateExam")
	}
	return respond(ctx, http.StatusOK, api.exams.Update(ctx.Request().Context(), pathID(ctx), data))
}

func (api *catalogApi) destroyExam(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.exams.Delete(ctx.Request().Context(), pathID(ctx)))
}

func (api *catalogApi) studentExams(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.exams.StudentExams(ctx.Request().Context()))
}
