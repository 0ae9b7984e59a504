package main

import (
	"context"
	"flag"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
)

func (cli *commandLine) coursesListing(qf course.QueryFilter) listing[course.Courses] {
	qf.Clean()
	return listing[course.Courses]{
		fetch: func(ctx context.Context) core.Result[course.Courses] {
			return cli.svcs.Courses.List(ctx, course.QueryFilter{})
		},
		filter: func(cs course.Courses) course.Courses { return course.Courses{Courses: course.Filter(cs.Courses, qf)} },
		render: renderCourses,
	}
}

func (cli *commandLine) listCourses(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf course.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search code, title and description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, 0, cli.coursesListing(qf))
}

func (cli *commandLine) createCourse(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		nc         course.NewCourse
		instructor string
	)
	fs.StringVar(&nc.Code, "code", "", "course code")
	fs.StringVar(&nc.Title, "title", "", "course title")
	fs.StringVar(&nc.Description, "description", "", "course description")
	fs.StringVar(&instructor, "instructor", "", "instructor user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, nc.Code, nc.Title); err != nil {
		return err
	}
	nc.InstructorID = core.ID(instructor)
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Courses.Create(ctx, nc).Detail
	}, "Course created.", cli.coursesListing(course.QueryFilter{}))
}

func (cli *commandLine) deleteCourse(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id); err != nil {
		return err
	}
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Courses.Delete(ctx, core.ID(*id)).Detail
	}, "Course deleted.", cli.coursesListing(course.QueryFilter{}))
}

func (cli *commandLine) classroomsListing(qf classroom.QueryFilter) listing[classroom.Classrooms] {
	qf.Clean()
	return listing[classroom.Classrooms]{
		fetch: func(ctx context.Context) core.Result[classroom.Classrooms] {
			return cli.svcs.Classrooms.List(ctx, classroom.QueryFilter{})
		},
		filter: func(cs classroom.Classrooms) classroom.Classrooms {
			return classroom.Classrooms{Classrooms: classroom.Filter(cs.Classrooms, qf)}
		},
		render: renderClassrooms,
	}
}

func (cli *commandLine) listClassrooms(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf classroom.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search name and location")
	fs.StringVar(&qf.CourseID, "course", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, 0, cli.classroomsListing(qf))
}

func (cli *commandLine) createClassroom(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		nc       classroom.NewClassroom
		courseID string
	)
	fs.StringVar(&nc.Name, "name", "", "classroom name")
	fs.StringVar(&courseID, "course", "", "course id")
	fs.IntVar(&nc.Capacity, "capacity", 0, "number of seats")
	fs.StringVar(&nc.Location, "location", "", "building and room")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, nc.Name, courseID); err != nil {
		return err
	}
	nc.CourseID = core.ID(courseID)
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Classrooms.Create(ctx, nc).Detail
	}, "Classroom created.", cli.classroomsListing(classroom.QueryFilter{}))
}

func (cli *commandLine) examsListing(qf exam.QueryFilter) listing[exam.Exams] {
	qf.Clean()
	return listing[exam.Exams]{
		fetch: func(ctx context.Context) core.Result[exam.Exams] {
			return cli.svcs.Exams.List(ctx, exam.QueryFilter{})
		},
		filter: func(es exam.Exams) exam.Exams { return exam.Exams{Exams: exam.Filter(es.Exams, qf)} },
		render: renderExams,
	}
}

func (cli *commandLine) listExams(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf exam.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search title")
	fs.StringVar(&qf.Status, "status", "", "draft, scheduled, live, completed or archived")
	fs.StringVar(&qf.CourseID, "course", "", "course id")
	every := fs.Duration("watch", 0, "refresh every DURATION")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, *every, cli.examsListing(qf))
}

func (cli *commandLine) createExam(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		ne                         exam.NewExam
		courseID, roomID, startsAt string
	)
	fs.StringVar(&ne.Title, "title", "", "exam title")
	fs.StringVar(&courseID, "course", "", "course id")
	fs.StringVar(&roomID, "classroom", "", "classroom id")
	fs.StringVar(&startsAt, "starts", "", "start time, RFC3339")
	fs.IntVar(&ne.DurationMinutes, "duration", 60, "duration in minutes")
	fs.StringVar(&ne.Status, "status", "", "draft (default), scheduled, live, completed or archived")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, ne.Title, courseID, startsAt); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return errors.Wrap(err, "parsing -starts")
	}
	ne.CourseID, ne.ClassroomID, ne.StartsAt = core.ID(courseID), core.ID(roomID), t

	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Exams.Create(ctx, ne).Detail
	}, "Exam created.", cli.examsListing(exam.QueryFilter{}))
}

func (cli *commandLine) importExams(ctx context.Context, fs *flag.FlagSet, args []string) error {
	path := fs.String("file", "", "spreadsheet to import (.csv, .xls, .xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *path); err != nil {
		return err
	}
	return withFile(*path, func(name string, content io.Reader) error {
		return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
			res := cli.svcs.Exams.Import(ctx, name, content)
			if res.OK {
				rowErrs := make(map[int]string, len(res.Data.Errors))
				for _, e := range res.Data.Errors {
					rowErrs[e.Row] = e.Error
				}
				renderImport(cli.out, res.Data.Created, res.Data.Failed, rowErrs)
			}
			return res.Detail
		}, "Import done.", cli.examsListing(exam.QueryFilter{}))
	})
}

func (cli *commandLine) myExams(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, 0, listing[exam.Exams]{
		fetch:  cli.svcs.Exams.StudentExams,
		render: renderExams,
	})
}
