// Package exam schedules exams and imports exam timetables.
package exam

import (
	"context"
	"io"
	"path/filepath"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Repository interface {
		List(ctx context.Context, filter QueryFilter) ([]Exam, error)
		Get(ctx context.Context, id core.ID) (Exam, error)
		Create(ctx context.Context, ne NewExam) (Exam, error)
		Update(ctx context.Context, id core.ID, ue UpdateExam) (Exam, error)
		Delete(ctx context.Context, id core.ID) error
		Import(ctx context.Context, filename string, content io.Reader) (ImportReport, error)
		// StudentExams lists the exams of the authenticated student.
		StudentExams(ctx context.Context) ([]Exam, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Exams] {
	filter.Clean()
	exams, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Exams](errors.Wrap(err, "listing exams"), svc.translator)
	}
	return core.Ok(Exams{Exams: nonNil(exams)})
}

func (svc *Service) Get(ctx context.Context, id core.ID) core.Result[Exam] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Exam](err, svc.translator)
	}
	e, err := svc.repo.Get(ctx, id)
	return core.ResultOf(e, errors.Wrap(err, "getting exam"), svc.translator)
}

func (svc *Service) Create(ctx context.Context, ne NewExam) core.Result[Exam] {
	if err := ne.Validate(svc.validate); err != nil {
		return core.Fail[Exam](err, svc.translator)
	}
	e, err := svc.repo.Create(ctx, ne)
	return core.ResultOf(e, errors.Wrap(err, "creating exam"), svc.translator)
}

func (svc *Service) Update(ctx context.Context, id core.ID, ue UpdateExam) core.Result[Exam] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Exam](err, svc.translator)
	}
	if err := ue.Validate(svc.validate); err != nil {
		return core.Fail[Exam](err, svc.translator)
	}
	e, err := svc.repo.Update(ctx, id, ue)
	return core.ResultOf(e, errors.Wrap(err, "updating exam"), svc.translator)
}

func (svc *Service) Delete(ctx context.Context, id core.ID) core.Result[struct{}] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[struct{}](err, svc.translator)
	}
	err := svc.repo.Delete(ctx, id)
	return core.ResultOf(struct{}{}, errors.Wrap(err, "deleting exam"), svc.translator)
}

func (svc *Service) Import(ctx context.Context, filename string, content io.Reader) core.Result[ImportReport] {
	if err := core.CheckSpreadsheet(filename); err != nil {
		return core.Fail[ImportReport](err, svc.translator)
	}
	report, err := svc.repo.Import(ctx, filepath.Base(filename), content)
	return core.ResultOf(report, errors.Wrap(err, "importing exams"), svc.translator)
}

func (svc *Service) StudentExams(ctx context.Context) core.Result[Exams] {
	exams, err := svc.repo.StudentExams(ctx)
	if err != nil {
		return core.Fail[Exams](errors.Wrap(err, "listing student exams"), svc.translator)
	}
	return core.Ok(Exams{Exams: nonNil(exams)})
}

func nonNil(exams []Exam) []Exam {
	if exams == nil {
		return []Exam{}
	}
	return exams
}
