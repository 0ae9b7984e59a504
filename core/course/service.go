// Package course manages the course catalogue.
package course

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Repository interface {
		List(ctx context.Context, filter QueryFilter) ([]Course, error)
		Get(ctx context.Context, id core.ID) (Course, error)
		Create(ctx context.Context, nc NewCourse) (Course, error)
		Update(ctx context.Context, id core.ID, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, id core.ID) error
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

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Courses] {
	filter.Clean()
	courses, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Courses](errors.Wrap(err, "listing courses"), svc.translator)
	}
	if courses == nil {
		courses = []Course{}
	}
	return core.Ok(Courses{Courses: courses})
}

func (svc *Service) Get(ctx context.Context, id core.ID) core.Result[Course] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Course](err, svc.translator)
	}
	c, err := svc.repo.Get(ctx, id)
	return core.ResultOf(c, errors.Wrap(err, "getting course"), svc.translator)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) core.Result[Course] {
	if err := nc.Validate(svc.validate); err != nil {
		return core.Fail[Course](err, svc.translator)
	}
	c, err := svc.repo.Create(ctx, nc)
	return core.ResultOf(c, errors.Wrap(err, "creating course"), svc.translator)
}

func (svc *Service) Update(ctx context.Context, id core.ID, uc UpdateCourse) core.Result[Course] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Course](err, svc.translator)
	}
	if err := uc.Validate(svc.validate); err != nil {
		return core.Fail[Course](err, svc.translator)
	}
	c, err := svc.repo.Update(ctx, id, uc)
	return core.ResultOf(c, errors.Wrap(err, "updating course"), svc.translator)
}

func (svc *Service) Delete(ctx context.Context, id core.ID) core.Result[struct{}] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[struct{}](err, svc.translator)
	}
	err := svc.repo.Delete(ctx, id)
	return core.ResultOf(struct{}{}, errors.Wrap(err, "deleting course"), svc.translator)
}
