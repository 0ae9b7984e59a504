// Package classroom manages the rooms exams are sat in.
package classroom

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Repository interface {
		List(ctx context.Context, filter QueryFilter) ([]Classroom, error)
		Get(ctx context.Context, id core.ID) (Classroom, error)
		Create(ctx context.Context, nc NewClassroom) (Classroom, error)
		Update(ctx context.Context, id core.ID, uc UpdateClassroom) (Classroom, error)
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

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Classrooms] {
	filter.Clean()
	rooms, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Classrooms](errors.Wrap(err, "listing classrooms"), svc.translator)
	}
	if rooms == nil {
		rooms = []Classroom{}
	}
	return core.Ok(Classrooms{Classrooms: rooms})
}

func (svc *Service) Get(ctx context.Context, id core.ID) core.Result[Classroom] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Classroom](err, svc.translator)
	}
	room, err := svc.repo.Get(ctx, id)
	return core.ResultOf(room, errors.Wrap(err, "getting classroom"), svc.translator)
}

func (svc *Service) Create(ctx context.Context, nc NewClassroom) core.Result[Classroom] {
	if err := nc.Validate(svc.validate); err != nil {
		return core.Fail[Classroom](err, svc.translator)
	}
	room, err := svc.repo.Create(ctx, nc)
	return core.ResultOf(room, errors.Wrap(err, "creating classroom"), svc.translator)
}

func (svc *Service) Update(ctx context.Context, id core.ID, uc UpdateClassroom) core.Result[Classroom] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Classroom](err, svc.translator)
	}
	if err := uc.Validate(svc.validate); err != nil {
		return core.Fail[Classroom](err, svc.translator)
	}
	room, err := svc.repo.Update(ctx, id, uc)
	return core.ResultOf(room, errors.Wrap(err, "updating classroom"), svc.translator)
}

func (svc *Service) Delete(ctx context.Context, id core.ID) core.Result[struct{}] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[struct{}](err, svc.translator)
	}
	err := svc.repo.Delete(ctx, id)
	return core.ResultOf(struct{}{}, errors.Wrap(err, "deleting classroom"), svc.translator)
}
