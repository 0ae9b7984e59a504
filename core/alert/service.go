// Package alert lists and resolves exam security alerts.
package alert

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Repository interface {
		List(ctx context.Context, filter QueryFilter) ([]Alert, error)
		Resolve(ctx context.Context, id core.ID, res Resolution) (Alert, error)
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

func (svc *Service) List(ctx context.Context, filter QueryFilter) core.Result[Alerts] {
	filter.Clean()
	alerts, err := svc.repo.List(ctx, filter)
	if err != nil {
		return core.Fail[Alerts](errors.Wrap(err, "listing alerts"), svc.translator)
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	return core.Ok(Alerts{Alerts: alerts})
}

func (svc *Service) Resolve(ctx context.Context, id core.ID, note string) core.Result[Alert] {
	if err := core.RequireID(id); err != nil {
		return core.Fail[Alert](err, svc.translator)
	}
	res := Resolution{Note: core.CleanString(note)}
	if err := svc.validate.Struct(res); err != nil {
		return core.Fail[Alert](err, svc.translator)
	}
	a, err := svc.repo.Resolve(ctx, id, res)
	return core.ResultOf(a, errors.Wrap(err, "resolving alert"), svc.translator)
}
