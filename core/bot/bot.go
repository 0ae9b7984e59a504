// Package bot relays messages to the assistant chat backend.
package bot

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

type (
	Message struct {
		Message string `json:"message" validate:"notblank,max=2000"`
	}

	Reply struct {
		Reply string    `json:"reply"`
		At    time.Time `json:"at"`
	}

	Status struct {
		Online bool   `json:"online"`
		Model  string `json:"model,omitempty"`
	}

	Repository interface {
		Chat(ctx context.Context, msg Message) (Reply, error)
		Status(ctx context.Context) (Status, error)
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

func (svc *Service) Chat(ctx context.Context, message string) core.Result[Reply] {
	msg := Message{Message: core.CleanString(message)}
	if err := svc.validate.Struct(msg); err != nil {
		return core.Fail[Reply](err, svc.translator)
	}
	reply, err := svc.repo.Chat(ctx, msg)
	return core.ResultOf(reply, errors.Wrap(err, "chatting with bot"), svc.translator)
}

func (svc *Service) Status(ctx context.Context) core.Result[Status] {
	st, err := svc.repo.Status(ctx)
	return core.ResultOf(st, errors.Wrap(err, "getting bot status"), svc.translator)
}
