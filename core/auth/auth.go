// Package auth logs console users in and out of the backend.
package auth

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
)

var errInvalidCredentials = errors.New("invalid credentials")

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// LoginResponse is what the token issuer answers to login and refresh calls.
	LoginResponse struct {
		Token string       `json:"token"`
		User  session.User `json:"user"`
	}

	Repository interface {
		Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
		Refresh(ctx context.Context) (LoginResponse, error)
		Logout(ctx context.Context) error
	}

	// Sessions persists sessions issued by the login and refresh paths.
	Sessions interface {
		Renew(sess session.Session) error
		Forget(token string) error
	}

	Service struct {
		repo       Repository
		sessions   Sessions
		validate   *validator.Validate
		translator ut.Translator
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func NewService(repo Repository, sessions Sessions, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, sessions: sessions, validate: validate, translator: translator}
}

func (svc *Service) Login(ctx context.Context, req LoginRequest) core.Result[session.Session] {
	if err := req.Validate(svc.validate); err != nil {
		return core.Fail[session.Session](err, svc.translator)
	}
	resp, err := svc.repo.Login(ctx, req)
	if err != nil {
		if core.IsUnauthorized(err) {
			err = core.NewValidationError(errInvalidCredentials)
		}
		return core.Fail[session.Session](errors.Wrap(err, "logging in"), svc.translator)
	}
	return svc.renew(resp)
}

func (svc *Service) Refresh(ctx context.Context) core.Result[session.Session] {
	resp, err := svc.repo.Refresh(ctx)
	if err != nil {
		return core.Fail[session.Session](errors.Wrap(err, "refreshing session"), svc.translator)
	}
	return svc.renew(resp)
}

// Logout tells the backend and always forgets the session locally.
func (svc *Service) Logout(ctx context.Context, token string) core.Result[struct{}] {
	err := svc.repo.Logout(ctx)
	if fErr := svc.sessions.Forget(token); fErr != nil {
		return core.Fail[struct{}](errors.Wrap(fErr, "forgetting session"), svc.translator)
	}
	if err != nil && !core.IsUnauthorized(err) {
		return core.Fail[struct{}](errors.Wrap(err, "logging out"), svc.translator)
	}
	return core.Ok(struct{}{})
}

func (svc *Service) renew(resp LoginResponse) core.Result[session.Session] {
	if resp.Token == "" {
		return core.Fail[session.Session](errors.New("token issuer returned no token"), svc.translator)
	}
	sess := session.FromToken(resp.Token, resp.User)
	if err := svc.sessions.Renew(sess); err != nil {
		return core.Fail[session.Session](errors.Wrap(err, "renewing session"), svc.translator)
	}
	return core.Ok(sess)
}
