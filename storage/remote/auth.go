package remoterepos

import (
	"context"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/bot"
)

type (
	authRepository struct {
		c *client.Client
	}

	botRepository struct {
		c *client.Client
	}
)

var (
	_ auth.Repository = (*authRepository)(nil) // interface compliance check
	_ bot.Repository  = (*botRepository)(nil)  // interface compliance check
)

func (r *Repos) Auth() auth.Repository { return &authRepository{c: r.c} }

func (r *Repos) Bot() bot.Repository { return &botRepository{c: r.c} }

func (repo *authRepository) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	err := repo.c.JSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		JSON:   req,
	}, &resp)
	return resp, err
}

func (repo *authRepository) Refresh(ctx context.Context) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	err := repo.c.JSON(ctx, client.Request{Method: http.MethodPost, Path: "/auth/refresh"}, &resp)
	return resp, err
}

func (repo *authRepository) Logout(ctx context.Context) error {
	_, err := repo.c.Do(ctx, client.Request{Method: http.MethodPost, Path: "/auth/logout"})
	return err
}

func (repo *botRepository) Chat(ctx context.Context, msg bot.Message) (bot.Reply, error) {
	var reply bot.Reply
	err := repo.c.JSON(ctx, client.Request{Method: http.MethodPost, Path: "/bot/chat", JSON: msg}, &reply)
	return reply, err
}

func (repo *botRepository) Status(ctx context.Context) (bot.Status, error) {
	var st bot.Status
	err := repo.c.JSON(ctx, client.Request{Path: "/bot/status"}, &st)
	return st, err
}
