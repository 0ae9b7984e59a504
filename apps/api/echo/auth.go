package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/session"
)

const (
	sessionCookie     = "proctor_session"
	contextSessionKey = "session"
)

type authApi struct {
	deps Deps
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, deps Deps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/refresh", api.refresh, authed)
	ag.POST("/logout", api.logout, authed)

	g.GET("/session", api.current, authed)
}

// sessionMiddleware resolves the browser session from its cookie or bearer token and forwards the token
// to the backend through the request context.
func sessionMiddleware(sessions *session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := sessions.Get(requestToken(ctx))
			if !ok || sess.Expired(time.Now()) {
				return fail(errUnauthenticated)
			}
			ctx.Set(contextSessionKey, sess)
			req := ctx.Request()
			ctx.SetRequest(req.WithContext(client.ContextWithToken(req.Context(), sess.Token)))
			return next(ctx)
		}
	}
}

func requestToken(ctx echo.Context) string {
	if h := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := ctx.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func contextSession(ctx echo.Context) (session.Session, bool) {
	sess, ok := ctx.Get(contextSessionKey).(session.Session)
	return sess, ok
}

func setSessionCookie(ctx echo.Context, sess session.Session, secure bool) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !sess.ExpiresAt.IsZero() {
		c.Expires = sess.ExpiresAt
	}
	ctx.SetCookie(c)
}

func clearSessionCookie(ctx echo.Context, secure bool) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data auth.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	res := api.deps.Services.Auth.Login(ctx.Request().Context(), data)
	if !res.OK {
		return fail(res.Detail)
	}
	setSessionCookie(ctx, res.Data, api.deps.Conf.Server.CookieSecure)
	return ctx.JSON(http.StatusOK, res)
}

func (api *authApi) refresh(ctx echo.Context) error {
	old, _ := contextSession(ctx)
	res := api.deps.Services.Auth.Refresh(ctx.Request().Context())
	if !res.OK {
		return fail(res.Detail)
	}
	if old.Token != res.Data.Token {
		api.deps.Sessions.Delete(old.Token)
	}
	setSessionCookie(ctx, res.Data, api.deps.Conf.Server.CookieSecure)
	return ctx.JSON(http.StatusOK, res)
}

func (api *authApi) logout(ctx echo.Context) error {
	sess, _ := contextSession(ctx)
	res := api.deps.Services.Auth.Logout(ctx.Request().Context(), sess.Token)
	clearSessionCookie(ctx, api.deps.Conf.Server.CookieSecure)
	if !res.OK {
		return fail(res.Detail)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *authApi) current(ctx echo.Context) error {
	sess, _ := contextSession(ctx)
	return ctx.JSON(http.StatusOK, core.Ok(sess))
}
