package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/bot"
	"github.com/trezcool/proctor/core/overview"
	"github.com/trezcool/proctor/core/user"
)

type securityApi struct {
	audit    *audit.Service
	alerts   *alert.Service
	bot      *bot.Service
	overview *overview.Service
}

func registerSecurityAPI(g *echo.Group, authed echo.MiddlewareFunc, svcs *shared.Services) {
	api := securityApi{audit: svcs.Audit, alerts: svcs.Alerts, bot: svcs.Bot, overview: svcs.Overview}

	g.GET("/overview", api.summary, authed, adminMiddleware())
	g.GET("/audit", api.queryAudit, authed, adminMiddleware())

	sg := g.Group("/alerts", authed, roleMiddleware(user.RoleAdmin, user.RoleProctor))
	sg.GET("", api.queryAlerts)
	sg.POST("/:id/resolve", api.resolveAlert)

	bg := g.Group("/bot", authed)
	bg.POST("/chat", api.chat)
	bg.GET("/status", api.botStatus)
}

func (api *securityApi) summary(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.overview.Summary(ctx.Request().Context()))
}

func (api *securityApi) queryAudit(ctx echo.Context) error {
	var qf audit.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.audit.List(ctx.Request().Context(), qf))
}

func (api *securityApi) queryAlerts(ctx echo.Context) error {
	var qf alert.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.alerts.List(ctx.Request().Context(), qf))
}

func (api *securityApi) resolveAlert(ctx echo.Context) error {
	var data alert.Resolution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Resolution")
	}
	return respond(ctx, http.StatusOK, api.alerts.Resolve(ctx.Request().Context(), pathID(ctx), data.Note))
}

func (api *securityApi) chat(ctx echo.Context) error {
	var data bot.Message
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Message")
	}
	return respond(ctx, http.StatusOK, api.bot.Chat(ctx.Request().Context(), data.Message))
}

func (api *securityApi) botStatus(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.bot.Status(ctx.Request().Context()))
}
