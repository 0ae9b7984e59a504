package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svcs *shared.Services) {
	api := userApi{svc: svcs.Users}

	ug := g.Group("/users", authed, adminMiddleware())
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.POST("/import", api.bulkImport)

	// detail endpoints
	dg := ug.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PATCH("/status", api.setStatus)
	dg.PATCH("/role", api.setRole)
	dg.PUT("/permissions", api.setPermissions)
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	var qf user.QueryFilter
	if err := bindFilter(ctx, &qf, &qf.Search); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.svc.List(ctx.Request().Context(), qf))
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	return respond(ctx, http.StatusCreated, api.svc.Create(ctx.Request().Context(), data))
}

func (api *userApi) retrieve(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.svc.Get(ctx.Request().Context(), pathID(ctx)))
}

func (api *userApi) update(ctx echo.Context) error {
	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	return respond(ctx, http.StatusOK, api.svc.Update(ctx.Request().Context(), pathID(ctx), data))
}

func (api *userApi) destroy(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.svc.Delete(ctx.Request().Context(), pathID(ctx)))
}

func (api *userApi) setStatus(ctx echo.Context) error {
	var data struct {
		Status string `json:"status"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding status")
	}
	return respond(ctx, http.StatusOK, api.svc.SetStatus(ctx.Request().Context(), pathID(ctx), data.Status))
}

func (api *userApi) setRole(ctx echo.Context) error {
	var data struct {
		Role string `json:"role"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding role")
	}
	return respond(ctx, http.StatusOK, api.svc.SetRole(ctx.Request().Context(), pathID(ctx), data.Role))
}

func (api *userApi) setPermissions(ctx echo.Context) error {
	var data struct {
		Permissions []string `json:"permissions"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding permissions")
	}
	return respond(ctx, http.StatusOK, api.svc.SetPermissions(ctx.Request().Context(), pathID(ctx), data.Permissions))
}

func (api *userApi) bulkImport(ctx echo.Context) error {
	fh, f, err := uploaded(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	return respond(ctx, http.StatusOK, api.svc.BulkImport(ctx.Request().Context(), fh.Filename, f))
}
