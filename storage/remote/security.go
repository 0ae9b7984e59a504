package remoterepos

import (
	"context"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
)

const (
	auditPath  = "/admin/audit"
	alertsPath = "/admin/security/alerts"
)

type (
	auditRepository struct {
		c *client.Client
	}

	alertRepository struct {
		c *client.Client
	}
)

var (
	_ audit.Repository = (*auditRepository)(nil) // interface compliance check
	_ alert.Repository = (*alertRepository)(nil) // interface compliance check
)

func (r *Repos) Audit() audit.Repository { return &auditRepository{c: r.c} }

func (r *Repos) Alerts() alert.Repository { return &alertRepository{c: r.c} }

func (repo *auditRepository) List(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	var out audit.Events
	err := repo.c.JSON(ctx, client.Request{Path: auditPath, Query: filter.Values()}, &out)
	return out.Events, err
}

func (repo *alertRepository) List(ctx context.Context, filter alert.QueryFilter) ([]alert.Alert, error) {
	var out alert.Alerts
	err := repo.c.JSON(ctx, client.Request{Path: alertsPath, Query: filter.Values()}, &out)
	return out.Alerts, err
}

func (repo *alertRepository) Resolve(ctx context.Context, id core.ID, res alert.Resolution) (alert.Alert, error) {
	var out struct {
		Alert alert.Alert `json:"alert"`
	}
	err := repo.c.JSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   resource(alertsPath, id, "resolve"),
		JSON:   res,
	}, &out)
	return out.Alert, err
}
