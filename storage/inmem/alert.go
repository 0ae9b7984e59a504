package inmemdb

import (
	"context"
	"net/http"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
)

type alertRepository struct {
	db *DB
}

var _ alert.Repository = (*alertRepository)(nil) // interface compliance check

func NewAlertRepository(db *DB) alert.Repository {
	return &alertRepository{db: db}
}

func alertID(a alert.Alert) core.ID { return a.ID }

func (repo *alertRepository) List(_ context.Context, filter alert.QueryFilter) ([]alert.Alert, error) {
	repo.db.alert.RLock()
	defer repo.db.alert.RUnlock()
	return alert.Filter(repo.db.alert.all(), filter), nil
}

func (repo *alertRepository) Resolve(ctx context.Context, id core.ID, res alert.Resolution) (alert.Alert, error) {
	actor := repo.db.actor(ctx)

	repo.db.alert.Lock()
	i := repo.db.alert.index(id, alertID)
	if i < 0 {
		repo.db.alert.Unlock()
		return alert.Alert{}, notFound("alert")
	}
	a := repo.db.alert.rows[i]
	if !a.IsOpen() {
		repo.db.alert.Unlock()
		return alert.Alert{}, &core.APIError{Status: http.StatusConflict, Message: "alert already resolved"}
	}
	now := repo.db.now().UTC()
	a.Status = alert.StatusResolved
	a.ResolvedAt = &now
	a.ResolvedBy = actor
	a.Note = res.Note
	repo.db.alert.rows[i] = a
	repo.db.alert.Unlock()

	repo.db.record(ctx, "alert.resolve", "alert:"+a.ID.String(), res.Note)
	return a, nil
}
