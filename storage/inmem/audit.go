package inmemdb

import (
	"context"

	"github.com/trezcool/proctor/core/audit"
)

type auditRepository struct {
	db *DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db}
}

// List answers the newest events first.
func (repo *auditRepository) List(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	repo.db.audit.RLock()
	defer repo.db.audit.RUnlock()

	n := len(repo.db.audit.rows)
	events := make([]audit.Event, n)
	for i, e := range repo.db.audit.rows {
		events[n-1-i] = e
	}
	return audit.Filter(events, filter), nil
}
