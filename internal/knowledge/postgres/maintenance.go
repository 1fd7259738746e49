package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"airport-query-engine/internal/models"
)

const maintenanceColumns = `id, stand_id, title, status, priority, starts_at, ends_at`

type MaintenanceStore struct {
	db *sql.DB
}

func NewMaintenanceStore(db *sql.DB) *MaintenanceStore {
	return &MaintenanceStore{db: db}
}

func (m *MaintenanceStore) RequestsForStand(ctx context.Context, standID int64) ([]models.MaintenanceRequest, error) {
	return m.query(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE stand_id = $1 ORDER BY starts_at DESC`,
		standID)
}

func (m *MaintenanceStore) OpenRequests(ctx context.Context) ([]models.MaintenanceRequest, error) {
	return m.query(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE status IN ($1, $2) ORDER BY starts_at`,
		string(models.MaintenanceScheduled), string(models.MaintenanceInProgress))
}

func (m *MaintenanceStore) query(ctx context.Context, query string, args ...interface{}) ([]models.MaintenanceRequest, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query maintenance requests: %w", err)
	}
	defer rows.Close()

	var out []models.MaintenanceRequest
	for rows.Next() {
		var (
			r      models.MaintenanceRequest
			status string
			endsAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.StandID, &r.Title, &status, &r.Priority, &r.StartsAt, &endsAt); err != nil {
			return nil, fmt.Errorf("scan maintenance request: %w", err)
		}
		r.Status = models.MaintenanceStatus(status)
		if endsAt.Valid {
			t := endsAt.Time
			r.EndsAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
