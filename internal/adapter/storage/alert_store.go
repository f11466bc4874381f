// internal/adapter/storage/alert_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"truckwatch/internal/domain/track"
)

// AlertStore implements storage for proximity alerts
type AlertStore struct {
	db *pgxpool.Pool
}

// NewAlertStore creates a new alert store
func NewAlertStore(db *pgxpool.Pool) *AlertStore {
	return &AlertStore{
		db: db,
	}
}

// SaveAlert appends a proximity alert
func (s *AlertStore) SaveAlert(ctx context.Context, alert track.ProximityAlert) error {
	query := `
		INSERT INTO proximity_alerts (id, truck_id, warehouse_id, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(
		ctx,
		query,
		alert.ID,
		alert.TruckID,
		alert.WarehouseID,
		alert.Distance,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting proximity alert: %w", err)
	}

	return nil
}

// ListAlerts returns the most recent alerts, newest first
func (s *AlertStore) ListAlerts(ctx context.Context, limit int) ([]track.ProximityAlert, error) {
	query := `
		SELECT id, truck_id, warehouse_id, distance_km, created_at
		FROM proximity_alerts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []track.ProximityAlert
	for rows.Next() {
		var a track.ProximityAlert
		if err := rows.Scan(&a.ID, &a.TruckID, &a.WarehouseID, &a.Distance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}
