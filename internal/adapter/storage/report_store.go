// internal/adapter/storage/report_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"truckwatch/internal/domain/track"
)

// ReportStore implements storage for truck location reports
type ReportStore struct {
	db *pgxpool.Pool
}

// NewReportStore creates a new report store
func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{
		db: db,
	}
}

// SaveReport appends a location report
func (s *ReportStore) SaveReport(ctx context.Context, report track.LocationReport) error {
	query := `
		INSERT INTO truck_locations (truck_id, latitude, longitude, timestamp)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(
		ctx,
		query,
		report.TruckID,
		report.Latitude,
		report.Longitude,
		report.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("error inserting location report: %w", err)
	}

	return nil
}
