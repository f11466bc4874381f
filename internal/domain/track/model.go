// internal/domain/track/model.go

package track

import (
	"context"
	"time"
)

// LocationReport is a single GPS fix reported by a truck. Reports are
// append-only; once stored they are never updated.
type LocationReport struct {
	TruckID   int
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// Warehouse is a fixed reference point trucks are compared against.
type Warehouse struct {
	ID        int
	Name      string
	Latitude  float64
	Longitude float64
}

// ProximityAlert records a truck coming within the proximity threshold of a
// warehouse. Repeated matches for the same pair produce separate alerts.
type ProximityAlert struct {
	ID          string
	TruckID     int
	WarehouseID int
	Distance    float64
	CreatedAt   time.Time
}

// ReportStore persists truck location reports.
type ReportStore interface {
	// SaveReport appends a location report
	SaveReport(ctx context.Context, report LocationReport) error
}

// WarehouseStore provides read access to the warehouse reference data.
type WarehouseStore interface {
	// ListWarehouses returns the full current set of warehouses
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
}

// AlertStore persists proximity alerts.
type AlertStore interface {
	// SaveAlert appends a proximity alert
	SaveAlert(ctx context.Context, alert ProximityAlert) error

	// ListAlerts returns the most recent alerts, newest first
	ListAlerts(ctx context.Context, limit int) ([]ProximityAlert, error)
}
