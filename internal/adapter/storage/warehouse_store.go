// internal/adapter/storage/warehouse_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"truckwatch/internal/domain/track"
)

// WarehouseStore implements read access to the warehouse reference data
type WarehouseStore struct {
	db *pgxpool.Pool
}

// NewWarehouseStore creates a new warehouse store
func NewWarehouseStore(db *pgxpool.Pool) *WarehouseStore {
	return &WarehouseStore{
		db: db,
	}
}

// ListWarehouses returns the full current set of warehouses. Callers read
// fresh on every invocation; warehouses are reference data and the set is
// small.
func (s *WarehouseStore) ListWarehouses(ctx context.Context) ([]track.Warehouse, error) {
	query := `
		SELECT id, name, latitude, longitude
		FROM warehouses
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []track.Warehouse
	for rows.Next() {
		var w track.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Latitude, &w.Longitude); err != nil {
			return nil, fmt.Errorf("error scanning warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouses: %w", err)
	}

	return warehouses, nil
}
