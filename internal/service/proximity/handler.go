// internal/service/proximity/handler.go

package proximity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"truckwatch/internal/domain/feed"
	"truckwatch/internal/domain/track"
)

// Handler consumes change-feed batches and evaluates every inserted
// location report against the full warehouse set. It implements
// feed.Handler.
type Handler struct {
	warehouses track.WarehouseStore
	comparer   Comparer
	logger     *zap.Logger
}

// NewHandler creates a new change reaction handler
func NewHandler(warehouses track.WarehouseStore, comparer Comparer, logger *zap.Logger) *Handler {
	return &Handler{
		warehouses: warehouses,
		comparer:   comparer,
		logger:     logger,
	}
}

// HandleBatch filters the batch to insert events and compares each inserted
// report against every warehouse. Every pair is evaluated independently; a
// failed comparison is logged and the remaining pairs continue. A failure
// fetching the warehouse set aborts the whole batch so the feed can
// redeliver it.
func (h *Handler) HandleBatch(ctx context.Context, events []feed.ChangeEvent) error {
	inserts := make([]feed.ChangeEvent, 0, len(events))
	for _, event := range events {
		if event.Operation == feed.OpInsert {
			inserts = append(inserts, event)
		}
	}

	if len(inserts) == 0 {
		return nil
	}

	warehouses, err := h.warehouses.ListWarehouses(ctx)
	if err != nil {
		return fmt.Errorf("error listing warehouses: %w", err)
	}

	// An empty reference set means there is nothing to compare against.
	if len(warehouses) == 0 {
		h.logger.Debug("no warehouses configured, skipping batch",
			zap.Int("inserts", len(inserts)),
		)
		return nil
	}

	for _, event := range inserts {
		report := track.LocationReport{
			TruckID:   event.Item.TruckID,
			Latitude:  event.Item.Latitude,
			Longitude: event.Item.Longitude,
		}

		for _, warehouse := range warehouses {
			if err := h.comparer.Compare(ctx, report, warehouse); err != nil {
				h.logger.Error("comparison failed",
					zap.Int("truck_id", report.TruckID),
					zap.Int("warehouse_id", warehouse.ID),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}
