// internal/service/proximity/evaluator.go

package proximity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"truckwatch/internal/domain/track"
)

// AlertPublisher pushes raised alerts onto the outbound alert queue.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert track.ProximityAlert) error
}

// Evaluator applies the proximity threshold to a computed distance and
// raises a ProximityAlert when a truck is within range of a warehouse.
type Evaluator struct {
	alerts    track.AlertStore
	publisher AlertPublisher
	threshold float64
	logger    *zap.Logger
}

// NewEvaluator creates a new proximity evaluator. The threshold is in
// kilometers and the boundary is inclusive.
func NewEvaluator(
	alerts track.AlertStore,
	publisher AlertPublisher,
	thresholdKm float64,
	logger *zap.Logger,
) *Evaluator {
	return &Evaluator{
		alerts:    alerts,
		publisher: publisher,
		threshold: thresholdKm,
		logger:    logger,
	}
}

// Threshold returns the configured proximity threshold in kilometers.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// Evaluate reports whether the distance is within the threshold. When it
// is, an alert is recorded and published; persistence or publish failures
// are logged and do not change the evaluation result.
func (e *Evaluator) Evaluate(ctx context.Context, truckID, warehouseID int, distanceKm float64) bool {
	if distanceKm > e.threshold {
		return false
	}

	alert := track.ProximityAlert{
		ID:          uuid.New().String(),
		TruckID:     truckID,
		WarehouseID: warehouseID,
		Distance:    distanceKm,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.alerts.SaveAlert(ctx, alert); err != nil {
		e.logger.Error("failed to save proximity alert",
			zap.Int("truck_id", truckID),
			zap.Int("warehouse_id", warehouseID),
			zap.Error(err),
		)
	}

	if e.publisher != nil {
		if err := e.publisher.PublishAlert(ctx, alert); err != nil {
			e.logger.Warn("failed to publish proximity alert",
				zap.Int("truck_id", truckID),
				zap.Int("warehouse_id", warehouseID),
				zap.Error(err),
			)
		}
	}

	return true
}
