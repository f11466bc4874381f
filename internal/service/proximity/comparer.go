// internal/service/proximity/comparer.go

package proximity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"truckwatch/internal/domain/geo"
	"truckwatch/internal/domain/track"
)

// Comparer evaluates one (truck report, warehouse) pair.
type Comparer interface {
	Compare(ctx context.Context, report track.LocationReport, warehouse track.Warehouse) error
}

// LocalComparer computes the distance and evaluates proximity in-process.
// This is the default comparison path.
type LocalComparer struct {
	evaluator *Evaluator
	logger    *zap.Logger
}

// NewLocalComparer creates a new in-process comparer
func NewLocalComparer(evaluator *Evaluator, logger *zap.Logger) *LocalComparer {
	return &LocalComparer{
		evaluator: evaluator,
		logger:    logger,
	}
}

// Compare computes the truck-to-warehouse distance and runs the evaluator.
func (c *LocalComparer) Compare(ctx context.Context, report track.LocationReport, warehouse track.Warehouse) error {
	distance := geo.Distance(
		geo.Point{Latitude: report.Latitude, Longitude: report.Longitude},
		geo.Point{Latitude: warehouse.Latitude, Longitude: warehouse.Longitude},
	)

	within := c.evaluator.Evaluate(ctx, report.TruckID, warehouse.ID, distance)

	c.logger.Info("compared truck and warehouse",
		zap.Int("truck_id", report.TruckID),
		zap.Int("warehouse_id", warehouse.ID),
		zap.Float64("distance_km", distance),
		zap.Bool("within_range", within),
	)

	return nil
}

// compareRequest is the wire shape of the comparison endpoint body.
type compareRequest struct {
	TruckID            int     `json:"truck_id"`
	WarehouseID        int     `json:"warehouse_id"`
	TruckLatitude      float64 `json:"truck_latitude"`
	TruckLongitude     float64 `json:"truck_longitude"`
	WarehouseLatitude  float64 `json:"warehouse_latitude"`
	WarehouseLongitude float64 `json:"warehouse_longitude"`
}

// RemoteComparer delegates the comparison to the compareLocations endpoint
// of another instance. Failed calls are retried with a linear backoff
// before the error is surfaced to the batch handler.
type RemoteComparer struct {
	url      string
	client   *http.Client
	attempts int
	wait     time.Duration
	logger   *zap.Logger
}

// NewRemoteComparer creates a new remote comparer
func NewRemoteComparer(url string, attempts int, wait time.Duration, logger *zap.Logger) *RemoteComparer {
	if attempts < 1 {
		attempts = 1
	}

	return &RemoteComparer{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		attempts: attempts,
		wait:     wait,
		logger:   logger,
	}
}

// Compare posts the pair to the comparison endpoint, retrying on failure.
func (c *RemoteComparer) Compare(ctx context.Context, report track.LocationReport, warehouse track.Warehouse) error {
	payload, err := json.Marshal(compareRequest{
		TruckID:            report.TruckID,
		WarehouseID:        warehouse.ID,
		TruckLatitude:      report.Latitude,
		TruckLongitude:     report.Longitude,
		WarehouseLatitude:  warehouse.Latitude,
		WarehouseLongitude: warehouse.Longitude,
	})
	if err != nil {
		return fmt.Errorf("error marshaling comparison request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.wait):
			}
		}

		if lastErr = c.post(ctx, payload); lastErr == nil {
			return nil
		}

		c.logger.Warn("comparison call failed",
			zap.Int("truck_id", report.TruckID),
			zap.Int("warehouse_id", warehouse.ID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
	}

	return fmt.Errorf("comparison call failed after %d attempts: %w", c.attempts, lastErr)
}

func (c *RemoteComparer) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building comparison request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling comparison endpoint: %w", err)
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("comparison endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
