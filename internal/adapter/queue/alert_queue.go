// internal/adapter/queue/alert_queue.go

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"truckwatch/internal/domain/track"
)

// alertMessage is the wire shape published for each raised alert.
type alertMessage struct {
	ID          string  `json:"id"`
	TruckID     int     `json:"truck_id"`
	WarehouseID int     `json:"warehouse_id"`
	DistanceKm  float64 `json:"distance_km"`
	CreatedAt   int64   `json:"created_at"`
}

// AlertQueue publishes proximity alerts to a NATS subject for downstream
// consumers (dashboards, the websocket bridge).
type AlertQueue struct {
	conn    *nats.Conn
	subject string
}

// NewAlertQueue creates a new alert queue
func NewAlertQueue(conn *nats.Conn, subject string) *AlertQueue {
	return &AlertQueue{
		conn:    conn,
		subject: subject,
	}
}

// PublishAlert publishes one alert
func (q *AlertQueue) PublishAlert(ctx context.Context, alert track.ProximityAlert) error {
	payload, err := json.Marshal(alertMessage{
		ID:          alert.ID,
		TruckID:     alert.TruckID,
		WarehouseID: alert.WarehouseID,
		DistanceKm:  alert.Distance,
		CreatedAt:   alert.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling alert: %w", err)
	}

	if err := q.conn.Publish(q.subject, payload); err != nil {
		return fmt.Errorf("error publishing alert: %w", err)
	}

	return nil
}
