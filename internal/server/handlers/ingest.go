// internal/server/handlers/ingest.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"truckwatch/internal/domain/feed"
	"truckwatch/internal/domain/geo"
	"truckwatch/internal/domain/track"
)

// IngestHandler handles truck location uploads
type IngestHandler struct {
	reports   track.ReportStore
	publisher feed.Publisher
	logger    *zap.Logger
}

// NewIngestHandler creates a new ingest handler. The publisher is optional;
// when nil the storage layer's own feed is assumed to emit change events.
func NewIngestHandler(reports track.ReportStore, publisher feed.Publisher, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		reports:   reports,
		publisher: publisher,
		logger:    logger,
	}
}

// uploadRequest uses pointer fields so a missing field is distinguishable
// from a legitimate zero value (truck_id 0, equator/prime-meridian fixes).
type uploadRequest struct {
	TruckID   *int     `json:"truck_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp *string  `json:"timestamp"`
}

// UploadTruckData validates and stores a truck location report
func (h *IngestHandler) UploadTruckData(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithText(w, http.StatusBadRequest, "Invalid data format. Please check your input.")
		return
	}

	if req.TruckID == nil || req.Latitude == nil || req.Longitude == nil || req.Timestamp == nil {
		respondWithText(w, http.StatusBadRequest, "Missing one or more required parameters.")
		return
	}

	timestamp, err := parseTimestamp(*req.Timestamp)
	if err != nil {
		respondWithText(w, http.StatusBadRequest, "Invalid data format. Please check your input.")
		return
	}

	point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !point.Valid() {
		respondWithText(w, http.StatusBadRequest, "Coordinates out of range.")
		return
	}

	report := track.LocationReport{
		TruckID:   *req.TruckID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Timestamp: timestamp,
	}

	if err := h.reports.SaveReport(r.Context(), report); err != nil {
		h.logger.Error("failed to store location report",
			zap.Int("truck_id", report.TruckID),
			zap.Error(err),
		)
		respondWithText(w, http.StatusInternalServerError, "Database error occurred. Please try again later.")
		return
	}

	if h.publisher != nil {
		item := feed.Item{
			TruckID:   report.TruckID,
			Latitude:  report.Latitude,
			Longitude: report.Longitude,
			Timestamp: report.Timestamp.Format(time.RFC3339),
		}
		if err := h.publisher.PublishInsert(r.Context(), item); err != nil {
			// The report is stored; a lost change event only delays the
			// proximity check, so the upload still succeeds.
			h.logger.Warn("failed to relay change event",
				zap.Int("truck_id", report.TruckID),
				zap.Error(err),
			)
		}
	}

	respondWithText(w, http.StatusOK, fmt.Sprintf("Data for TruckID %d inserted successfully.", report.TruckID))
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO-8601 form devices
// commonly send.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
