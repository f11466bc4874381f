// internal/server/handlers/compare.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"truckwatch/internal/domain/geo"
	"truckwatch/internal/service/proximity"
)

// CompareHandler handles direct truck-to-warehouse comparisons
type CompareHandler struct {
	evaluator *proximity.Evaluator
	logger    *zap.Logger
}

// NewCompareHandler creates a new compare handler
func NewCompareHandler(evaluator *proximity.Evaluator, logger *zap.Logger) *CompareHandler {
	return &CompareHandler{
		evaluator: evaluator,
		logger:    logger,
	}
}

type compareLocationsRequest struct {
	TruckID            *int     `json:"truck_id"`
	WarehouseID        *int     `json:"warehouse_id"`
	TruckLatitude      *float64 `json:"truck_latitude"`
	TruckLongitude     *float64 `json:"truck_longitude"`
	WarehouseLatitude  *float64 `json:"warehouse_latitude"`
	WarehouseLongitude *float64 `json:"warehouse_longitude"`
}

// CompareLocations computes the distance for one pair and evaluates
// proximity. The response acknowledges the comparison regardless of whether
// the alert side effect succeeded.
func (h *CompareHandler) CompareLocations(w http.ResponseWriter, r *http.Request) {
	var req compareLocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithText(w, http.StatusBadRequest, "Invalid data format. Please check your input.")
		return
	}

	if req.TruckID == nil || req.WarehouseID == nil ||
		req.TruckLatitude == nil || req.TruckLongitude == nil ||
		req.WarehouseLatitude == nil || req.WarehouseLongitude == nil {
		respondWithText(w, http.StatusBadRequest, "Missing one or more required parameters.")
		return
	}

	distance := geo.Distance(
		geo.Point{Latitude: *req.TruckLatitude, Longitude: *req.TruckLongitude},
		geo.Point{Latitude: *req.WarehouseLatitude, Longitude: *req.WarehouseLongitude},
	)

	within := h.evaluator.Evaluate(r.Context(), *req.TruckID, *req.WarehouseID, distance)

	h.logger.Info("compared locations",
		zap.Int("truck_id", *req.TruckID),
		zap.Int("warehouse_id", *req.WarehouseID),
		zap.Float64("distance_km", distance),
		zap.Bool("within_range", within),
	)

	respondWithText(w, http.StatusOK, fmt.Sprintf(
		"Comparison for truck %d and warehouse %d successful.",
		*req.TruckID, *req.WarehouseID,
	))
}
