// internal/server/handlers/alerts.go

package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"truckwatch/internal/domain/track"
)

// AlertHandler serves read access to alerts and warehouse reference data
type AlertHandler struct {
	alerts     track.AlertStore
	warehouses track.WarehouseStore
	logger     *zap.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts track.AlertStore, warehouses track.WarehouseStore, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alerts:     alerts,
		warehouses: warehouses,
		logger:     logger,
	}
}

// ListAlerts returns recent proximity alerts
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	alerts, err := h.alerts.ListAlerts(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list alerts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// ListWarehouses returns the warehouse reference data
func (h *AlertHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.warehouses.ListWarehouses(r.Context())
	if err != nil {
		h.logger.Error("failed to list warehouses", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list warehouses")
		return
	}

	respondWithJSON(w, http.StatusOK, warehouses)
}
