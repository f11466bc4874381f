// internal/server/handlers/compare_test.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"truckwatch/internal/domain/track"
	"truckwatch/internal/service/proximity"
)

type mockAlertStore struct {
	mock.Mock
}

func (m *mockAlertStore) SaveAlert(ctx context.Context, alert track.ProximityAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *mockAlertStore) ListAlerts(ctx context.Context, limit int) ([]track.ProximityAlert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]track.ProximityAlert), args.Error(1)
}

func newCompareHandler(store *mockAlertStore) *CompareHandler {
	evaluator := proximity.NewEvaluator(store, nil, 0.5, zap.NewNop())
	return NewCompareHandler(evaluator, zap.NewNop())
}

func TestCompareLocationsWithinRange(t *testing.T) {
	store := new(mockAlertStore)
	store.On("SaveAlert", mock.Anything, mock.MatchedBy(func(a track.ProximityAlert) bool {
		return a.TruckID == 7 && a.WarehouseID == 3 && a.Distance < 0.5
	})).Return(nil)

	handler := newCompareHandler(store)

	// Roughly 400 m apart along the equator.
	body := `{"truck_id": 7, "warehouse_id": 3,
		"truck_latitude": 0.0, "truck_longitude": 0.0,
		"warehouse_latitude": 0.0036, "warehouse_longitude": 0.0}`
	req := httptest.NewRequest(http.MethodPost, "/compareLocations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CompareLocations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comparison for truck 7 and warehouse 3 successful.")
	store.AssertExpectations(t)
}

func TestCompareLocationsOutOfRange(t *testing.T) {
	store := new(mockAlertStore)
	handler := newCompareHandler(store)

	// Roughly 600 m apart: no alert.
	body := `{"truck_id": 7, "warehouse_id": 3,
		"truck_latitude": 0.0, "truck_longitude": 0.0,
		"warehouse_latitude": 0.0054, "warehouse_longitude": 0.0}`
	req := httptest.NewRequest(http.MethodPost, "/compareLocations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CompareLocations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertNotCalled(t, "SaveAlert", mock.Anything, mock.Anything)
}

func TestCompareLocationsMissingField(t *testing.T) {
	handler := newCompareHandler(new(mockAlertStore))

	body := `{"truck_id": 7, "warehouse_id": 3, "truck_latitude": 0.0, "truck_longitude": 0.0, "warehouse_latitude": 0.0}`
	req := httptest.NewRequest(http.MethodPost, "/compareLocations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CompareLocations(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing one or more required parameters.")
}

func TestCompareLocationsMalformedBody(t *testing.T) {
	handler := newCompareHandler(new(mockAlertStore))

	req := httptest.NewRequest(http.MethodPost, "/compareLocations", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	handler.CompareLocations(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid data format. Please check your input.")
}

func TestCompareLocationsSaveFailureStillSucceeds(t *testing.T) {
	store := new(mockAlertStore)
	store.On("SaveAlert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	handler := newCompareHandler(store)

	body := `{"truck_id": 1, "warehouse_id": 2,
		"truck_latitude": 10.0, "truck_longitude": 10.0,
		"warehouse_latitude": 10.0, "warehouse_longitude": 10.0}`
	req := httptest.NewRequest(http.MethodPost, "/compareLocations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CompareLocations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
