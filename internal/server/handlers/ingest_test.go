// internal/server/handlers/ingest_test.go

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

	"truckwatch/internal/domain/feed"
	"truckwatch/internal/domain/track"
)

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) SaveReport(ctx context.Context, report track.LocationReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type mockFeedPublisher struct {
	mock.Mock
}

func (m *mockFeedPublisher) PublishInsert(ctx context.Context, item feed.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func TestUploadTruckData(t *testing.T) {
	store := new(mockReportStore)
	publisher := new(mockFeedPublisher)

	store.On("SaveReport", mock.Anything, mock.MatchedBy(func(r track.LocationReport) bool {
		return r.TruckID == 1 && r.Latitude == 51.5 && r.Longitude == -0.12
	})).Return(nil)
	publisher.On("PublishInsert", mock.Anything, mock.MatchedBy(func(i feed.Item) bool {
		return i.TruckID == 1
	})).Return(nil)

	handler := NewIngestHandler(store, publisher, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 51.5, "longitude": -0.12, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data for TruckID 1 inserted successfully.")
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUploadTruckDataInvalidTimestamp(t *testing.T) {
	store := new(mockReportStore)
	handler := NewIngestHandler(store, nil, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 51.5, "longitude": -0.12, "timestamp": "not-a-date"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestUploadTruckDataMissingField(t *testing.T) {
	store := new(mockReportStore)
	handler := NewIngestHandler(store, nil, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 51.5, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing one or more required parameters.")
}

func TestUploadTruckDataMalformedBody(t *testing.T) {
	handler := NewIngestHandler(new(mockReportStore), nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTruckDataAcceptsZeroValues(t *testing.T) {
	store := new(mockReportStore)
	store.On("SaveReport", mock.Anything, mock.MatchedBy(func(r track.LocationReport) bool {
		return r.TruckID == 0 && r.Latitude == 0 && r.Longitude == 0
	})).Return(nil)

	handler := NewIngestHandler(store, nil, zap.NewNop())

	// Zero-valued ids and coordinates are present, just zero; they must
	// not be treated as missing.
	body := `{"truck_id": 0, "latitude": 0, "longitude": 0, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestUploadTruckDataRejectsOutOfRangeCoordinates(t *testing.T) {
	store := new(mockReportStore)
	handler := NewIngestHandler(store, nil, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 95.0, "longitude": -0.12, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestUploadTruckDataStorageFailure(t *testing.T) {
	store := new(mockReportStore)
	store.On("SaveReport", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	handler := NewIngestHandler(store, nil, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 51.5, "longitude": -0.12, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUploadTruckDataPublishFailureStillSucceeds(t *testing.T) {
	store := new(mockReportStore)
	publisher := new(mockFeedPublisher)

	store.On("SaveReport", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishInsert", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	handler := NewIngestHandler(store, publisher, zap.NewNop())

	body := `{"truck_id": 1, "latitude": 51.5, "longitude": -0.12, "timestamp": "2024-11-18T10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/uploadTruckData", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UploadTruckData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
