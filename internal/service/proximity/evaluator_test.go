// internal/service/proximity/evaluator_test.go

package proximity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"truckwatch/internal/domain/track"
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

type mockAlertPublisher struct {
	mock.Mock
}

func (m *mockAlertPublisher) PublishAlert(ctx context.Context, alert track.ProximityAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func TestEvaluateThresholdIsInclusive(t *testing.T) {
	store := new(mockAlertStore)
	publisher := new(mockAlertPublisher)

	store.On("SaveAlert", mock.Anything, mock.MatchedBy(func(a track.ProximityAlert) bool {
		return a.TruckID == 7 && a.WarehouseID == 3 && a.Distance == 0.5 && a.ID != ""
	})).Return(nil)
	publisher.On("PublishAlert", mock.Anything, mock.Anything).Return(nil)

	evaluator := NewEvaluator(store, publisher, 0.5, zap.NewNop())

	assert.True(t, evaluator.Evaluate(context.Background(), 7, 3, 0.5))

	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestEvaluateJustOutsideThreshold(t *testing.T) {
	store := new(mockAlertStore)
	publisher := new(mockAlertPublisher)

	evaluator := NewEvaluator(store, publisher, 0.5, zap.NewNop())

	assert.False(t, evaluator.Evaluate(context.Background(), 7, 3, 0.5000001))

	store.AssertNotCalled(t, "SaveAlert", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishAlert", mock.Anything, mock.Anything)
}

func TestEvaluateSaveFailureIsNonFatal(t *testing.T) {
	store := new(mockAlertStore)
	publisher := new(mockAlertPublisher)

	store.On("SaveAlert", mock.Anything, mock.Anything).Return(errors.New("db down"))
	publisher.On("PublishAlert", mock.Anything, mock.Anything).Return(nil)

	evaluator := NewEvaluator(store, publisher, 0.5, zap.NewNop())

	// The evaluation result is unchanged; the failure is only logged.
	assert.True(t, evaluator.Evaluate(context.Background(), 1, 2, 0.1))

	publisher.AssertExpectations(t)
}

func TestEvaluateWithoutPublisher(t *testing.T) {
	store := new(mockAlertStore)
	store.On("SaveAlert", mock.Anything, mock.Anything).Return(nil)

	evaluator := NewEvaluator(store, nil, 0.5, zap.NewNop())

	assert.True(t, evaluator.Evaluate(context.Background(), 1, 2, 0.3))
	store.AssertExpectations(t)
}
