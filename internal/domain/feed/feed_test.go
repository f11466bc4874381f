// internal/domain/feed/feed_test.go

package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch(t *testing.T) {
	payload := []byte(`[
		{"Operation": 0, "Item": {"TruckID": 42, "Latitude": 51.5, "Longitude": -0.12, "Timestamp": "2024-11-18T10:00:00"}},
		{"Operation": 1, "Item": {"TruckID": 42, "Latitude": 51.6, "Longitude": -0.13}}
	]`)

	events, err := DecodeBatch(payload)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, OpInsert, events[0].Operation)
	assert.Equal(t, 42, events[0].Item.TruckID)
	assert.Equal(t, 51.5, events[0].Item.Latitude)
	assert.Equal(t, -0.12, events[0].Item.Longitude)

	assert.Equal(t, OpUpdate, events[1].Operation)
}

func TestDecodeBatchEmpty(t *testing.T) {
	events, err := DecodeBatch([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecodeBatchMalformed(t *testing.T) {
	_, err := DecodeBatch([]byte(`{"Operation": 0}`))
	assert.Error(t, err)
}
