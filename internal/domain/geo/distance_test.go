// internal/domain/geo/distance_test.go

package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceCoincidentPointsIsZero(t *testing.T) {
	points := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: -33.8688, Longitude: 151.2093},
	}

	for _, p := range points {
		assert.InDelta(t, 0, Distance(p, p), 1e-9)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{Latitude: 51.5074, Longitude: -0.1278}
	b := Point{Latitude: 48.8566, Longitude: 2.3522}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceOneDegreeLatitudeAtEquator(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 1, Longitude: 0}

	// One degree of latitude is roughly 111.19 km on a 6371 km sphere.
	assert.InDelta(t, 111.19, Distance(a, b), 0.05)
}

func TestDistanceLondonToParis(t *testing.T) {
	london := Point{Latitude: 51.5074, Longitude: -0.1278}
	paris := Point{Latitude: 48.8566, Longitude: 2.3522}

	assert.InDelta(t, 343.5, Distance(london, paris), 1.0)
}

func TestDistanceStableForTinyOffsets(t *testing.T) {
	a := Point{Latitude: 10, Longitude: 10}
	b := Point{Latitude: 10 + 1e-12, Longitude: 10 + 1e-12}

	d := Distance(a, b)
	assert.False(t, math.IsNaN(d))
	assert.GreaterOrEqual(t, d, 0.0)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Latitude: 0, Longitude: 0}.Valid())
	assert.True(t, Point{Latitude: 90, Longitude: 180}.Valid())
	assert.True(t, Point{Latitude: -90, Longitude: -180}.Valid())
	assert.False(t, Point{Latitude: 90.01, Longitude: 0}.Valid())
	assert.False(t, Point{Latitude: 0, Longitude: -180.01}.Valid())
}
