package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceIdenticalPoints(t *testing.T) {
	for _, p := range []Point{
		{Lat: 0, Lon: 0},
		{Lat: 45.8326, Lon: 6.8652},
		{Lat: -33.8568, Lon: 151.2153},
		{Lat: 89.9, Lon: -179.9},
	} {
		assert.Zero(t, HaversineDistance(p.Lat, p.Lon, p.Lat, p.Lon))
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	pairs := [][2]Point{
		{{Lat: 48.8566, Lon: 2.3522}, {Lat: 45.7640, Lon: 4.8357}},
		{{Lat: 46.0, Lon: 7.0}, {Lat: 46.0001, Lon: 7.0001}},
		{{Lat: -10, Lon: 179.5}, {Lat: 10, Lon: -179.5}},
	}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	}
}

func TestHaversineDistanceKnownValues(t *testing.T) {
	// One degree of latitude on a 6371 km sphere.
	assert.InDelta(t, 111194.93, HaversineDistance(0, 0, 1, 0), 0.1)

	// Paris to Lyon, roughly 392 km.
	assert.InDelta(t, 392000, HaversineDistance(48.8566, 2.3522, 45.7640, 4.8357), 2000)
}

func TestSample(t *testing.T) {
	points := make([]Point, 95)
	for i := range points {
		points[i] = Point{Lat: float64(i)}
	}

	sampled := Sample(points, 30)
	assert.Len(t, sampled, 32) // stride 3
	assert.Equal(t, points[0], sampled[0])
	assert.Equal(t, points[3], sampled[1])

	short := points[:20]
	assert.Equal(t, short, Sample(short, 30))
	assert.Empty(t, Sample(nil, 30))
}

func TestCorridorOverlapDirectional(t *testing.T) {
	line := func(n int, lonOffset float64) []Point {
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{Lat: 46 + float64(i)*0.002, Lon: 7 + lonOffset}
		}
		return pts
	}

	a := line(10, 0)
	b := line(5, 0) // covers only the first half of a

	assert.InDelta(t, 0.5, CorridorOverlap(a, b, 150), 1e-9)
	assert.InDelta(t, 1.0, CorridorOverlap(b, a, 150), 1e-9)

	far := line(10, 1)
	assert.Zero(t, CorridorOverlap(a, far, 150))
	assert.Zero(t, CorridorOverlap(nil, a, 150))
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Point{{Lat: 46, Lon: 6}, {Lat: 48, Lon: 8}})
	assert.InDelta(t, 47, c.Lat, 1e-9)
	assert.InDelta(t, 7, c.Lon, 1e-9)
	assert.Equal(t, Point{}, Centroid(nil))
}

func TestWithinRadius(t *testing.T) {
	p := Point{Lat: 46.0, Lon: 7.0}
	candidates := []Point{
		{Lat: 46.01, Lon: 7.0}, // ~1.1 km
		{Lat: 46.0005, Lon: 7.0},
	}

	assert.True(t, WithinRadius(p, candidates, 100))
	assert.False(t, WithinRadius(p, candidates[:1], 100))
	assert.False(t, WithinRadius(p, nil, 1000))
}
