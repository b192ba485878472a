package grouping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/polyline"
	"github.com/delhayec/MillionRecap/internal/spatial"
	"github.com/delhayec/MillionRecap/internal/sport"
)

func activity(id, athlete int64, sportType, start string) models.Activity {
	return models.Activity{
		ActivityID:    id,
		AthleteID:     athlete,
		Name:          "Morning outing",
		SportType:     sportType,
		StartDate:     start,
		MovingTime:    3000,
		Distance:      8000,
		ElevationGain: 50,
	}
}

// straightTrack returns n points heading north from (lat, lon), step degrees apart.
func straightTrack(n int, lat, lon, step float64) []spatial.Point {
	pts := make([]spatial.Point, n)
	for i := range pts {
		pts[i] = spatial.Point{Lat: lat + float64(i)*step, Lon: lon}
	}
	return pts
}

func withTrack(a models.Activity, pts []spatial.Point) models.Activity {
	a.Map.SummaryPolyline = polyline.Encode(pts)
	return a
}

func candidate(t *testing.T, a models.Activity) *Candidate {
	t.Helper()
	c, err := Prepare(&a, sport.DefaultCatalog(), DefaultConfig().TrackSamplePoints)
	require.NoError(t, err)
	return c
}

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultConfig(), sport.DefaultCatalog())
}
