package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delhayec/MillionRecap/internal/spatial"
)

func TestMatchWithoutTracks(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00+02:00")
	a2 := activity(2, 200, "Run", "2025-06-01T10:20:00+02:00")
	a2.MovingTime = 3100
	a2.Distance = 8200
	a2.ElevationGain = 55

	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))

	assert.True(t, res.Matched)
	assert.Equal(t, ReasonMetrics, res.Reason)
	assert.Equal(t, 20*time.Minute, res.StartDiff)
	assert.InDelta(t, 100, res.DurationDiff, 1e-9)
	assert.InDelta(t, 0.0247, res.DistanceDeviation, 1e-4)
	assert.InDelta(t, 0.0952, res.ElevationDeviation, 1e-4)
	assert.Equal(t, -1.0, res.TrackScore)
}

func TestMatchCategoryGate(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00+02:00")
	a2 := activity(2, 200, "Ride", "2025-06-01T10:20:00+02:00")
	a2.MovingTime = 3100
	a2.Distance = 8200
	a2.ElevationGain = 55

	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))
	assert.False(t, res.Matched)
	assert.Equal(t, ReasonCategory, res.Reason)

	// Same category through different sport types is fine.
	a3 := activity(3, 300, "TrailRun", "2025-06-01T10:05:00+02:00")
	assert.True(t, newTestMatcher().Match(candidate(t, a1), candidate(t, a3)))
}

func TestMatchTrackOverlapOverridesDistance(t *testing.T) {
	shared := straightTrack(18, 46.0, 7.0, 0.002)
	detour := straightTrack(12, 46.5, 8.0, 0.002)

	a1 := withTrack(activity(1, 100, "Ride", "2025-06-01T09:00:00+02:00"), append(append([]spatial.Point{}, shared...), detour...))
	a1.Distance = 15000
	a2 := withTrack(activity(2, 200, "GravelRide", "2025-06-01T09:10:00+02:00"), shared)
	a2.Distance = 7500 // 66% deviation, ignored when tracks agree

	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))

	require.True(t, res.Matched, "score %v", res.TrackScore)
	assert.Equal(t, ReasonTrackOverlap, res.Reason)
	assert.InDelta(t, 0.6, res.TrackScore, 1e-9)
}

func TestMatchTrackScoreIsDirectional(t *testing.T) {
	shared := straightTrack(10, 46.0, 7.0, 0.002)
	detour := straightTrack(20, 46.5, 8.0, 0.002)

	long := withTrack(activity(1, 100, "Run", "2025-06-01T09:00:00Z"), append(append([]spatial.Point{}, shared...), detour...))
	short := withTrack(activity(2, 200, "Run", "2025-06-01T09:00:00Z"), shared)

	m := newTestMatcher()
	longFirst := m.Explain(candidate(t, long), candidate(t, short))
	shortFirst := m.Explain(candidate(t, short), candidate(t, long))

	assert.InDelta(t, 1.0/3.0, longFirst.TrackScore, 1e-9)
	assert.InDelta(t, 1.0, shortFirst.TrackScore, 1e-9)
	assert.True(t, shortFirst.Matched)
}

func TestMatchWeakTrackStrictFallback(t *testing.T) {
	shared := straightTrack(9, 46.0, 7.0, 0.002)
	detour := straightTrack(21, 46.5, 8.0, 0.002)
	track1 := append(append([]spatial.Point{}, shared...), detour...) // 9/30 covered = 0.3

	tests := []struct {
		name   string
		start2 string
		move2  float64
		dist2  float64
		want   bool
		reason Reason
	}{
		{"strictly close", "2025-06-01T09:10:00Z", 3300, 8300, true, ReasonStrictFallback},
		{"start too far for strict", "2025-06-01T09:30:00Z", 3300, 8300, false, ReasonTrackMismatch},
		{"duration too far for strict", "2025-06-01T09:10:00Z", 3700, 8300, false, ReasonTrackMismatch},
		{"distance too far for strict", "2025-06-01T09:10:00Z", 3300, 9000, false, ReasonTrackMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a1 := withTrack(activity(1, 100, "Hike", "2025-06-01T09:00:00Z"), track1)
			a2 := withTrack(activity(2, 200, "Walk", tt.start2), shared)
			a2.MovingTime = tt.move2
			a2.Distance = tt.dist2

			res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))
			assert.InDelta(t, 0.3, res.TrackScore, 1e-9)
			assert.Equal(t, tt.want, res.Matched)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestMatchPoorTrackOverlapRejected(t *testing.T) {
	a1 := withTrack(activity(1, 100, "Run", "2025-06-01T09:00:00Z"), straightTrack(30, 46.0, 7.0, 0.002))
	a2 := withTrack(activity(2, 200, "Run", "2025-06-01T09:00:00Z"), straightTrack(30, 46.0, 7.5, 0.002))

	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))
	assert.False(t, res.Matched)
	assert.Equal(t, ReasonTrackMismatch, res.Reason)
	assert.Zero(t, res.TrackScore)
}

func TestMatchTimeGates(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00+02:00")

	late := activity(2, 200, "Run", "2025-06-01T11:01:00+02:00")
	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, late))
	assert.Equal(t, ReasonStartTime, res.Reason)

	// Same instant written with another offset.
	sameInstant := activity(3, 300, "Run", "2025-06-01T08:30:00Z")
	assert.True(t, newTestMatcher().Match(candidate(t, a1), candidate(t, sameInstant)))

	long := activity(4, 400, "Run", "2025-06-01T10:00:00+02:00")
	long.MovingTime = 3000 + 7201
	res = newTestMatcher().Explain(candidate(t, a1), candidate(t, long))
	assert.Equal(t, ReasonDuration, res.Reason)
}

func TestMatchMissingMovingTime(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00Z")
	a1.MovingTime = 0 // null upstream
	a2 := activity(2, 200, "Run", "2025-06-01T10:00:00Z")
	a2.MovingTime = 100

	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))
	assert.InDelta(t, 100, res.DurationDiff, 1e-9)
	assert.True(t, res.Matched)
}

func TestMatchDeviationGates(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00Z")

	far := activity(2, 200, "Run", "2025-06-01T10:00:00Z")
	far.Distance = 12000
	assert.Equal(t, ReasonDistance, newTestMatcher().Explain(candidate(t, a1), candidate(t, far)).Reason)

	steep := activity(3, 300, "Run", "2025-06-01T10:00:00Z")
	steep.ElevationGain = 200
	assert.Equal(t, ReasonElevation, newTestMatcher().Explain(candidate(t, a1), candidate(t, steep)).Reason)

	// Zero means are skipped rather than compared.
	flat1 := activity(4, 400, "Run", "2025-06-01T10:00:00Z")
	flat1.ElevationGain, flat1.Distance = 0, 0
	flat2 := activity(5, 500, "Run", "2025-06-01T10:00:00Z")
	flat2.ElevationGain, flat2.Distance = 0, 0
	assert.True(t, newTestMatcher().Match(candidate(t, flat1), candidate(t, flat2)))
}

func TestMatchMalformedTrackFallsBackToMetrics(t *testing.T) {
	a1 := withTrack(activity(1, 100, "Run", "2025-06-01T10:00:00Z"), straightTrack(30, 46.0, 7.0, 0.002))
	a2 := activity(2, 200, "Run", "2025-06-01T10:05:00Z")
	a2.Map.SummaryPolyline = "_p~iF~ps|U_" // truncated

	c2 := candidate(t, a2)
	require.Error(t, c2.TrackErr)
	assert.False(t, c2.HasTrack())

	res := newTestMatcher().Explain(candidate(t, a1), c2)
	assert.True(t, res.Matched)
	assert.Equal(t, ReasonMetrics, res.Reason)
	assert.Equal(t, -1.0, res.TrackScore)
}

func TestMatchActivitiesInvalidStart(t *testing.T) {
	a1 := activity(1, 100, "Run", "yesterday")
	a2 := activity(2, 200, "Run", "2025-06-01T10:00:00Z")

	_, err := newTestMatcher().MatchActivities(&a1, &a2)
	assert.Error(t, err)

	a1.StartDate = "2025-06-01T10:10:00"
	res, err := newTestMatcher().MatchActivities(&a1, &a2)
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestMatchSinglePointTrackScoresZero(t *testing.T) {
	point := withTrack(activity(1, 100, "Run", "2025-06-01T10:00:00Z"), []spatial.Point{{Lat: 46, Lon: 7}})
	route := withTrack(activity(2, 200, "Run", "2025-06-01T10:00:00Z"), straightTrack(40, 10, 100, 0.002))

	c1 := candidate(t, point)
	require.NoError(t, c1.TrackErr)
	require.True(t, c1.HasTrack())
	assert.Len(t, c1.Track, 1)

	m := newTestMatcher()
	for _, res := range []MatchResult{
		m.Explain(c1, candidate(t, route)),
		m.Explain(candidate(t, route), c1),
		m.Explain(c1, candidate(t, point)),
	} {
		assert.False(t, res.Matched)
		assert.Equal(t, ReasonTrackMismatch, res.Reason)
		assert.Zero(t, res.TrackScore)
	}
}

func TestMatchGateLimitsAreInclusive(t *testing.T) {
	a1 := activity(1, 100, "Run", "2025-06-01T10:00:00+02:00")

	hourLater := activity(2, 200, "Run", "2025-06-01T11:00:00+02:00")
	res := newTestMatcher().Explain(candidate(t, a1), candidate(t, hourLater))
	assert.Equal(t, time.Hour, res.StartDiff)
	assert.True(t, res.Matched, res.Reason)

	longer := activity(3, 300, "Run", "2025-06-01T10:00:00+02:00")
	longer.MovingTime = 3000 + 7200
	res = newTestMatcher().Explain(candidate(t, a1), candidate(t, longer))
	assert.InDelta(t, 7200, res.DurationDiff, 1e-9)
	assert.True(t, res.Matched, res.Reason)
}

func TestMatchTrackScoreLimitsAreInclusive(t *testing.T) {
	tests := []struct {
		name   string
		shared int
		detour int
		score  float64
		want   bool
		reason Reason
	}{
		{"min similarity", 10, 10, 0.5, true, ReasonTrackOverlap},
		{"weak similarity", 6, 24, 0.2, true, ReasonStrictFallback},
		{"below weak similarity", 5, 25, 1.0 / 6.0, false, ReasonTrackMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := straightTrack(tt.shared, 46.0, 7.0, 0.002)
			detour := straightTrack(tt.detour, 46.5, 8.0, 0.002)

			a1 := withTrack(activity(1, 100, "Ride", "2025-06-01T09:00:00Z"), append(append([]spatial.Point{}, shared...), detour...))
			a2 := withTrack(activity(2, 200, "Ride", "2025-06-01T09:10:00Z"), shared)
			a2.MovingTime = 3300
			a2.Distance = 8300

			res := newTestMatcher().Explain(candidate(t, a1), candidate(t, a2))
			assert.InDelta(t, tt.score, res.TrackScore, 1e-12)
			assert.Equal(t, tt.want, res.Matched)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}
