package grouping

import (
	"math"
	"time"

	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/spatial"
	"github.com/delhayec/MillionRecap/internal/sport"
	"github.com/delhayec/MillionRecap/internal/stats"
)

// Reason explains a match decision
type Reason string

// Match reasons
const (
	ReasonTrackOverlap   Reason = "track_overlap"
	ReasonStrictFallback Reason = "weak_track_strict_fallback"
	ReasonMetrics        Reason = "metrics"

	ReasonCategory      Reason = "category_mismatch"
	ReasonStartTime     Reason = "start_time"
	ReasonDuration      Reason = "duration"
	ReasonTrackMismatch Reason = "track_mismatch"
	ReasonDistance      Reason = "distance_deviation"
	ReasonElevation     Reason = "elevation_deviation"
)

// MatchResult is a match decision together with the measurements behind it
type MatchResult struct {
	Matched            bool          `json:"matched"`
	Reason             Reason        `json:"reason"`
	StartDiff          time.Duration `json:"start_diff"`
	DurationDiff       float64       `json:"duration_diff"`
	TrackScore         float64       `json:"track_score"` // -1 when tracks were not compared
	DistanceDeviation  float64       `json:"distance_deviation"`
	ElevationDeviation float64       `json:"elevation_deviation"`
}

// Matcher decides whether two activities of different athletes recorded the
// same day are the same outing
type Matcher struct {
	cfg     Config
	catalog *sport.Catalog
}

// NewMatcher creates a matcher
func NewMatcher(cfg Config, catalog *sport.Catalog) *Matcher {
	return &Matcher{cfg: cfg, catalog: catalog}
}

// Match reports whether a and b are the same outing
func (m *Matcher) Match(a, b *Candidate) bool {
	return m.Explain(a, b).Matched
}

// MatchActivities prepares both activities and matches them.
// It fails when either start date cannot be parsed.
func (m *Matcher) MatchActivities(a, b *models.Activity) (MatchResult, error) {
	ca, err := Prepare(a, m.catalog, m.cfg.TrackSamplePoints)
	if err != nil {
		return MatchResult{}, err
	}
	cb, err := Prepare(b, m.catalog, m.cfg.TrackSamplePoints)
	if err != nil {
		return MatchResult{}, err
	}
	return m.Explain(ca, cb), nil
}

// Explain evaluates the predicate step by step and stops at the first failing
// criterion. Track similarity is measured as the part of a's track covered by b.
func (m *Matcher) Explain(a, b *Candidate) MatchResult {
	res := MatchResult{TrackScore: -1}

	if a.Category != b.Category {
		res.Reason = ReasonCategory
		return res
	}

	res.StartDiff = a.Start.Sub(b.Start).Abs()
	res.DurationDiff = math.Abs(a.Activity.MovingTime - b.Activity.MovingTime)
	res.DistanceDeviation, _ = stats.RelativeDeviation(a.Activity.Distance, b.Activity.Distance)
	res.ElevationDeviation, _ = stats.RelativeDeviation(a.Activity.ElevationGain, b.Activity.ElevationGain)

	if res.StartDiff > m.cfg.MaxStartDiff {
		res.Reason = ReasonStartTime
		return res
	}
	if res.DurationDiff > m.cfg.MaxDurationDiff {
		res.Reason = ReasonDuration
		return res
	}

	if a.HasTrack() && b.HasTrack() {
		// A track of fewer than 2 points describes no route and scores 0.
		if len(a.Track) < 2 || len(b.Track) < 2 {
			res.TrackScore, res.Reason = 0, ReasonTrackMismatch
			return res
		}
		res.TrackScore = spatial.CorridorOverlap(a.Track, b.Track, m.cfg.CorridorWidthMeters)

		switch {
		case res.TrackScore >= m.cfg.MinTrackSimilarity:
			res.Matched, res.Reason = true, ReasonTrackOverlap
		case res.TrackScore >= m.cfg.WeakTrackSimilarity && m.strictlyClose(res):
			res.Matched, res.Reason = true, ReasonStrictFallback
		default:
			res.Reason = ReasonTrackMismatch
		}
		return res
	}

	// A track absent or malformed: fall back on distance and elevation. A metric
	// whose mean is zero carries no information and is skipped.
	if res.DistanceDeviation > m.cfg.MaxDistanceDeviation {
		res.Reason = ReasonDistance
		return res
	}
	if res.ElevationDeviation > m.cfg.MaxElevationDeviation {
		res.Reason = ReasonElevation
		return res
	}

	res.Matched, res.Reason = true, ReasonMetrics
	return res
}

func (m *Matcher) strictlyClose(res MatchResult) bool {
	return res.StartDiff <= m.cfg.StrictStartDiff &&
		res.DurationDiff <= m.cfg.StrictDurationDiff &&
		res.DistanceDeviation <= m.cfg.StrictDistanceDeviation
}
