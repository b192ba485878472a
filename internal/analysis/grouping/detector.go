package grouping

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/spatial"
	"github.com/delhayec/MillionRecap/internal/sport"
	"github.com/delhayec/MillionRecap/internal/stats"
)

// Errors returned by Detect
var (
	ErrNoActivities = errors.New("no activities to group")
	ErrInvariant    = errors.New("group invariant violated")
)

// Diagnostic reasons
const (
	DiagInvalidStartDate = "invalid_start_date"
	DiagMalformedTrack   = "malformed_track"
	DiagDuplicateID      = "duplicate_activity_id"
)

// Diagnostic reports an activity that was skipped or degraded during a run
type Diagnostic struct {
	ActivityID int64  `json:"activity_id"`
	Reason     string `json:"reason"`
	Detail     string `json:"detail,omitempty"`
}

// Result is the outcome of one detection run
type Result struct {
	Groups      []models.Group `json:"groups"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`

	TotalActivities    int `json:"total_activities"`
	ExcludedActivities int `json:"excluded_activities"` // excluded sport types
	EligibleActivities int `json:"eligible_activities"`
	Days               int `json:"days"` // days with enough activities to compare
	PairsCompared      int `json:"pairs_compared"`
	Edges              int `json:"edges"`
}

// Detector runs group detection over a whole activity collection
type Detector struct {
	cfg     Config
	catalog *sport.Catalog
	builder *Builder
	log     *zap.Logger
}

// NewDetector creates a detector. A nil logger discards output.
func NewDetector(cfg Config, catalog *sport.Catalog, log *zap.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grouping config: %w", err)
	}
	if catalog == nil {
		catalog = sport.DefaultCatalog()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Detector{
		cfg:     cfg,
		catalog: catalog,
		builder: NewBuilder(NewMatcher(cfg, catalog), cfg.MinGroupSize),
		log:     log,
	}, nil
}

// Matcher returns the match predicate used by the detector
func (d *Detector) Matcher() *Matcher {
	return d.builder.matcher
}

// ProgressFunc is called after each processed day
type ProgressFunc func(done, total int)

// Detect partitions activities into groups. Either the full group sequence is
// returned or an error, never a partial result.
func (d *Detector) Detect(activities []models.Activity) (*Result, error) {
	return d.DetectContext(context.Background(), activities, nil)
}

// DetectContext is Detect with cancellation checked between days and an
// optional progress callback.
func (d *Detector) DetectContext(ctx context.Context, activities []models.Activity, progress ProgressFunc) (*Result, error) {
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	res := &Result{TotalActivities: len(activities)}

	// Bucket by local day, keeping the order in which days are first seen.
	var days []string
	byDay := make(map[string][]*Candidate)
	seen := make(map[int64]struct{}, len(activities))

	for i := range activities {
		a := &activities[i]

		if d.catalog.IsExcluded(a.SportType) {
			res.ExcludedActivities++
			continue
		}
		if _, dup := seen[a.ActivityID]; dup {
			d.log.Warn("skipping duplicate activity", zap.Int64("activity_id", a.ActivityID))
			res.Diagnostics = append(res.Diagnostics, Diagnostic{ActivityID: a.ActivityID, Reason: DiagDuplicateID})
			continue
		}
		seen[a.ActivityID] = struct{}{}

		c, err := Prepare(a, d.catalog, d.cfg.TrackSamplePoints)
		if err != nil {
			d.log.Warn("excluding activity with invalid start date",
				zap.Int64("activity_id", a.ActivityID),
				zap.String("start_date", a.StartDate),
				zap.Error(err))
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				ActivityID: a.ActivityID,
				Reason:     DiagInvalidStartDate,
				Detail:     a.StartDate,
			})
			continue
		}
		if c.TrackErr != nil {
			d.log.Debug("comparing activity without its track",
				zap.Int64("activity_id", a.ActivityID),
				zap.Error(c.TrackErr))
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				ActivityID: a.ActivityID,
				Reason:     DiagMalformedTrack,
				Detail:     c.TrackErr.Error(),
			})
		}

		res.EligibleActivities++
		if _, ok := byDay[c.Day]; !ok {
			days = append(days, c.Day)
		}
		byDay[c.Day] = append(byDay[c.Day], c)
	}

	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(i, len(days))
		}

		cands := byDay[day]
		if len(cands) < d.cfg.MinGroupSize {
			continue
		}
		res.Days++

		dayRes := d.builder.BuildDay(cands)
		res.PairsCompared += dayRes.PairsCompared
		res.Edges += dayRes.Edges

		for _, clique := range dayRes.Cliques {
			res.Groups = append(res.Groups, d.finalize(day, len(res.Groups), clique))
		}
	}

	if err := d.checkGroups(res.Groups); err != nil {
		return nil, err
	}

	d.log.Info("group detection finished",
		zap.Int("activities", res.TotalActivities),
		zap.Int("eligible", res.EligibleActivities),
		zap.Int("excluded", res.ExcludedActivities),
		zap.Int("days", res.Days),
		zap.Int("pairs", res.PairsCompared),
		zap.Int("edges", res.Edges),
		zap.Int("groups", len(res.Groups)),
		zap.Int("diagnostics", len(res.Diagnostics)))

	return res, nil
}

// finalize aggregates a clique into a Group. Representative fields come from
// the first member carrying the most common sport type.
func (d *Detector) finalize(day string, index int, clique []*Candidate) models.Group {
	n := len(clique)
	g := models.Group{
		ID:           fmt.Sprintf("group_%s_%d", day, index),
		Date:         day,
		AthleteIDs:   make([]int64, 0, n),
		ActivityIDs:  make([]int64, 0, n),
		AthleteCount: n,
	}

	sportTypes := make([]string, 0, n)
	elevations := make([]float64, 0, n)
	durations := make([]float64, 0, n)
	distances := make([]float64, 0, n)
	var countries []string
	var starts []spatial.Point

	for _, c := range clique {
		a := c.Activity
		g.AthleteIDs = append(g.AthleteIDs, a.AthleteID)
		g.ActivityIDs = append(g.ActivityIDs, a.ActivityID)
		sportTypes = append(sportTypes, a.SportType)
		elevations = append(elevations, a.ElevationGain)
		durations = append(durations, a.MovingTime)
		distances = append(distances, a.Distance)
		if a.Country != "" {
			countries = append(countries, a.Country)
		}
		if lat, lon, ok := a.StartCoordinates(); ok {
			starts = append(starts, spatial.Point{Lat: lat, Lon: lon})
		}
	}

	_, repIdx := stats.MostFrequent(sportTypes)
	rep := clique[repIdx]
	g.Sport = rep.Activity.SportType
	g.SportCategory = rep.Category
	g.Name = rep.Activity.Name
	if g.Name == "" {
		g.Name = models.DefaultGroupName
	}

	g.Elevation = stats.RoundedMean(elevations)
	g.Duration = stats.RoundedMean(durations)
	g.Distance = stats.RoundedMean(distances)

	if len(countries) > 0 {
		g.Country, _ = stats.MostFrequent(countries)
	}
	if len(starts) > 0 {
		center := spatial.Centroid(starts)
		g.StartLat, g.StartLon = center.Lat, center.Lon
	}

	return g
}

// checkGroups enforces the output invariants: minimum size, one activity per
// athlete within a group, and no activity shared between groups.
func (d *Detector) checkGroups(groups []models.Group) error {
	used := make(map[int64]string)
	for _, g := range groups {
		if len(g.ActivityIDs) < d.cfg.MinGroupSize {
			return fmt.Errorf("%w: group %s has %d activities", ErrInvariant, g.ID, len(g.ActivityIDs))
		}

		athletes := make(map[int64]struct{}, len(g.AthleteIDs))
		for _, id := range g.AthleteIDs {
			if _, dup := athletes[id]; dup {
				return fmt.Errorf("%w: athlete %d appears twice in group %s", ErrInvariant, id, g.ID)
			}
			athletes[id] = struct{}{}
		}

		for _, id := range g.ActivityIDs {
			if other, dup := used[id]; dup {
				return fmt.Errorf("%w: activity %d is in groups %s and %s", ErrInvariant, id, other, g.ID)
			}
			used[id] = g.ID
		}
	}
	return nil
}
