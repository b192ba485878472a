// Package grouping infers shared outings from independently recorded activities.
//
// Activities are bucketed by local calendar day. Within a day every pair of
// activities from different athletes is tested with a Matcher; the resulting
// match graph is then packed greedily into disjoint cliques by a Builder.
package grouping

import (
	"errors"
	"fmt"
	"time"
)

// Config holds every tunable of the match predicate and the group builder
type Config struct {
	// Basic gates
	MaxStartDiff    time.Duration // start times further apart never match
	MaxDurationDiff float64       // seconds of moving time

	// Track comparison
	CorridorWidthMeters float64 // a sample counts as covered within this distance
	MinTrackSimilarity  float64 // corridor score accepted on its own
	WeakTrackSimilarity float64 // lowest score rescued by the strict fallback
	TrackSamplePoints   int     // samples kept per track

	// Strict fallback for weak track similarity
	StrictStartDiff         time.Duration
	StrictDurationDiff      float64 // seconds
	StrictDistanceDeviation float64 // fraction of the mean distance

	// Comparison without tracks
	MaxDistanceDeviation  float64
	MaxElevationDeviation float64

	// MinGroupSize is the smallest number of activities finalized as a group
	MinGroupSize int
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		MaxStartDiff:            60 * time.Minute,
		MaxDurationDiff:         7200,
		CorridorWidthMeters:     150,
		MinTrackSimilarity:      0.5,
		WeakTrackSimilarity:     0.2,
		TrackSamplePoints:       30,
		StrictStartDiff:         15 * time.Minute,
		StrictDurationDiff:      600,
		StrictDistanceDeviation: 0.10,
		MaxDistanceDeviation:    0.20,
		MaxElevationDeviation:   0.20,
		MinGroupSize:            2,
	}
}

// Validate checks that the thresholds are coherent
func (c Config) Validate() error {
	var errs []error
	if c.MaxStartDiff < 0 || c.StrictStartDiff < 0 {
		errs = append(errs, errors.New("start time thresholds must not be negative"))
	}
	if c.MaxDurationDiff < 0 || c.StrictDurationDiff < 0 {
		errs = append(errs, errors.New("duration thresholds must not be negative"))
	}
	if c.CorridorWidthMeters <= 0 {
		errs = append(errs, fmt.Errorf("corridor width must be positive, got %v", c.CorridorWidthMeters))
	}
	if c.WeakTrackSimilarity < 0 || c.WeakTrackSimilarity > c.MinTrackSimilarity || c.MinTrackSimilarity > 1 {
		errs = append(errs, fmt.Errorf("track similarity thresholds must satisfy 0 <= weak (%v) <= min (%v) <= 1",
			c.WeakTrackSimilarity, c.MinTrackSimilarity))
	}
	if c.TrackSamplePoints < 1 {
		errs = append(errs, fmt.Errorf("track sample points must be at least 1, got %d", c.TrackSamplePoints))
	}
	if c.MaxDistanceDeviation < 0 || c.MaxElevationDeviation < 0 || c.StrictDistanceDeviation < 0 {
		errs = append(errs, errors.New("deviation thresholds must not be negative"))
	}
	if c.MinGroupSize < 2 {
		errs = append(errs, fmt.Errorf("minimum group size must be at least 2, got %d", c.MinGroupSize))
	}
	return errors.Join(errs...)
}
