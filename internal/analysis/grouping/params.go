package grouping

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Params overrides a subset of Config for a single run. Unset fields keep
// the configured value.
type Params struct {
	MaxStartDiffMinutes   *float64 `json:"max_start_diff_minutes,omitempty"`
	MaxDurationDiffSecs   *float64 `json:"max_duration_diff_seconds,omitempty"`
	CorridorWidthMeters   *float64 `json:"corridor_width_meters,omitempty"`
	MinTrackSimilarity    *float64 `json:"min_track_similarity,omitempty"`
	WeakTrackSimilarity   *float64 `json:"weak_track_similarity,omitempty"`
	MaxDistanceDeviation  *float64 `json:"max_distance_deviation,omitempty"`
	MaxElevationDeviation *float64 `json:"max_elevation_deviation,omitempty"`
	MinGroupSize          *int     `json:"min_group_size,omitempty"`
}

// ParseParams decodes run parameters. An empty string yields no overrides.
func ParseParams(raw string) (Params, error) {
	var p Params
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Params{}, fmt.Errorf("failed to decode run parameters: %w", err)
	}
	return p, nil
}

// Apply returns cfg with the overrides applied
func (p Params) Apply(cfg Config) Config {
	if p.MaxStartDiffMinutes != nil {
		cfg.MaxStartDiff = time.Duration(*p.MaxStartDiffMinutes * float64(time.Minute))
	}
	if p.MaxDurationDiffSecs != nil {
		cfg.MaxDurationDiff = *p.MaxDurationDiffSecs
	}
	if p.CorridorWidthMeters != nil {
		cfg.CorridorWidthMeters = *p.CorridorWidthMeters
	}
	if p.MinTrackSimilarity != nil {
		cfg.MinTrackSimilarity = *p.MinTrackSimilarity
	}
	if p.WeakTrackSimilarity != nil {
		cfg.WeakTrackSimilarity = *p.WeakTrackSimilarity
	}
	if p.MaxDistanceDeviation != nil {
		cfg.MaxDistanceDeviation = *p.MaxDistanceDeviation
	}
	if p.MaxElevationDeviation != nil {
		cfg.MaxElevationDeviation = *p.MaxElevationDeviation
	}
	if p.MinGroupSize != nil {
		cfg.MinGroupSize = *p.MinGroupSize
	}
	return cfg
}
