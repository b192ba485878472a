// Package ingest reads activity metadata from Strava exports and from the
// activity table written by builddb, and writes precompute output files.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/models"
)

// localLayout is how derived local start times are written: a naive
// wall-clock time, read back as such by models.ParseStartDate.
const localLayout = "2006-01-02T15:04:05"

// rawActivity accepts both the Strava activity shape and the flat records of
// the activity table.
type rawActivity struct {
	ID         int64 `json:"id"`
	ActivityID int64 `json:"activity_id"`

	Athlete struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
	AthleteID       int64  `json:"athlete_id"`
	AthleteName     string `json:"athlete_name"`
	AthleteFullName string `json:"athlete_full_name"`

	Name      string `json:"name"`
	SportType string `json:"sport_type"`
	Sport     string `json:"sport"`
	Type      string `json:"type"`

	StartDateLocal string `json:"start_date_local"`
	StartDate      string `json:"start_date"`
	Date           string `json:"date"`

	MovingTime         float64 `json:"moving_time"`
	MovingTimeS        float64 `json:"moving_time_s"`
	ElapsedTime        float64 `json:"elapsed_time"`
	Distance           float64 `json:"distance"`
	DistanceM          float64 `json:"distance_m"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	ElevationGainM     float64 `json:"elevation_gain_m"`

	Map      *models.TrackMap `json:"map"`
	Tracemap *models.TrackMap `json:"tracemap"`

	StartLatLng []float64 `json:"start_latlng"`
	Country     string    `json:"country"`

	KudosCount   int `json:"kudos_count"`
	CommentCount int `json:"comment_count"`
}

// Loader turns raw activity records into normalized activities
type Loader struct {
	zones *zoneLookup
	log   *zap.Logger
}

// NewLoader creates a loader. A nil finder loads tzf's default finder the
// first time an activity needs its local time derived.
func NewLoader(finder ZoneFinder, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		zones: newZoneLookup(finder),
		log:   log,
	}
}

// ReadFile reads activities from a JSON file
func (l *Loader) ReadFile(path string) ([]models.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	activities, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return activities, nil
}

// Read decodes either a bare array of activities or an object holding them
// under "activities"
func (l *Loader) Read(r io.Reader) ([]models.Activity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}

	var raws []rawActivity
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Activities []rawActivity `json:"activities"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse activities: %w", err)
		}
		raws = wrapper.Activities
	} else if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(raws))
	for i := range raws {
		activities = append(activities, l.normalize(&raws[i]))
	}
	return activities, nil
}

// normalize maps a raw record to an Activity. Missing numerics stay zero.
func (l *Loader) normalize(raw *rawActivity) models.Activity {
	a := models.Activity{
		ActivityID:    firstNonZero(raw.ID, raw.ActivityID),
		AthleteID:     firstNonZero(raw.Athlete.ID, raw.AthleteID),
		AthleteName:   firstNonEmpty(raw.AthleteName, raw.AthleteFullName),
		Name:          raw.Name,
		SportType:     firstNonEmpty(raw.SportType, raw.Sport, raw.Type),
		MovingTime:    firstNonZero(raw.MovingTime, raw.MovingTimeS),
		ElapsedTime:   raw.ElapsedTime,
		Distance:      firstNonZero(raw.Distance, raw.DistanceM),
		ElevationGain: firstNonZero(raw.TotalElevationGain, raw.ElevationGainM),
		StartLatLng:   raw.StartLatLng,
		Country:       raw.Country,
		KudosCount:    raw.KudosCount,
		CommentCount:  raw.CommentCount,
	}
	if raw.Map != nil {
		a.Map = *raw.Map
	} else if raw.Tracemap != nil {
		a.Map = *raw.Tracemap
	}
	if len(a.StartLatLng) < 2 {
		a.StartLatLng = nil
	}
	a.StartDate = l.localStart(raw, &a)
	return a
}

// localStart picks the local start time. Strava's start_date_local wins.
// A Strava record (keyed by "id") with only a UTC start_date is shifted into
// the zone at its start position when one is known. Normalized records
// already carry local times in start_date and are kept verbatim.
func (l *Loader) localStart(raw *rawActivity, a *models.Activity) string {
	if raw.StartDateLocal != "" {
		return raw.StartDateLocal
	}
	if raw.Date != "" {
		return raw.Date
	}
	if raw.StartDate == "" || raw.ID == 0 {
		return raw.StartDate
	}

	lat, lon, ok := a.StartCoordinates()
	if !ok {
		return raw.StartDate
	}
	utc, err := time.Parse(time.RFC3339, raw.StartDate)
	if err != nil {
		return raw.StartDate
	}
	loc, err := l.zones.location(lat, lon)
	if err != nil {
		l.log.Debug("keeping UTC start time",
			zap.Int64("activity_id", a.ActivityID),
			zap.Error(err))
		return raw.StartDate
	}
	return utc.In(loc).Format(localLayout)
}

func firstNonZero[T int64 | float64](values ...T) T {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
