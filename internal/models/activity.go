package models

import "time"

// Activity is one person's recorded activity, normalized from Strava metadata.
// Numeric fields that were missing upstream are zero.
type Activity struct {
	ActivityID  int64  `json:"activity_id" db:"activity_id"`
	AthleteID   int64  `json:"athlete_id" db:"athlete_id"`
	AthleteName string `json:"athlete_name,omitempty" db:"athlete_name"`
	Name        string `json:"name,omitempty" db:"name"`
	SportType   string `json:"sport_type" db:"sport_type"`

	// StartDate is the ISO-8601 local start time, kept verbatim so that a bad
	// value can be reported instead of silently rewritten.
	StartDate string `json:"start_date" db:"start_date"`

	MovingTime    float64 `json:"moving_time" db:"moving_time"`   // seconds
	ElapsedTime   float64 `json:"elapsed_time" db:"elapsed_time"` // seconds
	Distance      float64 `json:"distance" db:"distance"`         // meters
	ElevationGain float64 `json:"total_elevation_gain" db:"elevation_gain"`

	Map         TrackMap  `json:"map"`
	StartLatLng []float64 `json:"start_latlng,omitempty"`
	Country     string    `json:"country,omitempty" db:"country"`

	KudosCount   int `json:"kudos_count,omitempty" db:"kudos_count"`
	CommentCount int `json:"comment_count,omitempty" db:"comment_count"`
}

// TrackMap carries the encoded GPS track of an activity.
type TrackMap struct {
	SummaryPolyline string `json:"summary_polyline,omitempty" db:"summary_polyline"`
}

// EncodedTrack returns the encoded polyline, empty when the activity has no track.
func (a *Activity) EncodedTrack() string {
	return a.Map.SummaryPolyline
}

// StartCoordinates returns the start position when one is known.
func (a *Activity) StartCoordinates() (lat, lon float64, ok bool) {
	if len(a.StartLatLng) < 2 {
		return 0, 0, false
	}
	return a.StartLatLng[0], a.StartLatLng[1], true
}

// Accepted layouts for StartDate. Strava's start_date_local carries a "Z" even
// though it is a wall-clock time; naive values are read the same way.
var startDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseStartDate parses an activity start timestamp. Values without an offset
// are taken as UTC wall-clock times.
func ParseStartDate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range startDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ActivitiesResponse represents a paginated response of activities
type ActivitiesResponse struct {
	Data       []Activity `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
