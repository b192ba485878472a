package models

// Group is one inferred shared outing: activities of different athletes,
// recorded the same day, that pairwise match each other.
type Group struct {
	ID          string  `json:"id" db:"id"`
	Date        string  `json:"date" db:"date"` // YYYY-MM-DD, local calendar day
	AthleteIDs  []int64 `json:"athletes"`
	ActivityIDs []int64 `json:"activity_ids"`

	// Representative values, taken from one member.
	Sport         string `json:"sport" db:"sport"`
	SportCategory string `json:"sport_category" db:"sport_category"`
	Name          string `json:"name" db:"name"`

	// Means over members, rounded to the nearest integer.
	Elevation int64 `json:"elevation" db:"elevation"` // meters
	Duration  int64 `json:"duration" db:"duration"`   // seconds
	Distance  int64 `json:"distance" db:"distance"`   // meters

	AthleteCount int     `json:"athlete_count" db:"athlete_count"`
	Country      string  `json:"country,omitempty" db:"country"`
	StartLat     float64 `json:"start_lat,omitempty" db:"start_lat"`
	StartLon     float64 `json:"start_lon,omitempty" db:"start_lon"`

	RunID string `json:"run_id,omitempty" db:"run_id"`
}

// DefaultGroupName is used when the representative activity has no name.
const DefaultGroupName = "Sortie en groupe"

// GroupSummary counts groups by size bucket and category.
type GroupSummary struct {
	Total      int            `json:"total"`
	Pairs      int            `json:"pairs"`     // exactly 2 athletes
	Trios      int            `json:"trios"`     // exactly 3 athletes
	FourPlus   int            `json:"four_plus"` // 4 athletes or more
	ByCategory map[string]int `json:"by_category"`
	ByAthlete  map[int64]int  `json:"by_athlete"` // athlete id -> groups joined
}

// GroupsResponse represents a paginated response of groups
type GroupsResponse struct {
	Data       []Group `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
