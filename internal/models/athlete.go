package models

// Athlete summarizes one athlete's stored activities and group participation
type Athlete struct {
	ID         int64  `json:"id" db:"athlete_id"`
	Name       string `json:"name"`
	Activities int    `json:"activities"`
	Groups     int    `json:"groups"`
}
