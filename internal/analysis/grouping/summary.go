package grouping

import "github.com/delhayec/MillionRecap/internal/models"

// Summarize counts groups by size bucket, category and athlete participation.
// Groups are not modified.
func Summarize(groups []models.Group) models.GroupSummary {
	s := models.GroupSummary{
		Total:      len(groups),
		ByCategory: make(map[string]int),
		ByAthlete:  make(map[int64]int),
	}

	for _, g := range groups {
		switch size := len(g.ActivityIDs); {
		case size == 2:
			s.Pairs++
		case size == 3:
			s.Trios++
		case size >= 4:
			s.FourPlus++
		}

		s.ByCategory[g.SportCategory]++
		for _, athleteID := range g.AthleteIDs {
			s.ByAthlete[athleteID]++
		}
	}

	return s
}
