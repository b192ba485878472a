// Package report prints the console summary of a precompute run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/delhayec/MillionRecap/internal/athlete"
	"github.com/delhayec/MillionRecap/internal/models"
)

// CountryCount is the number of activities started in a country
type CountryCount struct {
	Country string
	Count   int
}

// CountryDistribution counts activities per country, most frequent first,
// ties by name. Activities without a country are not counted. A positive
// limit keeps the first entries only.
func CountryDistribution(activities []models.Activity, limit int) []CountryCount {
	counts := make(map[string]int)
	for i := range activities {
		if c := activities[i].Country; c != "" {
			counts[c]++
		}
	}

	out := make([]CountryCount, 0, len(counts))
	for country, n := range counts {
		out = append(out, CountryCount{Country: country, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentGroups returns the groups of a category, most recent day first.
// Groups of the same day keep their order.
func RecentGroups(groups []models.Group, category string, limit int) []models.Group {
	var out []models.Group
	for _, g := range groups {
		if g.SportCategory == category {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Printer writes the run summary
type Printer struct {
	w         io.Writer
	directory *athlete.Directory
}

// NewPrinter creates a printer. A nil directory prints athlete ids.
func NewPrinter(w io.Writer, directory *athlete.Directory) *Printer {
	if directory == nil {
		directory = athlete.NewDirectory(nil)
	}
	return &Printer{w: w, directory: directory}
}

// Countries prints the 15 most frequent countries
func (p *Printer) Countries(activities []models.Activity) {
	fmt.Fprintf(p.w, "\nCountries:\n")
	for _, c := range CountryDistribution(activities, 15) {
		fmt.Fprintf(p.w, "  %s: %d activities\n", c.Country, c.Count)
	}
}

// Summary prints the group counts by size
func (p *Printer) Summary(summary models.GroupSummary) {
	fmt.Fprintf(p.w, "  %d group outings detected (duos: %d, trios: %d, 4+: %d)\n",
		summary.Total, summary.Pairs, summary.Trios, summary.FourPlus)
}

// RecentRides prints the ten most recent bike groups with athlete names
func (p *Printer) RecentRides(groups []models.Group, bikeCategory string) {
	total := 0
	for _, g := range groups {
		if g.SportCategory == bikeCategory {
			total++
		}
	}

	fmt.Fprintf(p.w, "\nBike groups (%d):\n", total)
	for _, g := range RecentGroups(groups, bikeCategory, 10) {
		names := make([]string, 0, len(g.AthleteIDs))
		for _, id := range g.AthleteIDs {
			names = append(names, p.directory.Name(id))
		}
		country := ""
		if g.Country != "" {
			country = " (" + g.Country + ")"
		}
		fmt.Fprintf(p.w, "  %s: %s%s\n", g.Date, strings.Join(names, ", "), country)
	}
}
