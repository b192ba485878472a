package grouping

import (
	"fmt"
	"time"

	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/polyline"
	"github.com/delhayec/MillionRecap/internal/spatial"
	"github.com/delhayec/MillionRecap/internal/sport"
)

// Candidate is an activity prepared for matching: start time parsed, category
// resolved and track decoded and sampled once, instead of once per pair.
type Candidate struct {
	Activity *models.Activity
	Start    time.Time
	Day      string // local calendar day, YYYY-MM-DD
	Category string

	// Track holds the sampled track; nil when the activity has no track or it
	// could not be decoded. A decoded track may hold a single point.
	Track []spatial.Point

	// TrackErr is set when an encoded track was present but could not be decoded.
	TrackErr error
}

// HasTrack reports whether the candidate carries a decoded track
func (c *Candidate) HasTrack() bool {
	return c.Track != nil
}

// Prepare builds a Candidate. It fails only when the start date cannot be parsed;
// a malformed track is recorded in TrackErr and the candidate stays usable.
func Prepare(a *models.Activity, catalog *sport.Catalog, samplePoints int) (*Candidate, error) {
	start, err := models.ParseStartDate(a.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", a.StartDate, err)
	}

	c := &Candidate{
		Activity: a,
		Start:    start,
		Day:      start.Format("2006-01-02"),
		Category: catalog.Category(a.SportType),
	}

	if encoded := a.EncodedTrack(); encoded != "" {
		points, err := polyline.Decode(encoded)
		if err != nil {
			c.TrackErr = err
		} else {
			c.Track = spatial.Sample(points, samplePoints)
			if c.Track == nil {
				c.Track = []spatial.Point{}
			}
		}
	}

	return c, nil
}
