package ingest

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

// ZoneFinder returns the IANA time zone name at a position, "" when unknown.
// tzf finders satisfy it.
type ZoneFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// zoneLookup builds the tzf finder on first use; loading its polygons takes
// a noticeable moment and most inputs already carry local times.
type zoneLookup struct {
	once   sync.Once
	finder ZoneFinder
	err    error

	mu        sync.Mutex
	locations map[string]*time.Location
}

func newZoneLookup(finder ZoneFinder) *zoneLookup {
	z := &zoneLookup{
		finder:    finder,
		locations: make(map[string]*time.Location),
	}
	if finder != nil {
		z.once.Do(func() {})
	}
	return z
}

// location returns the zone at a position
func (z *zoneLookup) location(lat, lon float64) (*time.Location, error) {
	z.once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			z.err = fmt.Errorf("failed to load time zone finder: %w", err)
			return
		}
		z.finder = f
	})
	if z.err != nil {
		return nil, z.err
	}

	name := z.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return nil, fmt.Errorf("no time zone at %.4f,%.4f", lat, lon)
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if loc, ok := z.locations[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", name, err)
	}
	z.locations[name] = loc
	return loc, nil
}
