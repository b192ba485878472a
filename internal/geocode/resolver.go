// Package geocode resolves the country an activity started in.
//
// Lookups go through a cache keyed by coordinates rounded to two decimals
// (about one kilometre). Misses are sent to a reverse geocoder, rate limited,
// and fall back to built-in bounding boxes when the geocoder fails or the
// resolver is offline. The cache is loaded once before lookups and persisted
// once after.
package geocode

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/delhayec/MillionRecap/internal/metrics"
	"github.com/delhayec/MillionRecap/internal/models"
)

// Reverser looks up the country at a position
type Reverser interface {
	ReverseCountry(ctx context.Context, lat, lon float64) (string, error)
}

// CacheStore loads and saves cache entries. An empty country is a valid
// entry meaning "no country here".
type CacheStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
}

// Options configures a Resolver
type Options struct {
	Reverser Reverser   // nil resolves offline, from bounding boxes only
	Store    CacheStore // nil keeps the cache in memory
	Rate     rate.Limit // reverse lookups per second, 0 means unlimited
	Log      *zap.Logger
}

// Resolver maps coordinates to French country names
type Resolver struct {
	reverser Reverser
	store    CacheStore
	limiter  *rate.Limiter
	log      *zap.Logger

	mu    sync.Mutex
	cache map[string]string
	dirty map[string]string
}

// NewResolver creates a resolver
func NewResolver(opts Options) *Resolver {
	limit := opts.Rate
	if limit <= 0 {
		limit = rate.Inf
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Resolver{
		reverser: opts.Reverser,
		store:    opts.Store,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log,
		cache:    make(map[string]string),
		dirty:    make(map[string]string),
	}
}

// Offline reports whether the resolver only uses bounding boxes
func (r *Resolver) Offline() bool {
	return r.reverser == nil
}

// CacheKey returns the cache key of a position: both coordinates rounded to
// two decimals, written the way existing cache files spell them ("46.0,7.25").
func CacheKey(lat, lon float64) string {
	return formatRounded(lat) + "," + formatRounded(lon)
}

func formatRounded(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Load reads the persisted cache. Entries already resolved in memory win.
func (r *Resolver) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	entries, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load geocode cache: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range entries {
		if _, ok := r.cache[k]; !ok {
			r.cache[k] = v
		}
	}
	r.log.Info("geocode cache loaded", zap.Int("entries", len(entries)))
	return nil
}

// Persist saves entries resolved since the last Persist
func (r *Resolver) Persist(ctx context.Context) error {
	r.mu.Lock()
	pending := r.dirty
	r.dirty = make(map[string]string)
	r.mu.Unlock()

	if r.store == nil || len(pending) == 0 {
		return nil
	}

	if err := r.store.Save(ctx, pending); err != nil {
		// Keep the entries for the next attempt.
		r.mu.Lock()
		for k, v := range pending {
			r.dirty[k] = v
		}
		r.mu.Unlock()
		return fmt.Errorf("failed to persist geocode cache: %w", err)
	}

	r.log.Info("geocode cache persisted", zap.Int("entries", len(pending)))
	return nil
}

// Country returns the French name of the country at a position, "" when it
// cannot be determined. Geocoder failures fall back to bounding boxes and
// are not cached, so a later run can retry them.
func (r *Resolver) Country(ctx context.Context, lat, lon float64) string {
	key := CacheKey(lat, lon)

	r.mu.Lock()
	country, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		metrics.GeocodeLookup(metrics.GeocodeCache)
		return country
	}

	if r.reverser == nil {
		metrics.GeocodeLookup(metrics.GeocodeFallback)
		return FallbackCountry(lat, lon)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		metrics.GeocodeLookup(metrics.GeocodeFallback)
		return FallbackCountry(lat, lon)
	}

	country, err := r.reverser.ReverseCountry(ctx, lat, lon)
	if err != nil {
		r.log.Warn("reverse geocoding failed, using bounding boxes",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		metrics.GeocodeLookup(metrics.GeocodeFallback)
		return FallbackCountry(lat, lon)
	}

	country = TranslateCountry(country)
	metrics.GeocodeLookup(metrics.GeocodeNominatim)

	r.mu.Lock()
	r.cache[key] = country
	r.dirty[key] = country
	r.mu.Unlock()

	return country
}

// Resolve fills Country on activities that have a start position and no
// country yet. Returns the number of activities that received a country.
func (r *Resolver) Resolve(ctx context.Context, activities []models.Activity) int {
	resolved := 0
	for i := range activities {
		a := &activities[i]
		if a.Country != "" {
			continue
		}
		lat, lon, ok := a.StartCoordinates()
		if !ok {
			continue
		}
		if a.Country = r.Country(ctx, lat, lon); a.Country != "" {
			resolved++
		}
	}
	return resolved
}
