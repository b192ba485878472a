// Package config reads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/delhayec/MillionRecap/internal/analysis/grouping"
	"github.com/delhayec/MillionRecap/internal/geocode"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	JWTIssuer string

	LogLevel  string // debug, info, warn, error
	LogFormat string // json or console

	// YAML files; empty uses built-in defaults
	SportsFile   string
	AthletesFile string

	// Per-IP request budget of the API
	RateLimitRPS   float64
	RateLimitBurst int

	Grouping grouping.Config
	Geocoder GeocoderConfig
}

// GeocoderConfig configures country resolution
type GeocoderConfig struct {
	URL       string
	UserAgent string
	Rate      float64 // requests per second
	Timeout   time.Duration
	Offline   bool   // bounding boxes only
	CacheFile string // JSON cache for the batch tools; the server caches in SQLite
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", ":8080"),
		DBPath:    getEnv("DB_PATH", "./data/millionrecap.db"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "millionrecap"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SportsFile:   getEnv("SPORTS_FILE", ""),
		AthletesFile: getEnv("ATHLETES_FILE", ""),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 20),

		Grouping: loadGrouping(),
		Geocoder: GeocoderConfig{
			URL:       getEnv("GEOCODER_URL", geocode.DefaultNominatimURL),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "MillionRecap/1.0"),
			Rate:      getFloatEnv("GEOCODER_RATE", 1),
			Timeout:   getDurationEnv("GEOCODER_TIMEOUT", 5*time.Second),
			Offline:   getBoolEnv("GEOCODER_OFFLINE", false),
			CacheFile: getEnv("GEOCODER_CACHE_FILE", "country_cache.json"),
		},
	}
}

// loadGrouping overrides the default matching thresholds from the environment
func loadGrouping() grouping.Config {
	d := grouping.DefaultConfig()
	return grouping.Config{
		MaxStartDiff:            getDurationEnv("MAX_START_DIFF", d.MaxStartDiff),
		MaxDurationDiff:         getFloatEnv("MAX_DURATION_DIFF_SECONDS", d.MaxDurationDiff),
		CorridorWidthMeters:     getFloatEnv("CORRIDOR_WIDTH_METERS", d.CorridorWidthMeters),
		MinTrackSimilarity:      getFloatEnv("MIN_TRACK_SIMILARITY", d.MinTrackSimilarity),
		WeakTrackSimilarity:     getFloatEnv("WEAK_TRACK_SIMILARITY", d.WeakTrackSimilarity),
		TrackSamplePoints:       getIntEnv("TRACK_SAMPLE_POINTS", d.TrackSamplePoints),
		StrictStartDiff:         getDurationEnv("STRICT_START_DIFF", d.StrictStartDiff),
		StrictDurationDiff:      getFloatEnv("STRICT_DURATION_DIFF_SECONDS", d.StrictDurationDiff),
		StrictDistanceDeviation: getFloatEnv("STRICT_DISTANCE_DEVIATION", d.StrictDistanceDeviation),
		MaxDistanceDeviation:    getFloatEnv("MAX_DISTANCE_DEVIATION", d.MaxDistanceDeviation),
		MaxElevationDeviation:   getFloatEnv("MAX_ELEVATION_DEVIATION", d.MaxElevationDeviation),
		MinGroupSize:            getIntEnv("MIN_GROUP_SIZE", d.MinGroupSize),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
