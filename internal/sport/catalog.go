// Package sport maps Strava sport types onto the coarse categories used to
// decide whether two activities are comparable at all.
package sport

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category names
const (
	CategoryRun               = "Run"
	CategoryBike              = "Bike"
	CategoryHike              = "Hike"
	CategorySki               = "Ski"
	CategorySkiMountaineering = "Ski mountaineering"
	CategoryClimb             = "Climb"
	CategoryOther             = "Other"
)

// Catalog holds the sport type to category mapping and the set of sport types
// excluded from group detection. A Catalog is read-only once built.
type Catalog struct {
	categories map[string]string
	excluded   map[string]struct{}
}

// File is the on-disk YAML layout of a catalog.
type File struct {
	Categories map[string][]string `yaml:"categories"`
	Excluded   []string            `yaml:"excluded"`
}

// NewCatalog builds a catalog from a sport type -> category mapping and an
// exclusion list.
func NewCatalog(mapping map[string]string, excluded []string) *Catalog {
	c := &Catalog{
		categories: make(map[string]string, len(mapping)),
		excluded:   make(map[string]struct{}, len(excluded)),
	}
	for sportType, category := range mapping {
		c.categories[sportType] = category
	}
	for _, sportType := range excluded {
		c.excluded[sportType] = struct{}{}
	}
	return c
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[string]string{
		"Run":               CategoryRun,
		"TrailRun":          CategoryRun,
		"VirtualRun":        CategoryRun,
		"Ride":              CategoryBike,
		"MountainBikeRide":  CategoryBike,
		"GravelRide":        CategoryBike,
		"EBikeRide":         CategoryBike,
		"EMountainBikeRide": CategoryBike,
		"VirtualRide":       CategoryBike,
		"Hike":              CategoryHike,
		"Walk":              CategoryHike,
		"Snowshoe":          CategoryHike,
		"BackcountrySki":    CategorySkiMountaineering,
		"NordicSki":         CategorySkiMountaineering,
		"AlpineSki":         CategorySki,
		"Snowboard":         CategorySki,
		"RockClimbing":      CategoryClimb,
	}, []string{
		"AlpineSki", "Snowboard", "EBikeRide", "EMountainBikeRide",
		"VirtualRide", "VirtualRun", "Sail", "Kitesurf", "Swim",
		"Yoga", "WeightTraining", "Rowing", "StandUpPaddling",
		"Crossfit", "HighIntensityIntervalTraining", "Workout",
		"IceSkate", "Surfing", "Skateboard", "Pilates",
	})
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sport catalog: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sport catalog %s: %w", path, err)
	}

	mapping := make(map[string]string)
	for category, sportTypes := range f.Categories {
		for _, sportType := range sportTypes {
			if prev, ok := mapping[sportType]; ok && prev != category {
				return nil, fmt.Errorf("sport type %q mapped to both %q and %q", sportType, prev, category)
			}
			mapping[sportType] = category
		}
	}

	return NewCatalog(mapping, f.Excluded), nil
}

// Category returns the category of a sport type, CategoryOther when unlisted.
func (c *Catalog) Category(sportType string) string {
	if category, ok := c.categories[sportType]; ok {
		return category
	}
	return CategoryOther
}

// IsExcluded reports whether activities of this sport type are never grouped.
func (c *Catalog) IsExcluded(sportType string) bool {
	_, ok := c.excluded[sportType]
	return ok
}

// Excluded returns the excluded sport types, sorted.
func (c *Catalog) Excluded() []string {
	out := make([]string, 0, len(c.excluded))
	for sportType := range c.excluded {
		out = append(out, sportType)
	}
	sort.Strings(out)
	return out
}
