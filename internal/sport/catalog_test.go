package sport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogCategory(t *testing.T) {
	c := DefaultCatalog()

	tests := map[string]string{
		"Run":            CategoryRun,
		"TrailRun":       CategoryRun,
		"GravelRide":     CategoryBike,
		"Walk":           CategoryHike,
		"BackcountrySki": CategorySkiMountaineering,
		"Snowboard":      CategorySki,
		"RockClimbing":   CategoryClimb,
		"Kayaking":       CategoryOther,
		"":               CategoryOther,
	}
	for sportType, want := range tests {
		assert.Equal(t, want, c.Category(sportType), sportType)
		// Pure function: asking twice gives the same answer.
		assert.Equal(t, c.Category(sportType), c.Category(sportType))
	}
}

func TestDefaultCatalogExclusions(t *testing.T) {
	c := DefaultCatalog()

	assert.True(t, c.IsExcluded("VirtualRide"))
	assert.True(t, c.IsExcluded("AlpineSki"))
	assert.True(t, c.IsExcluded("Swim"))
	assert.False(t, c.IsExcluded("Run"))
	assert.False(t, c.IsExcluded("Kayaking"))
	assert.Len(t, c.Excluded(), 20)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  Run: [Run, TrailRun]
  Paddle: [Kayaking, Canoeing]
excluded: [Yoga]
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "Paddle", c.Category("Canoeing"))
	assert.Equal(t, CategoryRun, c.Category("TrailRun"))
	assert.Equal(t, CategoryOther, c.Category("Ride"))
	assert.True(t, c.IsExcluded("Yoga"))
	assert.Equal(t, []string{"Yoga"}, c.Excluded())
}

func TestLoadCatalogConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  Run: [TrailRun]
  Hike: [TrailRun]
`), 0o644))

	_, err := LoadCatalog(path)
	assert.ErrorContains(t, err, "TrailRun")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRepositoryCatalogMatchesDefault(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "configs", "sports.yaml"))
	require.NoError(t, err)

	def := DefaultCatalog()
	assert.Equal(t, def.Excluded(), c.Excluded())
	for sportType := range def.categories {
		assert.Equal(t, def.Category(sportType), c.Category(sportType), sportType)
	}
}
