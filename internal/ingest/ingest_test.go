package ingest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/delhayec/MillionRecap/internal/models"
)

type fixedZone string

func (z fixedZone) GetTimezoneName(lng, lat float64) string { return string(z) }

func newTestLoader(t *testing.T, zone string) *Loader {
	return NewLoader(fixedZone(zone), zaptest.NewLogger(t))
}

const stravaActivity = `{
	"id": 1001,
	"athlete": {"id": 7, "resource_state": 1},
	"athlete_full_name": "Camille D.",
	"name": "Tour du lac",
	"sport_type": "Ride",
	"start_date": "2025-06-01T06:00:00Z",
	"start_date_local": "2025-06-01T08:00:00Z",
	"moving_time": 3600,
	"elapsed_time": 4000,
	"distance": 30000.5,
	"total_elevation_gain": null,
	"map": {"id": "a1001", "summary_polyline": "_p~iF~ps|U", "resource_state": 2},
	"start_latlng": [46.5, 6.6],
	"kudos_count": 4
}`

func TestReadStravaArray(t *testing.T) {
	l := newTestLoader(t, "Europe/Zurich")

	activities, err := l.Read(strings.NewReader("[" + stravaActivity + "]"))
	require.NoError(t, err)
	require.Len(t, activities, 1)

	a := activities[0]
	assert.EqualValues(t, 1001, a.ActivityID)
	assert.EqualValues(t, 7, a.AthleteID)
	assert.Equal(t, "Camille D.", a.AthleteName)
	assert.Equal(t, "Ride", a.SportType)
	assert.Equal(t, "2025-06-01T08:00:00Z", a.StartDate)
	assert.Equal(t, 3600.0, a.MovingTime)
	assert.Equal(t, 30000.5, a.Distance)
	assert.Zero(t, a.ElevationGain)
	assert.Equal(t, "_p~iF~ps|U", a.EncodedTrack())
	assert.Equal(t, []float64{46.5, 6.6}, a.StartLatLng)
	assert.Equal(t, 4, a.KudosCount)
}

func TestReadWrappedObject(t *testing.T) {
	l := newTestLoader(t, "")

	activities, err := l.Read(strings.NewReader(`{"activities": [` + stravaActivity + `], "group_activities": []}`))
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.EqualValues(t, 1001, activities[0].ActivityID)
}

func TestReadActivityTableRecords(t *testing.T) {
	l := newTestLoader(t, "")

	input := `[{
		"athlete_id": 9, "activity_id": 55, "name": "Col", "date": "2025-07-14T09:30:00",
		"sport": "GravelRide", "tracemap": {"summary_polyline": "abc"},
		"distance_m": 42000, "moving_time_s": 7200, "elevation_gain_m": 900, "calories": 0, "year": 2025
	}]`
	activities, err := l.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, activities, 1)

	a := activities[0]
	assert.EqualValues(t, 55, a.ActivityID)
	assert.EqualValues(t, 9, a.AthleteID)
	assert.Equal(t, "GravelRide", a.SportType)
	assert.Equal(t, "2025-07-14T09:30:00", a.StartDate)
	assert.Equal(t, 42000.0, a.Distance)
	assert.Equal(t, 7200.0, a.MovingTime)
	assert.Equal(t, 900.0, a.ElevationGain)
	assert.Equal(t, "abc", a.EncodedTrack())
}

func TestLocalStartDerivedFromZone(t *testing.T) {
	tests := []struct {
		name  string
		zone  string
		input string
		want  string
	}{
		{
			name:  "shifted into zone",
			zone:  "Europe/Zurich",
			input: `{"id": 1, "start_date": "2025-06-01T22:30:00Z", "start_latlng": [46.5, 6.6]}`,
			want:  "2025-06-02T00:30:00",
		},
		{
			name:  "no position keeps utc",
			zone:  "Europe/Zurich",
			input: `{"id": 1, "start_date": "2025-06-01T22:30:00Z"}`,
			want:  "2025-06-01T22:30:00Z",
		},
		{
			name:  "unknown zone keeps utc",
			zone:  "",
			input: `{"id": 1, "start_date": "2025-06-01T22:30:00Z", "start_latlng": [0, -30]}`,
			want:  "2025-06-01T22:30:00Z",
		},
		{
			name:  "normalized record kept verbatim",
			zone:  "Europe/Zurich",
			input: `{"activity_id": 1, "start_date": "2025-06-01T22:30:00Z", "start_latlng": [46.5, 6.6]}`,
			want:  "2025-06-01T22:30:00Z",
		},
		{
			name:  "unparseable kept verbatim",
			zone:  "Europe/Zurich",
			input: `{"id": 1, "start_date": "yesterday", "start_latlng": [46.5, 6.6]}`,
			want:  "yesterday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(t, tt.zone)
			activities, err := l.Read(strings.NewReader("[" + tt.input + "]"))
			require.NoError(t, err)
			require.Len(t, activities, 1)
			assert.Equal(t, tt.want, activities[0].StartDate)
		})
	}
}

func TestReadRejectsInvalidJSON(t *testing.T) {
	l := newTestLoader(t, "")
	_, err := l.Read(strings.NewReader(`[{"id": 1,`))
	assert.Error(t, err)

	_, err = l.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadMetadataDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json":      `{"id": 1, "athlete": {"id": 7}, "name": "first", "sport_type": "Run", "start_date_local": "2025-03-01T08:00:00Z"}`,
		"b.json":      `{"id": 1, "athlete": {"id": 7}, "name": "duplicate", "sport_type": "Run", "start_date_local": "2025-03-01T08:00:00Z"}`,
		"c.json":      `{"id": 2, "athlete": {"id": 8}, "sport_type": "Hike", "start_date_local": "2024-12-31T10:00:00Z"}`,
		"d.json":      `{"id": 3, "athlete": {"id": 8}, "sport_type": "Ride", "start_date_local": "2025-01-01T10:00:00Z"}`,
		"broken.json": `{"id": `,
		"notes.txt":   `ignored`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	l := newTestLoader(t, "")

	all, err := l.ReadMetadataDir(dir, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Name)

	only2025, err := l.ReadMetadataDir(dir, 2025)
	require.NoError(t, err)
	ids := make([]int64, 0, len(only2025))
	for _, a := range only2025 {
		ids = append(ids, a.ActivityID)
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	acts := []models.Activity{{ActivityID: 1, AthleteID: 7, SportType: "Run", StartDate: "2025-06-01T08:00:00"}}
	groups := []models.Group{{ID: "group_2025-06-01_0", Date: "2025-06-01", AthleteIDs: []int64{7, 8}, ActivityIDs: []int64{1, 2}}}

	require.NoError(t, WriteOutput(&buf, acts, groups))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "activities")
	assert.Contains(t, decoded, "group_activities")

	// The output can be read back as input.
	l := newTestLoader(t, "")
	back, err := l.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, acts[0].ActivityID, back[0].ActivityID)
	assert.Equal(t, acts[0].StartDate, back[0].StartDate)

	buf.Reset()
	require.NoError(t, WriteOutput(&buf, nil, nil))
	assert.JSONEq(t, `{"activities": [], "group_activities": []}`, buf.String())
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	acts := []models.Activity{{ActivityID: 5, SportType: "Hike"}}

	require.NoError(t, WriteActivitiesFile(filepath.Join(dir, "table.json"), acts))
	require.NoError(t, WriteOutputFile(filepath.Join(dir, "out.json"), acts, nil))

	l := newTestLoader(t, "")
	for _, name := range []string{"table.json", "out.json"} {
		back, err := l.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Len(t, back, 1)
		assert.EqualValues(t, 5, back[0].ActivityID)
	}
}
