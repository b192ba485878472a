package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/delhayec/MillionRecap/internal/database"
	"github.com/delhayec/MillionRecap/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleActivities() []models.Activity {
	return []models.Activity{
		{
			ActivityID: 1, AthleteID: 100, AthleteName: "Alice", Name: "Tour du lac", SportType: "Run",
			StartDate: "2025-06-01T10:00:00Z", MovingTime: 3000, Distance: 8000, ElevationGain: 50,
			Map: models.TrackMap{SummaryPolyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@"}, StartLatLng: []float64{46.0, 7.0},
			Country: "Suisse",
		},
		{
			ActivityID: 2, AthleteID: 200, AthleteName: "Bob", SportType: "Ride",
			StartDate: "2025-06-02T08:00:00Z", MovingTime: 7200, Distance: 60000, ElevationGain: 900,
		},
		{
			ActivityID: 3, AthleteID: 100, AthleteName: "Alice", SportType: "Run",
			StartDate: "2025-05-30T18:00:00Z", MovingTime: 2000, Distance: 5000,
		},
	}
}

func TestActivityImportFirstWins(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))

	n, err := repo.Import(ctx, sampleActivities())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	changed := sampleActivities()[:1]
	changed[0].Name = "Renamed"
	n, err = repo.Import(ctx, changed)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by start date.
	assert.Equal(t, []int64{3, 1, 2}, []int64{all[0].ActivityID, all[1].ActivityID, all[2].ActivityID})
	assert.Equal(t, sampleActivities()[0], all[1])
	assert.Nil(t, all[2].StartLatLng)
}

func TestActivityList(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))
	_, err := repo.Import(ctx, sampleActivities())
	require.NoError(t, err)

	acts, total, err := repo.List(ctx, models.ActivityFilter{AthleteID: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, int64(1), acts[0].ActivityID)

	acts, total, err = repo.List(ctx, models.ActivityFilter{From: "2025-06-01", To: "2025-06-01"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, acts, 1)
	assert.Equal(t, int64(1), acts[0].ActivityID)

	acts, total, err = repo.List(ctx, models.ActivityFilter{PageSize: 1, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, acts, 1)
	assert.Equal(t, int64(1), acts[0].ActivityID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func sampleGroups() []models.Group {
	return []models.Group{
		{
			ID: "group_2025-06-01_0", Date: "2025-06-01", AthleteIDs: []int64{100, 200, 300}, ActivityIDs: []int64{1, 2, 3},
			Sport: "Run", SportCategory: "Run", Name: "Tour du lac", Elevation: 52, Duration: 3017, Distance: 8133,
			AthleteCount: 3, Country: "Suisse", StartLat: 46.002, StartLon: 7.002,
		},
		{
			ID: "group_2025-06-02_1", Date: "2025-06-02", AthleteIDs: []int64{200, 100}, ActivityIDs: []int64{5, 4},
			Sport: "Ride", SportCategory: "Bike", Name: models.DefaultGroupName, Elevation: 900, Duration: 7200,
			Distance: 60000, AthleteCount: 2, Country: "France",
		},
	}
}

func TestGroupReplaceAllAndRead(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepository(newTestDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, "run-1", sampleGroups()))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	want := sampleGroups()
	for i := range want {
		want[i].RunID = "run-1"
	}
	assert.Equal(t, want, all)

	g, err := repo.GetByID(ctx, "group_2025-06-02_1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, []int64{5, 4}, g.ActivityIDs)
	assert.Equal(t, []int64{200, 100}, g.AthleteIDs)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// A second run replaces everything.
	require.NoError(t, repo.ReplaceAll(ctx, "run-2", sampleGroups()[:1]))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "run-2", all[0].RunID)
}

func TestGroupReplaceAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepository(newTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, "run-1", sampleGroups()))

	// Activity 1 in two groups violates the member constraint.
	bad := sampleGroups()
	bad[1].ActivityIDs = []int64{1, 4}
	require.Error(t, repo.ReplaceAll(ctx, "run-2", bad))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "run-1", all[0].RunID)
}

func TestGroupListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepository(newTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, "run-1", sampleGroups()))

	tests := []struct {
		name   string
		filter models.GroupFilter
		want   []string
	}{
		{"all newest first", models.GroupFilter{}, []string{"group_2025-06-02_1", "group_2025-06-01_0"}},
		{"category", models.GroupFilter{Category: "Bike"}, []string{"group_2025-06-02_1"}},
		{"athlete", models.GroupFilter{AthleteID: 300}, []string{"group_2025-06-01_0"}},
		{"min size", models.GroupFilter{MinSize: 3}, []string{"group_2025-06-01_0"}},
		{"date range", models.GroupFilter{From: "2025-06-02", To: "2025-06-30"}, []string{"group_2025-06-02_1"}},
		{"country", models.GroupFilter{Country: "Suisse"}, []string{"group_2025-06-01_0"}},
		{"no match", models.GroupFilter{Category: "Ski"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)

			var ids []string
			for _, g := range groups {
				ids = append(ids, g.ID)
				assert.Len(t, g.ActivityIDs, g.AthleteCount)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAthletes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := NewActivityRepository(db).Import(ctx, sampleActivities())
	require.NoError(t, err)
	require.NoError(t, NewGroupRepository(db).ReplaceAll(ctx, "run-1", sampleGroups()))

	athletes, err := NewActivityRepository(db).Athletes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Athlete{
		{ID: 100, Name: "Alice", Activities: 2, Groups: 2},
		{ID: 200, Name: "Bob", Activities: 1, Groups: 2},
	}, athletes)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(newTestDB(t))

	run := &models.DetectionRun{
		ID:         "0b6c7a4e-4a7b-4d51-9a0e-3d1f2c7b9e10",
		Mode:       models.RunModeFullRecompute,
		Status:     models.RunStatusPending,
		ParamsJSON: `{"min_group_size":3}`,
		CreatedBy:  "admin",
	}
	require.NoError(t, repo.Create(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RunStatusPending, got.Status)
	assert.Nil(t, got.StartedAt)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.MarkAsRunning(ctx, run.ID))
	require.NoError(t, repo.UpdateProgress(ctx, run.ID, 40))
	got, err = repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, got.Status)
	assert.Equal(t, 40, got.ProgressPercent)
	assert.NotNil(t, got.StartedAt)

	require.NoError(t, repo.MarkAsCompleted(ctx, run.ID, models.RunOutcome{
		TotalActivities: 10, EligibleActivities: 8, ProcessedDays: 3, ResultSummary: `{"total":2}`,
	}))
	got, err = repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTerminal())
	assert.Equal(t, 100, got.ProgressPercent)
	assert.Equal(t, 8, got.EligibleActivities)
	assert.Equal(t, `{"total":2}`, got.ResultSummary)
	assert.NotNil(t, got.CompletedAt)

	runs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	missing, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRunMarkAsFailed(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.DetectionRun{ID: "r1", Mode: models.RunModeFullRecompute, Status: models.RunStatusPending}))

	require.NoError(t, repo.MarkAsFailed(ctx, "r1", "no activities to group"))
	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, got.Status)
	assert.Equal(t, "no activities to group", got.ErrorMessage)
}

func TestGeocacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGeocacheRepository(newTestDB(t))

	entries, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, repo.Save(ctx, map[string]string{"46.00,7.00": "Suisse", "0.00,-30.00": ""}))
	require.NoError(t, repo.Save(ctx, map[string]string{"46.00,7.00": "Suisse", "45.76,4.84": "France"}))

	entries, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"46.00,7.00": "Suisse", "0.00,-30.00": "", "45.76,4.84": "France"}, entries)
}
