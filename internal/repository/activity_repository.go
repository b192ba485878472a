package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/delhayec/MillionRecap/internal/database"
	"github.com/delhayec/MillionRecap/internal/models"
)

const activityColumns = `activity_id, athlete_id, athlete_name, name, sport_type, start_date,
	moving_time, elapsed_time, distance, elevation_gain, summary_polyline,
	start_lat, start_lon, country, kudos_count, comment_count`

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Import stores activities. An activity id that is already stored keeps its
// first version. Returns the number of rows inserted.
func (r *ActivityRepository) Import(ctx context.Context, activities []models.Activity) (int, error) {
	inserted := 0
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO activities (`+activityColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare activity insert: %w", err)
		}
		defer stmt.Close()

		for i := range activities {
			a := &activities[i]
			var lat, lon sql.NullFloat64
			if la, lo, ok := a.StartCoordinates(); ok {
				lat = sql.NullFloat64{Float64: la, Valid: true}
				lon = sql.NullFloat64{Float64: lo, Valid: true}
			}

			res, err := stmt.ExecContext(ctx,
				a.ActivityID, a.AthleteID, a.AthleteName, a.Name, a.SportType, a.StartDate,
				a.MovingTime, a.ElapsedTime, a.Distance, a.ElevationGain, a.Map.SummaryPolyline,
				lat, lon, a.Country, a.KudosCount, a.CommentCount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert activity %d: %w", a.ActivityID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// All returns every stored activity ordered by start date then id
func (r *ActivityRepository) All(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY start_date, activity_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// List retrieves activities with filtering and pagination
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.AthleteID > 0 {
		conditions = append(conditions, "athlete_id = ?")
		args = append(args, filter.AthleteID)
	}
	if filter.SportType != "" {
		conditions = append(conditions, "sport_type = ?")
		args = append(args, filter.SportType)
	}
	if filter.From != "" {
		conditions = append(conditions, "substr(start_date, 1, 10) >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "substr(start_date, 1, 10) <= ?")
		args = append(args, filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	_, pageSize, offset := filter.Pagination()
	query := `SELECT ` + activityColumns + ` FROM activities` + where + ` ORDER BY start_date DESC, activity_id LIMIT ? OFFSET ?`
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Count returns the number of stored activities
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

// Athletes returns per-athlete activity and group counts
func (r *ActivityRepository) Athletes(ctx context.Context) ([]models.Athlete, error) {
	query := `
		SELECT a.athlete_id, MAX(a.athlete_name), COUNT(*),
		       (SELECT COUNT(*) FROM group_members m WHERE m.athlete_id = a.athlete_id)
		FROM activities a
		GROUP BY a.athlete_id
		ORDER BY a.athlete_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query athletes: %w", err)
	}
	defer rows.Close()

	var athletes []models.Athlete
	for rows.Next() {
		var a models.Athlete
		if err := rows.Scan(&a.ID, &a.Name, &a.Activities, &a.Groups); err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	return athletes, rows.Err()
}

func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var lat, lon sql.NullFloat64
		err := rows.Scan(
			&a.ActivityID, &a.AthleteID, &a.AthleteName, &a.Name, &a.SportType, &a.StartDate,
			&a.MovingTime, &a.ElapsedTime, &a.Distance, &a.ElevationGain, &a.Map.SummaryPolyline,
			&lat, &lon, &a.Country, &a.KudosCount, &a.CommentCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if lat.Valid && lon.Valid {
			a.StartLatLng = []float64{lat.Float64, lon.Float64}
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}
