package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/delhayec/MillionRecap/internal/database"
	"github.com/delhayec/MillionRecap/internal/models"
)

const groupColumns = `id, run_id, date, sport, sport_category, name,
	elevation, duration, distance, athlete_count, country, start_lat, start_lon`

// GroupRepository handles database operations for detected groups
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ReplaceAll swaps the stored groups for the output of one run. Readers see
// either the previous set or the new one.
func (r *GroupRepository) ReplaceAll(ctx context.Context, runID string, groups []models.Group) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members"); err != nil {
			return fmt.Errorf("failed to clear group members: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM activity_groups"); err != nil {
			return fmt.Errorf("failed to clear groups: %w", err)
		}

		groupStmt, err := tx.PrepareContext(ctx, `INSERT INTO activity_groups (`+groupColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare group insert: %w", err)
		}
		defer groupStmt.Close()

		memberStmt, err := tx.PrepareContext(ctx, `INSERT INTO group_members (group_id, position, activity_id, athlete_id)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare member insert: %w", err)
		}
		defer memberStmt.Close()

		for _, g := range groups {
			_, err := groupStmt.ExecContext(ctx,
				g.ID, runID, g.Date, g.Sport, g.SportCategory, g.Name,
				g.Elevation, g.Duration, g.Distance, g.AthleteCount, g.Country, g.StartLat, g.StartLon,
			)
			if err != nil {
				return fmt.Errorf("failed to insert group %s: %w", g.ID, err)
			}

			for i, activityID := range g.ActivityIDs {
				if _, err := memberStmt.ExecContext(ctx, g.ID, i, activityID, g.AthleteIDs[i]); err != nil {
					return fmt.Errorf("failed to insert member %d of group %s: %w", activityID, g.ID, err)
				}
			}
		}
		return nil
	})
}

// List retrieves groups with filtering and pagination, most recent first
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.Group, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}
	if filter.Category != "" {
		conditions = append(conditions, "sport_category = ?")
		args = append(args, filter.Category)
	}
	if filter.AthleteID > 0 {
		conditions = append(conditions, "id IN (SELECT group_id FROM group_members WHERE athlete_id = ?)")
		args = append(args, filter.AthleteID)
	}
	if filter.MinSize > 0 {
		conditions = append(conditions, "athlete_count >= ?")
		args = append(args, filter.MinSize)
	}
	if filter.Country != "" {
		conditions = append(conditions, "country = ?")
		args = append(args, filter.Country)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_groups"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	_, pageSize, offset := filter.Pagination()
	query := `SELECT ` + groupColumns + ` FROM activity_groups` + where + ` ORDER BY date DESC, rowid LIMIT ? OFFSET ?`
	args = append(args, pageSize, offset)

	groups, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// All returns every stored group in detection order
func (r *GroupRepository) All(ctx context.Context) ([]models.Group, error) {
	return r.query(ctx, `SELECT `+groupColumns+` FROM activity_groups ORDER BY rowid`)
}

// GetByID retrieves a single group, nil when it does not exist
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	groups, err := r.query(ctx, `SELECT `+groupColumns+` FROM activity_groups WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return &groups[0], nil
}

func (r *GroupRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	index := make(map[string]int)
	for rows.Next() {
		var g models.Group
		err := rows.Scan(
			&g.ID, &g.RunID, &g.Date, &g.Sport, &g.SportCategory, &g.Name,
			&g.Elevation, &g.Duration, &g.Distance, &g.AthleteCount, &g.Country, &g.StartLat, &g.StartLon,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	if len(groups) == 0 {
		return groups, nil
	}
	if err := r.loadMembers(ctx, groups, index); err != nil {
		return nil, err
	}
	return groups, nil
}

// Larger result sets read the whole member table instead of binding ids.
const maxMemberParams = 500

func (r *GroupRepository) loadMembers(ctx context.Context, groups []models.Group, index map[string]int) error {
	query := `SELECT group_id, activity_id, athlete_id FROM group_members`
	var args []interface{}

	if len(groups) <= maxMemberParams {
		placeholders := make([]string, len(groups))
		args = make([]interface{}, len(groups))
		for i, g := range groups {
			placeholders[i] = "?"
			args[i] = g.ID
		}
		query += ` WHERE group_id IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY group_id, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID string
		var activityID, athleteID int64
		if err := rows.Scan(&groupID, &activityID, &athleteID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		i, ok := index[groupID]
		if !ok {
			continue
		}
		groups[i].ActivityIDs = append(groups[i].ActivityIDs, activityID)
		groups[i].AthleteIDs = append(groups[i].AthleteIDs, athleteID)
	}
	return rows.Err()
}
