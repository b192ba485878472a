package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/delhayec/MillionRecap/internal/database"
)

// GeocacheRepository stores resolved countries keyed by rounded coordinates
type GeocacheRepository struct {
	db *sql.DB
}

// NewGeocacheRepository creates a new geocode cache repository
func NewGeocacheRepository(db *sql.DB) *GeocacheRepository {
	return &GeocacheRepository{db: db}
}

// Load returns every cached entry
func (r *GeocacheRepository) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT cache_key, country FROM geocode_cache")
	if err != nil {
		return nil, fmt.Errorf("failed to query geocode cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, country string
		if err := rows.Scan(&key, &country); err != nil {
			return nil, fmt.Errorf("failed to scan geocode cache entry: %w", err)
		}
		entries[key] = country
	}
	return entries, rows.Err()
}

// Save upserts the given entries in one transaction
func (r *GeocacheRepository) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO geocode_cache (cache_key, country) VALUES (?, ?)
			ON CONFLICT(cache_key) DO UPDATE SET country = excluded.country, updated_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare geocode cache upsert: %w", err)
		}
		defer stmt.Close()

		for key, country := range entries {
			if _, err := stmt.ExecContext(ctx, key, country); err != nil {
				return fmt.Errorf("failed to save geocode cache entry %s: %w", key, err)
			}
		}
		return nil
	})
}
