package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/models"
)

// ReadMetadataDir reads a directory of Strava activity exports, one activity
// per *.json file. Files are read in name order and the first record of an
// activity id wins. A non-zero year keeps only activities starting that year.
// Unreadable files are logged and skipped.
func (l *Loader) ReadMetadataDir(dir string, year int) ([]models.Activity, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)
	l.log.Info("reading activity metadata", zap.String("dir", dir), zap.Int("files", len(files)))

	seen := make(map[int64]struct{}, len(files))
	activities := make([]models.Activity, 0, len(files))
	skipped, duplicates := 0, 0

	for _, path := range files {
		a, err := l.readMetadataFile(path)
		if err != nil {
			l.log.Warn("skipping metadata file", zap.String("file", path), zap.Error(err))
			skipped++
			continue
		}
		if _, dup := seen[a.ActivityID]; dup {
			duplicates++
			continue
		}
		seen[a.ActivityID] = struct{}{}

		if year != 0 && !startsInYear(a.StartDate, year) {
			continue
		}
		activities = append(activities, a)
	}

	l.log.Info("activity metadata read",
		zap.Int("activities", len(activities)),
		zap.Int("duplicates", duplicates),
		zap.Int("skipped", skipped))
	return activities, nil
}

func (l *Loader) readMetadataFile(path string) (models.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Activity{}, err
	}
	var raw rawActivity
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Activity{}, fmt.Errorf("failed to parse: %w", err)
	}
	a := l.normalize(&raw)
	if a.ActivityID == 0 {
		return models.Activity{}, fmt.Errorf("missing activity id")
	}
	return a, nil
}

func startsInYear(startDate string, year int) bool {
	t, err := models.ParseStartDate(startDate)
	if err != nil {
		return false
	}
	return t.Year() == year
}
