package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/delhayec/MillionRecap/internal/models"
)

// Output is the precompute result file read by the front end
type Output struct {
	Activities []models.Activity `json:"activities"`
	Groups     []models.Group    `json:"group_activities"`
}

// WriteOutput encodes activities and groups as indented JSON. Nil slices are
// written as empty arrays.
func WriteOutput(w io.Writer, activities []models.Activity, groups []models.Group) error {
	if activities == nil {
		activities = []models.Activity{}
	}
	if groups == nil {
		groups = []models.Group{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Output{Activities: activities, Groups: groups}); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// WriteOutputFile writes the output file, replacing any previous one
func WriteOutputFile(path string, activities []models.Activity, groups []models.Group) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteOutput(f, activities, groups); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteActivitiesFile writes a bare JSON array of activities
func WriteActivitiesFile(path string, activities []models.Activity) error {
	if activities == nil {
		activities = []models.Activity{}
	}
	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode activities: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
