package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the cache in a JSON object file mapping keys to country
// names, null standing for "no country"
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed cache store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cache file. A missing file is an empty cache.
func (s *FileStore) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	entries := make(map[string]string, len(raw))
	for k, v := range raw {
		if v != nil {
			entries[k] = *v
		} else {
			entries[k] = ""
		}
	}
	return entries, nil
}

// Save merges entries into the cache file and rewrites it atomically
func (s *FileStore) Save(ctx context.Context, entries map[string]string) error {
	existing, err := s.Load(ctx)
	if err != nil {
		return err
	}

	out := make(map[string]*string, len(existing)+len(entries))
	for _, m := range []map[string]string{existing, entries} {
		for k, v := range m {
			if v == "" {
				out[k] = nil
				continue
			}
			country := v
			out[k] = &country
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode geocode cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".geocache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
