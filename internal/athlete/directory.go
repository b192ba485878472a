// Package athlete maps athlete ids to display names.
package athlete

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Directory is a read-only id to display name table
type Directory struct {
	names map[int64]string
}

type directoryFile struct {
	Athletes map[int64]string `yaml:"athletes"`
}

// NewDirectory builds a directory from a name table
func NewDirectory(names map[int64]string) *Directory {
	d := &Directory{names: make(map[int64]string, len(names))}
	for id, name := range names {
		d.names[id] = name
	}
	return d
}

// LoadDirectory reads a directory from a YAML file. An empty path gives an
// empty directory.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		return NewDirectory(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read athlete directory: %w", err)
	}

	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse athlete directory %s: %w", path, err)
	}
	return NewDirectory(f.Athletes), nil
}

// Lookup returns the display name of an athlete, if known
func (d *Directory) Lookup(id int64) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

// Name returns the display name of an athlete, the id itself when unknown
func (d *Directory) Name(id int64) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return strconv.FormatInt(id, 10)
}

// Len returns the number of known athletes
func (d *Directory) Len() int {
	return len(d.names)
}
