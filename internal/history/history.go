// Package history keeps the journal of previous runs.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DisplayLimit is how many recent runs are offered for repetition.
const DisplayLimit = 20

// Entry is one past run.
type Entry struct {
	ID     string    `yaml:"id"`
	Input  string    `yaml:"input_path"`
	Output string    `yaml:"output_path"`
	Time   time.Time `yaml:"time"`
	Files  int       `yaml:"files"`
}

// Journal is the full, unbounded list of runs stored at Path.
type Journal struct {
	Path    string
	Entries []Entry
}

// Load reads the journal at path. A missing file yields an empty journal.
func Load(path string) (*Journal, error) {
	j := &Journal{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return j, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(data, &j.Entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return j, nil
}

// Recent returns at most n of the latest entries, oldest first.
func (j *Journal) Recent(n int) []Entry {
	if n <= 0 || n >= len(j.Entries) {
		return j.Entries
	}

	return j.Entries[len(j.Entries)-n:]
}

// Append records a run and returns the stored entry.
func (j *Journal) Append(input, output string, files int, now time.Time) Entry {
	e := Entry{
		ID:     uuid.NewString(),
		Input:  input,
		Output: output,
		Time:   now,
		Files:  files,
	}
	j.Entries = append(j.Entries, e)

	return e
}

// Save rewrites the whole journal.
func (j *Journal) Save() error {
	data, err := yaml.Marshal(j.Entries)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return err
	}

	return writeFileAtomic(j.Path, data, 0o644)
}
