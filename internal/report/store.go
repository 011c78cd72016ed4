package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const fileTimeFormat = "20060102T150405Z"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Store keeps run reports as JSON files in a directory.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// FileName is the name a run is stored under: start time, then environment.
func FileName(run *Run) string {
	return run.Start.UTC().Format(fileTimeFormat) + "_" + envSlug(run.Environment) + ".json"
}

func envSlug(env string) string {
	if s := unsafeName.ReplaceAllString(env, "_"); s != "" {
		return s
	}
	return "none"
}

// Save writes run and returns the file path. The file appears atomically.
func (s *Store) Save(run *Run) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := Marshal(run)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, FileName(run))
	tmp, err := os.CreateTemp(s.Dir, ".run-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}
	return path, nil
}

// List returns stored runs, newest first. limit <= 0 returns all of them.
// A missing directory is an empty history.
func (s *Store) List(limit int) ([]*Run, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	runs := make([]*Run, 0, len(names))
	for _, name := range names {
		run, err := s.Load(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Load reads a single report file.
func (s *Store) Load(path string) (*Run, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", filepath.Base(path), err)
	}
	return &run, nil
}

// Marshal renders run as indented JSON.
func Marshal(run *Run) ([]byte, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}
