package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mise/internal/meal"
)

// SnapshotStore provides a file-based export of meal snapshots, one file per
// meal named after the snapshot's generation time.
type SnapshotStore struct {
	basePath string
}

// NewSnapshotStore creates a new SnapshotStore and ensures the base directory exists.
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &SnapshotStore{basePath: basePath}, nil
}

// BasePath is the export directory.
func (s *SnapshotStore) BasePath() string {
	return s.basePath
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts time.Time) string {
	return strings.ReplaceAll(ts.UTC().Format(time.RFC3339), ":", "-")
}

// getVersionedPath returns the full path for a given meal slug and version.
func (s *SnapshotStore) getVersionedPath(mealSlug string, version time.Time) string {
	filename := fmt.Sprintf("%s_%s.json", mealSlug, sanitizeTimestamp(version))
	return filepath.Join(s.basePath, filename)
}

// Save writes a meal and its snapshot, versioned by the snapshot time, and
// returns the file path.
func (s *SnapshotStore) Save(m *meal.Meal) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal meal: %w", err)
	}

	filePath := s.getVersionedPath(m.Slug, m.Snapshot.LastSnapshotAt)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return filePath, nil
}

// Load reads a meal from a specific version file.
func (s *SnapshotStore) Load(mealSlug string, version time.Time) (*meal.Meal, error) {
	filePath := s.getVersionedPath(mealSlug, version)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var m meal.Meal
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal: %w", err)
	}
	return &m, nil
}

// Exists checks if a specific version of a meal export exists.
func (s *SnapshotStore) Exists(mealSlug string, version time.Time) bool {
	filePath := s.getVersionedPath(mealSlug, version)
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// RemoveStaleVersions removes all files associated with a meal slug.
func (s *SnapshotStore) RemoveStaleVersions(mealSlug string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.json", mealSlug))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}

// Export saves m unless its current version is already on disk, removing
// older versions first. It reports whether a file was written.
func (s *SnapshotStore) Export(m *meal.Meal) (string, bool, error) {
	version := m.Snapshot.LastSnapshotAt
	if s.Exists(m.Slug, version) {
		return s.getVersionedPath(m.Slug, version), false, nil
	}
	if err := s.RemoveStaleVersions(m.Slug); err != nil {
		return "", false, err
	}
	path, err := s.Save(m)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
