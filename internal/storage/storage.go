package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

const snapshotFile = "snapshot.json"

// Storage handles persistence of draw snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// DataDir returns the resolved data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// SnapshotPath returns the path to the snapshot file
func (s *Storage) SnapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*draw.Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return draw.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot draw.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Draws == nil {
		snapshot.Draws = make(map[string]*draw.Draw)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *draw.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromDraws creates and saves a snapshot from a list of draws
func (s *Storage) CreateSnapshotFromDraws(draws []*draw.Draw) error {
	snapshot := draw.CreateSnapshot(draws, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot)
}

// GetDrawByPeriod retrieves a draw from the saved snapshot
func (s *Storage) GetDrawByPeriod(period string) (*draw.Draw, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if d, exists := snapshot.Draws[strings.TrimSpace(period)]; exists {
		return d, nil
	}

	return nil, fmt.Errorf("draw not found: %s", period)
}
