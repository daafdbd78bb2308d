package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Snapshot is the JSON structure produced by WriteSnapshot. Snapshots
// make the in-memory cache durable across process runs and let teams
// seed a shared cache from a previous run's results.
type Snapshot struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Entries   map[string]string `json:"entries"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

const snapshotVersion = "1"

// WriteSnapshot writes the cache's live entries to w as indented JSON.
func WriteSnapshot(w io.Writer, c *InMemoryCache, metadata map[string]string) error {
	snap := Snapshot{
		Version:   snapshotVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:   c.Entries(),
		Metadata:  metadata,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// WriteSnapshotFile writes a snapshot to the given path.
func WriteSnapshotFile(path string, c *InMemoryCache, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	return WriteSnapshot(f, c, metadata)
}

// RestoreStats reports the outcome of restoring a snapshot.
type RestoreStats struct {
	Version  string
	Metadata map[string]string
	Restored int
	Failed   int
}

// RestoreSnapshot loads a snapshot into dst. Entries that fail to store
// are counted and skipped; any Cache implementation can be the target.
func RestoreSnapshot(r io.Reader, dst Cache) (*RestoreStats, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	stats := &RestoreStats{
		Version:  snap.Version,
		Metadata: snap.Metadata,
	}
	for key, value := range snap.Entries {
		if err := dst.Set(key, value); err != nil {
			stats.Failed++
			continue
		}
		stats.Restored++
	}
	return stats, nil
}

// RestoreSnapshotFile loads a snapshot from the given path into dst.
func RestoreSnapshotFile(path string, dst Cache) (*RestoreStats, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return RestoreSnapshot(f, dst)
}
