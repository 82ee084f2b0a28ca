package snapshot

import (
	"TopSpectra/internal/engine/impl/rank"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Loader reads back the snapshots a rank.GobWriter wrote to disk.
type Loader struct {
	rootPath string
}

// NewLoader creates a loader rooted at the writer's root path.
func NewLoader(rootPath string) *Loader {
	return &Loader{rootPath: rootPath}
}

// List returns the snapshot timestamps available under the root, sorted
// ascending. The timestamps use the writer's directory naming.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot root: %w", err)
	}
	var timestamps []string
	for _, entry := range entries {
		if entry.IsDir() {
			timestamps = append(timestamps, entry.Name())
		}
	}
	sort.Strings(timestamps)
	return timestamps, nil
}

// Load reads the rankings of one task snapshot.
func (l *Loader) Load(timestamp, taskName string) (rank.RankingData, error) {
	taskDir := filepath.Join(l.rootPath, timestamp, taskName)

	file, err := os.Open(filepath.Join(taskDir, "rankings.dat"))
	if err != nil {
		return rank.RankingData{}, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var groups []rank.GroupRanking
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&groups); err != nil {
		return rank.RankingData{}, fmt.Errorf("failed to decode rankings from gob: %w", err)
	}

	return rank.RankingData{TaskName: taskName, Groups: groups}, nil
}

// LoadSummary reads the sidecar summary.json of one task snapshot.
func (l *Loader) LoadSummary(timestamp, taskName string) (rank.SummaryData, error) {
	taskDir := filepath.Join(l.rootPath, timestamp, taskName)

	file, err := os.Open(filepath.Join(taskDir, "summary.json"))
	if err != nil {
		return rank.SummaryData{}, fmt.Errorf("failed to open summary file: %w", err)
	}
	defer file.Close()

	var summary rank.SummaryData
	if err := json.NewDecoder(file).Decode(&summary); err != nil {
		return rank.SummaryData{}, fmt.Errorf("failed to decode summary json: %w", err)
	}

	return summary, nil
}
