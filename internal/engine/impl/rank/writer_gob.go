package rank

import (
	"TopSpectra/internal/model"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SummaryData holds the metadata for a snapshot, internal to the writer.
type SummaryData struct {
	TaskName    string `json:"task_name"`
	TotalGroups int    `json:"total_groups"`
	TotalRanks  int    `json:"total_ranks"`
	Timestamp   string `json:"timestamp"`
}

// GobWriter handles writing rank task snapshot data to disk in gob format.
// It implements the model.Writer interface.
type GobWriter struct {
	rootPath string
	interval time.Duration
}

// NewGobWriter creates a new writer for rank task data.
func NewGobWriter(rootPath string, interval time.Duration) model.Writer {
	return &GobWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *GobWriter) GetInterval() time.Duration {
	return w.interval
}

// Write serializes and writes the rankings from a single task snapshot to disk.
// It expects the payload to be of type rank.RankingData.
func (w *GobWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(RankingData)
	if !ok {
		return fmt.Errorf("invalid payload type for GobWriter: expected rank.RankingData, got %T", payload)
	}

	if len(snapshot.Groups) == 0 {
		return nil // Nothing to write
	}

	taskDir := filepath.Join(w.rootPath, timestamp, snapshot.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(taskDir, "rankings.dat")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", filePath, err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(snapshot.Groups); err != nil {
		return fmt.Errorf("failed to encode rankings to gob for file '%s': %w", filePath, err)
	}

	totalRanks := 0
	for _, group := range snapshot.Groups {
		totalRanks += len(group.Entries)
	}

	summary := SummaryData{
		TaskName:    snapshot.TaskName,
		TotalGroups: len(snapshot.Groups),
		TotalRanks:  totalRanks,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	summaryFilePath := filepath.Join(taskDir, "summary.json")
	summaryFile, err := os.Create(summaryFilePath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	jsonEncoder := json.NewEncoder(summaryFile)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return nil
}
