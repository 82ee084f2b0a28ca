package rank

import (
	"TopSpectra/internal/model"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// TextWriter handles writing rankings to a human-readable text file.
type TextWriter struct {
	rootPath string
	interval time.Duration
}

// NewTextWriter creates a new text writer for rankings.
func NewTextWriter(rootPath string, interval time.Duration) model.Writer {
	return &TextWriter{rootPath: rootPath, interval: interval}
}

func (w *TextWriter) GetInterval() time.Duration {
	return w.interval
}

func (w *TextWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(RankingData)
	if !ok {
		return fmt.Errorf("invalid payload type for TextWriter: expected rank.RankingData, got %T", payload)
	}

	if len(snapshot.Groups) == 0 {
		return nil // Nothing to write
	}

	taskDir := filepath.Join(w.rootPath, timestamp, snapshot.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(taskDir, "rankings.txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", filePath, err)
	}
	defer file.Close()

	total := 0
	for _, group := range snapshot.Groups {
		header := fmt.Sprintf("group=%s window_end=%s\n", group.Group, group.WindowEnd.UTC().Format(time.RFC3339))
		if _, err := file.WriteString(header); err != nil {
			return fmt.Errorf("failed to write ranking header to file: %w", err)
		}
		for i, entry := range group.Entries {
			line := fmt.Sprintf("  #%d value=%d count=%d\n", i+1, entry.Value, entry.Count)
			if _, err := file.WriteString(line); err != nil {
				return fmt.Errorf("failed to write ranking entry to file: %w", err)
			}
			total++
		}
	}

	log.Printf("Successfully wrote %d ranking entries to %s\n", total, taskDir)

	return nil
}
