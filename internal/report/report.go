// Package report persists analysis results as an indented JSON file.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/openautomations/dmcascan/internal/analyze"
)

// DefaultFilename returns the timestamped default report path.
func DefaultFilename(now time.Time) string {
	return "dmca_analysis_" + now.Format("20060102_150405") + ".json"
}

// Write serializes the records to path, or to the timestamped default when
// path is empty, and returns the filename written.
func Write(records []analyze.Record, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(time.Now())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
