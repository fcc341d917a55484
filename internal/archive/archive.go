// Package archive persists the rendered newsletter and a run manifest
// to disk. This is fire-and-forget for the pipeline: an archive failure
// is logged, never fatal.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cyberbrief/internal/digest"
	"cyberbrief/internal/logger"
)

// Manifest records what a run produced: the items that made each
// section plus the run counters. The digest text and this manifest are
// the only artifacts that outlive the run.
type Manifest struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Degraded    bool                `json:"degraded"`
	Sections    map[string][]string `json:"sections"`
	Stats       map[string]int64    `json:"stats"`
}

// Save writes the digest and its manifest under dir, named by the run
// timestamp. Returns the newsletter path.
func Save(dir string, d digest.Digest, stats map[string]int64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: create dir: %w", err)
	}

	stamp := d.GeneratedAt.Format("20060102_150405")
	textPath := filepath.Join(dir, fmt.Sprintf("cyberbrief_%s.txt", stamp))

	if err := os.WriteFile(textPath, []byte(d.Text), 0o644); err != nil {
		return "", fmt.Errorf("archive: write newsletter: %w", err)
	}

	manifest := Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: d.GeneratedAt,
		Degraded:    d.Empty(),
		Sections:    d.Included,
		Stats:       stats,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return textPath, fmt.Errorf("archive: marshal manifest: %w", err)
	}

	manifestPath := filepath.Join(dir, fmt.Sprintf("cyberbrief_%s.manifest.json", stamp))
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return textPath, fmt.Errorf("archive: write manifest: %w", err)
	}

	logger.Info("newsletter archived", "path", textPath, "run_id", manifest.RunID)
	return textPath, nil
}
