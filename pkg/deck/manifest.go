package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one generated deck.
type Manifest struct {
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
	Title       string `json:"title"`
	Output      string `json:"output"`
	SHA256      string `json:"sha256"`
	Cells       int    `json:"cells"`
	Surfaces    int    `json:"surfaces"`
	Materials   int    `json:"materials"`
	Assemblies  int    `json:"assemblies"`
}

// NewManifest records a rendered deck written to output.
func NewManifest(d *Deck, output string, rendered []byte) Manifest {
	sum := d.Summary()
	digest := sha256.Sum256(rendered)
	return Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Title:       d.Title,
		Output:      output,
		SHA256:      hex.EncodeToString(digest[:]),
		Cells:       sum.Cells,
		Surfaces:    sum.Surfaces,
		Materials:   sum.Materials,
		Assemblies:  sum.Assemblies,
	}
}

// ManifestPath returns the manifest file written next to a deck.
func ManifestPath(output string) string {
	return output + ".json"
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
