package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// InputDigest records one input file's identity and outcome so a run
// can be reproduced and audited.
type InputDigest struct {
	Platform   string `json:"platform"`
	SHA256     string `json:"sha256"`
	Rows       int    `json:"rows"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
}

// RunManifest describes one analysis run: which inputs under which
// policy produced which outputs. Written next to the reports.
type RunManifest struct {
	GeneratedAt string        `json:"generatedAt"`
	Policy      string        `json:"policy"`
	Seed        int64         `json:"seed"`
	Inputs      []InputDigest `json:"inputs"`
	Outputs     []string      `json:"outputs"`
}

// Digest returns the hex SHA-256 of one input file's bytes.
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// WriteManifest publishes the run manifest as indented JSON in dir.
func WriteManifest(dir string, m RunManifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	file := filepath.Join(dir, "run.manifest.json")
	out, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
