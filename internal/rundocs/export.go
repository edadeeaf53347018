package rundocs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export is the artifact written for a run: the in-memory document set as
// the user sees it, with no server round-trip.
type Export struct {
	UID       string     `json:"uid"`
	Documents []Document `json:"documents"`
}

// MarshalExport encodes the export artifact as indented JSON.
func MarshalExport(uid string, docs []Document) ([]byte, error) {
	if docs == nil {
		docs = []Document{}
	}
	b, err := json.MarshalIndent(Export{UID: uid, Documents: docs}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rundocs: encoding export: %w", err)
	}
	return append(b, '\n'), nil
}

// ExportFileName is the artifact name for run uid.
func ExportFileName(uid string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, uid)
	return "run-" + safe + ".json"
}

// WriteExport writes the artifact into dir and returns its path.
func WriteExport(dir, uid string, docs []Document) (string, error) {
	if uid == "" {
		return "", fmt.Errorf("rundocs: no run to export")
	}
	b, err := MarshalExport(uid, docs)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("rundocs: creating export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(uid))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("rundocs: writing export: %w", err)
	}
	return path, nil
}
