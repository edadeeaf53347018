package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bluesky/qmon/internal/rundocs"
)

type stubFetcher struct {
	docs map[string][]rundocs.Document
}

func (s stubFetcher) FetchDocuments(_ context.Context, uid string) ([]rundocs.Document, error) {
	docs, ok := s.docs[uid]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return docs, nil
}

func testFetcher() stubFetcher {
	return stubFetcher{docs: map[string][]rundocs.Document{
		"run-a": {
			{"uid": "run-a", "time": 1.0, "plan_name": "count"},
			{"uid": "desc-a", "run_start": "run-a", "data_keys": map[string]any{}},
		},
	}}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := runExport(context.Background(), &out, testFetcher(), "run-a", dir, toFile); err != nil {
		t.Fatalf("runExport: %v", err)
	}

	path := filepath.Join(dir, rundocs.ExportFileName("run-a"))
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var exp rundocs.Export
	if err := json.Unmarshal(b, &exp); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if exp.UID != "run-a" || len(exp.Documents) != 2 {
		t.Errorf("export = uid %q with %d docs, want run-a with 2", exp.UID, len(exp.Documents))
	}
	if !strings.Contains(out.String(), "(2 documents)") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestExportToStdout(t *testing.T) {
	var out bytes.Buffer
	if err := runExport(context.Background(), &out, testFetcher(), "run-a", t.TempDir(), toStdout); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	var exp rundocs.Export
	if err := json.Unmarshal(out.Bytes(), &exp); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out.String())
	}
	if exp.UID != "run-a" {
		t.Errorf("uid = %q, want run-a", exp.UID)
	}
}

func TestExportToClipboard(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(text string) (bool, error) {
		copied = text
		return true, nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	var out bytes.Buffer
	if err := runExport(context.Background(), &out, testFetcher(), "run-a", "", toClipboard); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if !strings.Contains(copied, `"uid": "run-a"`) {
		t.Errorf("clipboard did not receive the export: %q", copied)
	}
	if !strings.Contains(out.String(), "OSC 52") {
		t.Errorf("expected OSC 52 note, got %q", out.String())
	}
}

func TestExportFetchError(t *testing.T) {
	dir := t.TempDir()
	err := runExport(context.Background(), &bytes.Buffer{}, testFetcher(), "missing", dir, toFile)
	if err == nil || !strings.Contains(err.Error(), "fetch run missing") {
		t.Fatalf("expected fetch error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be written on failure, found %d", len(entries))
	}
}
