package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withFlags(t *testing.T, cfgPath, server string) {
	t.Helper()
	prevCfg, prevServer := configPath, serverURL
	configPath, serverURL = cfgPath, server
	t.Cleanup(func() { configPath, serverURL = prevCfg, prevServer })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qmon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigExplicitFile(t *testing.T) {
	withFlags(t, writeConfig(t, "server:\n  url: http://10.0.0.5:9000\nexport:\n  dir: /tmp/runs\n"), "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.URL != "http://10.0.0.5:9000" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Export.Dir != "/tmp/runs" {
		t.Errorf("export dir = %q", cfg.Export.Dir)
	}
}

func TestLoadConfigServerOverride(t *testing.T) {
	withFlags(t, writeConfig(t, "server:\n  url: http://10.0.0.5:9000\n"), "http://localhost:7777")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.URL != "http://localhost:7777" {
		t.Errorf("server url = %q, want override", cfg.Server.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "nope.yaml"), "")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestCommandTree(t *testing.T) {
	want := map[string]bool{"mock-server": false, "smoke": false, "export": false, "version": false, "update": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestExportCommandEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/runs/run-z/documents" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uid":"run-z","documents":[{"uid":"run-z","time":1}]}`))
	}))
	defer ts.Close()

	cfgPath := writeConfig(t, "server:\n  url: "+ts.URL+"\n")
	withFlags(t, "", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "export", "run-z", "--stdout"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		exportCmd.Flags().Set("stdout", "false")
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `"uid": "run-z"`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestVersionDevBuild(t *testing.T) {
	var out bytes.Buffer
	runVersion(context.Background(), &out, "dev", "bluesky/qmon")
	got := out.String()
	if !strings.Contains(got, "qmon version dev") {
		t.Errorf("missing version line: %q", got)
	}
	if !strings.Contains(got, "update check skipped") {
		t.Errorf("dev build should skip the update check: %q", got)
	}
}
