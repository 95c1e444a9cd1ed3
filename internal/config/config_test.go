package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Preview.Port != DefaultPort {
		t.Errorf("Preview.Port = %d, want %d", cfg.Preview.Port, DefaultPort)
	}
	if cfg.Preview.Host != DefaultHost {
		t.Errorf("Preview.Host = %q, want %q", cfg.Preview.Host, DefaultHost)
	}
	if cfg.Snapshot.Backend != BackendFile || cfg.Snapshot.Dir != DefaultSnapshotDir {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !stderrors.Is(err, fs.ErrNotExist) || !errors.HasCode(err, "C200") {
		t.Errorf("missing config error = %v", err)
	}

	configJSON := `{
  "log": {"level": "debug", "format": "json"},
  "renderer": {"keyedDiff": true},
  "preview": {"port": 8080},
  "snapshot": {"backend": "s3", "bucket": "renders", "region": "eu-west-1"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preview.Port != 8080 || cfg.Preview.Host != DefaultHost {
		t.Errorf("Preview = %+v", cfg.Preview)
	}
	if !cfg.Renderer.KeyedDiff || cfg.Renderer.TracerName != "reactor" {
		t.Errorf("Renderer = %+v", cfg.Renderer)
	}
	if cfg.Snapshot.Bucket != "renders" || cfg.Snapshot.Region != "eu-west-1" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if got := cfg.PreviewAddress(); got != "localhost:8080" {
		t.Errorf("PreviewAddress() = %q", got)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{invalid"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.HasCode(err, "C200") {
		t.Errorf("err = %v, want C200", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad port", func(c *Config) { c.Preview.Port = 70000 }, "preview.port"},
		{"s3 without bucket", func(c *Config) { c.Snapshot.Backend = BackendS3 }, "snapshot.bucket"},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "ftp" }, "snapshot.backend"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			var re *errors.ReactorError
			if !stderrors.As(err, &re) || re.Code != "C201" {
				t.Fatalf("err = %v, want C201", err)
			}
			if re.Fields["field"] != tt.field {
				t.Errorf("field = %v, want %s", re.Fields["field"], tt.field)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	if err := cfg.Save(); !errors.HasCode(err, "C202") {
		t.Errorf("Save without path = %v, want C202", err)
	}

	cfg.Preview.Port = 4000
	cfg.Metrics.Enabled = true
	if err := cfg.SaveTo(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if !Exists(dir) {
		t.Fatal("expected config file to exist")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Preview.Port != 4000 || !loaded.Metrics.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := FindProjectRoot(nested); !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	if err := Default().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}
}

func TestSnapshotDir(t *testing.T) {
	cfg := Default()
	if cfg.SnapshotDir() != DefaultSnapshotDir {
		t.Errorf("SnapshotDir() = %q", cfg.SnapshotDir())
	}

	dir := t.TempDir()
	if err := cfg.SaveTo(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, DefaultSnapshotDir); cfg.SnapshotDir() != want {
		t.Errorf("SnapshotDir() = %q, want %q", cfg.SnapshotDir(), want)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":1`) {
		t.Errorf("unexpected output %s", out)
	}

	if _, err := (LogConfig{Level: "nope"}).Logger(&buf); !errors.HasCode(err, "C201") {
		t.Errorf("err = %v, want C201", err)
	}
}
