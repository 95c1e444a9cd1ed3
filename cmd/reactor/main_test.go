package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// initProject writes a default reactor.json into a temp dir and returns
// its path.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := execute(t, "init", dir); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, config.ConfigFileName)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dev\n" {
		t.Errorf("version --short = %q", out)
	}

	out, _ = execute(t, "version")
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version = %q", out)
	}
}

func TestInit(t *testing.T) {
	path := initProject(t)
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Preview.Port != config.DefaultPort {
		t.Errorf("port = %d", cfg.Preview.Port)
	}

	dir := filepath.Dir(path)
	if _, err := execute(t, "init", dir); !errors.HasCode(err, "C202") {
		t.Errorf("init over an existing file = %v, want C202", err)
	}
	if _, err := execute(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestRender(t *testing.T) {
	path := initProject(t)

	out, err := execute(t, "render", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<div id="app"><main id="demo">`,
		`<span class="count">0</span>`,
		`<p class="remaining">0 left</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<!DOCTYPE") {
		t.Error("plain render should not emit a page")
	}

	out, err = execute(t, "render", "--config", path, "--page")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "<title>reactor preview</title>") {
		t.Errorf("page output:\n%s", out)
	}
}

func TestRenderPrettyToFile(t *testing.T) {
	path := initProject(t)
	file := filepath.Join(t.TempDir(), "out.html")

	out, err := execute(t, "render", "--config", path, "--pretty", "--output", file)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  <main id=\"demo\">\n") {
		t.Errorf("expected indented markup:\n%s", data)
	}
}

func TestSnapshot(t *testing.T) {
	path := initProject(t)

	out, err := execute(t, "snapshot", "home", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	location := strings.TrimSpace(out)
	wantDir := filepath.Join(filepath.Dir(path), config.DefaultSnapshotDir, "home")
	if filepath.Dir(location) != wantDir {
		t.Errorf("snapshot saved to %s, want a file in %s", location, wantDir)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<span class="count">0</span>`) {
		t.Errorf("snapshot content:\n%s", data)
	}
}

func TestSnapshotArgs(t *testing.T) {
	path := initProject(t)

	if _, err := execute(t, "snapshot", "--config", path); !errors.HasCode(err, "S350") {
		t.Errorf("missing name = %v, want S350", err)
	}
	if _, err := execute(t, "snapshot", "../escape", "--config", path); !errors.HasCode(err, "S301") {
		t.Errorf("bad name = %v, want S301", err)
	}
	if _, err := execute(t, "snapshot", "home", "--config", path, "--backend", "ftp"); !errors.HasCode(err, "C201") {
		t.Errorf("bad backend = %v, want C201", err)
	}
}

func TestConfigErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), config.ConfigFileName)
	if _, err := execute(t, "render", "--config", missing); !errors.HasCode(err, "C200") {
		t.Errorf("missing config = %v, want C200", err)
	}

	path := initProject(t)
	if _, err := execute(t, "render", "--config", path, "--log-level", "loud"); !errors.HasCode(err, "C201") {
		t.Errorf("bad log level = %v, want C201", err)
	}
}
