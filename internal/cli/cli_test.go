package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config that caches under a temp dir.
func writeConfig(t *testing.T) (path, cacheDir string) {
	t.Helper()
	dir := t.TempDir()
	cacheDir = filepath.Join(dir, "cache")
	path = filepath.Join(dir, "bowman.toml")
	body := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(cacheDir) + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, cacheDir
}

func TestCommandsEndToEnd(t *testing.T) {
	cfgPath, cacheDir := writeConfig(t)
	repo := t.TempDir()

	out, err := runCLI(t, "--config", cfgPath, "init", repo, "-t", "Ship v1", "-d", "First public release", "--tag", "release")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Initialized") {
		t.Errorf("init output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(repo, ".quiver", "meta.json")); err != nil {
		t.Errorf("meta.json missing: %v", err)
	}

	if _, err := runCLI(t, "--config", cfgPath, "init", repo, "-t", "again", "-d", "again"); err == nil {
		t.Error("second init should fail")
	}

	out, err = runCLI(t, "--config", cfgPath, "tags", repo)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !strings.Contains(out, "release") {
		t.Errorf("tags output = %q", out)
	}

	out, err = runCLI(t, "--config", cfgPath, "search", "--repo", repo, "PUBLIC")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Ship v1") {
		t.Errorf("search output = %q", out)
	}
	out, _ = runCLI(t, "--config", cfgPath, "search", "--repo", repo, "--tag", "nope")
	if !strings.Contains(out, "No aims match") {
		t.Errorf("empty search output = %q", out)
	}
	out, _ = runCLI(t, "--config", cfgPath, "search", "--repo", repo, "--limit", "0", "PUBLIC")
	if strings.Contains(out, "Ship v1") || !strings.Contains(out, "No aims match") {
		t.Errorf("search --limit 0 output = %q", out)
	}

	svgPath := filepath.Join(t.TempDir(), "map.svg")
	if _, err := runCLI(t, "--config", cfgPath, "render", repo, "-o", svgPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("render wrote %q", svg)
	}

	out, err = runCLI(t, "--config", cfgPath, "render", repo, "-f", "dot")
	if err != nil {
		t.Fatalf("render dot: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("dot output = %q", out)
	}

	if _, err := runCLI(t, "--config", cfgPath, "render", repo, "-f", "png"); err == nil {
		t.Error("unknown format accepted")
	}

	out, err = runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil || strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, %v", out, err)
	}
	out, err = runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("cache clear = %q, %v", out, err)
	}
}

func TestTagsWithoutRepository(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	if _, err := runCLI(t, "--config", cfgPath, "tags", t.TempDir()); err == nil {
		t.Error("tags on an uninitialized directory should fail")
	}
}

func TestPathCommand(t *testing.T) {
	out, err := runCLI(t, "path", "--from", "0,0,30", "--into", "200,0,40", "--width", "8")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "M ") || !strings.HasSuffix(strings.TrimSpace(out), "Z") {
		t.Errorf("path output = %q", out)
	}

	out, err = runCLI(t, "path", "--from", "0,0,30", "--into", "10,0,30")
	if err != nil || out != "" {
		t.Errorf("overlapping circles = %q, %v", out, err)
	}

	out, err = runCLI(t, "path", "--from", "0,0,10", "--into", "100,0,10", "--controls")
	if err != nil || !strings.Contains(out, "control1") || !strings.Contains(out, "midpoint") {
		t.Errorf("controls = %q, %v", out, err)
	}

	if _, err := runCLI(t, "path", "--from", "0,0", "--into", "1,1,1"); err == nil {
		t.Error("malformed circle accepted")
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil || !strings.Contains(out, "bowman") {
		t.Errorf("bash completion = %d bytes, %v", len(out), err)
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}
