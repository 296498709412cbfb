package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/eventlog"
	"github.com/Mavwarf/appicon/internal/icon"
	"github.com/Mavwarf/appicon/internal/paths"
)

// isolate points config and data lookups at an empty temp home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))
	return home
}

func runMkicon(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "appicon-config.json")
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestShouldLogConfigEnabled(t *testing.T) {
	cfg := config.Config{Options: config.Options{Log: true}}
	if !shouldLog(cfg, false) {
		t.Error("expected true when config.Log is true")
	}
}

func TestShouldLogFlagEnabled(t *testing.T) {
	if !shouldLog(config.Config{}, true) {
		t.Error("expected true when flag is true")
	}
}

func TestShouldLogBothDisabled(t *testing.T) {
	if shouldLog(config.Config{}, false) {
		t.Error("expected false when both disabled")
	}
}

func TestPaletteFromConfig(t *testing.T) {
	if got := palette(config.Default()); got != icon.DefaultPalette {
		t.Errorf("palette(Default()) = %+v, want %+v", got, icon.DefaultPalette)
	}
}

func TestNewRun(t *testing.T) {
	assets := []icon.Asset{{Name: "app_icon_16.png", Size: 16, Bytes: 10, SHA256: "ab"}}
	r := newRun(assets, nil)
	if r.Tool != "mkicon" || r.Status != eventlog.StatusOK || len(r.Assets) != 1 {
		t.Fatalf("newRun = %+v", r)
	}
	if r.Assets[0].Width != 16 || r.Assets[0].Height != 16 {
		t.Errorf("asset = %+v", r.Assets[0])
	}

	r = newRun(nil, errors.New("disk full"))
	if r.Status != eventlog.StatusError || r.Error != "disk full" {
		t.Errorf("newRun(err) = %+v", r)
	}
}

func TestRunGeneratesIconSet(t *testing.T) {
	isolate(t)
	out := t.TempDir()
	cfg := writeConfig(t, `{"config": {"sizes": [16, 32], "master_size": 64}}`)

	code, stdout, stderr := runMkicon(t, "--out", out, "--config", cfg)
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}
	for _, want := range []string{
		"OK Created app_icon_16.png",
		"OK Created app_icon_32.png",
		"OK Created app_icon.png (master)",
		"Icons created successfully!",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	for _, name := range []string{"app_icon_16.png", "app_icon_32.png", "app_icon.png"} {
		if !paths.Exists(filepath.Join(out, name)) {
			t.Errorf("%s not written", name)
		}
	}
}

func TestRunDefaultSetTwiceSameFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("renders the full icon set twice")
	}
	isolate(t)
	out := t.TempDir()

	list := func() []string {
		entries, err := os.ReadDir(out)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		return names
	}

	if code, _, stderr := runMkicon(t, "--out", out); code != 0 {
		t.Fatalf("first run exit = %d, stderr = %q", code, stderr)
	}
	first := list()
	if code, _, stderr := runMkicon(t, "--out", out); code != 0 {
		t.Fatalf("second run exit = %d, stderr = %q", code, stderr)
	}
	second := list()

	if len(first) != 9 {
		t.Errorf("first run wrote %d files, want 9: %v", len(first), first)
	}
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("file set changed: %v -> %v", first, second)
	}
}

func TestRunLogsWhenRequested(t *testing.T) {
	home := isolate(t)
	out := t.TempDir()
	cfg := writeConfig(t, `{"config": {"sizes": [16], "master_size": 32}}`)

	if code, _, stderr := runMkicon(t, "--out", out, "--config", cfg, "--log"); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}

	logPath := filepath.Join(home, "appdata", paths.AppDirName, paths.LogFileName)
	entries, err := eventlog.NewFileStore(logPath).Entries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Tool != "mkicon" || entries[0].Assets != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRunNoLogByDefault(t *testing.T) {
	home := isolate(t)
	out := t.TempDir()
	cfg := writeConfig(t, `{"config": {"sizes": [16], "master_size": 32}}`)

	if code, _, _ := runMkicon(t, "--out", out, "--config", cfg); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if paths.Exists(filepath.Join(home, "appdata", paths.AppDirName, paths.LogFileName)) {
		t.Error("run log written without --log")
	}
}

func TestRunBadConfig(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, `{"config": {"sizes": [0]}}`)
	code, _, stderr := runMkicon(t, "--config", cfg)
	if code != 1 || !strings.HasPrefix(stderr, "ERROR: ") {
		t.Errorf("exit = %d, stderr = %q", code, stderr)
	}
}

func TestRunOutputIsAFile(t *testing.T) {
	isolate(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := writeConfig(t, `{"config": {"sizes": [16], "master_size": 32}}`)
	code, _, stderr := runMkicon(t, "--out", blocker, "--config", cfg)
	if code != 1 || !strings.Contains(stderr, "ERROR: writing app_icon_16.png") {
		t.Errorf("exit = %d, stderr = %q", code, stderr)
	}
}

func TestRunFlagErrors(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{{"--out"}, {"--config"}, {"bogus"}} {
		code, _, stderr := runMkicon(t, args...)
		if code != 1 || stderr == "" {
			t.Errorf("run(%v) exit = %d, stderr = %q", args, code, stderr)
		}
	}
}

func TestRunHelpAndVersion(t *testing.T) {
	code, stdout, _ := runMkicon(t, "help")
	if code != 0 || !strings.Contains(stdout, "Usage:") {
		t.Errorf("help exit = %d, stdout = %q", code, stdout)
	}
	code, stdout, _ = runMkicon(t, "--version")
	if code != 0 || !strings.HasPrefix(stdout, "mkicon dev") {
		t.Errorf("version exit = %d, stdout = %q", code, stdout)
	}
}
