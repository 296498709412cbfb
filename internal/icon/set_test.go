package icon

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{16, "app_icon_16.png"},
		{256, "app_icon_256.png"},
		{1024, "app_icon_1024.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.size); got != tt.want {
			t.Errorf("FileName(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
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

func TestGenerateSetWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	var reported []string
	assets, err := GenerateSet(dir, Sizes, MasterSize, DefaultPalette, func(a Asset) {
		reported = append(reported, a.Name)
	})
	if err != nil {
		t.Fatalf("GenerateSet: %v", err)
	}
	if len(assets) != len(Sizes)+1 {
		t.Fatalf("len(assets) = %d, want %d", len(assets), len(Sizes)+1)
	}
	for i, size := range Sizes {
		if assets[i].Name != FileName(size) || assets[i].Size != size || assets[i].Master {
			t.Errorf("assets[%d] = %+v, want %s", i, assets[i], FileName(size))
		}
	}
	last := assets[len(assets)-1]
	if last.Name != MasterFileName || !last.Master || last.Size != MasterSize {
		t.Errorf("master asset = %+v", last)
	}
	if len(reported) != len(assets) {
		t.Errorf("report called %d times, want %d", len(reported), len(assets))
	}

	names := listDir(t, dir)
	if len(names) != 9 {
		t.Fatalf("dir has %d files, want 9: %v", len(names), names)
	}
	for _, a := range assets {
		f, err := os.Open(a.Path)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: %v", a.Name, err)
		}
		if cfg.Width != a.Size || cfg.Height != a.Size {
			t.Errorf("%s: %dx%d, want %dx%d", a.Name, cfg.Width, cfg.Height, a.Size, a.Size)
		}
		if len(a.SHA256) != 64 || a.Bytes == 0 {
			t.Errorf("%s: digest %q bytes %d", a.Name, a.SHA256, a.Bytes)
		}
	}
}

func TestGenerateSetMasterMatchesRender(t *testing.T) {
	dir := t.TempDir()
	if _, err := GenerateSet(dir, []int{16}, MasterSize, DefaultPalette, nil); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, MasterFileName))
	if err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	if err := EncodePNG(&want, Render(MasterSize, DefaultPalette)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Error("app_icon.png differs from Render(1024)")
	}
}

func TestGenerateSetRerunIsStable(t *testing.T) {
	dir := t.TempDir()
	sizes := []int{16, 32, 48, 64}
	first, err := GenerateSet(dir, sizes, 128, DefaultPalette, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := listDir(t, dir)

	second, err := GenerateSet(dir, sizes, 128, DefaultPalette, nil)
	if err != nil {
		t.Fatal(err)
	}
	after := listDir(t, dir)

	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Errorf("file set changed: %v -> %v", before, after)
	}
	for i := range first {
		if first[i].SHA256 != second[i].SHA256 {
			t.Errorf("%s: digest changed between runs", first[i].Name)
		}
	}
}

func TestGenerateSetStopsOnInvalidSize(t *testing.T) {
	dir := t.TempDir()
	assets, err := GenerateSet(dir, []int{16, 0, 32}, 64, DefaultPalette, nil)
	if err == nil {
		t.Fatal("expected error for size 0")
	}
	if len(assets) != 1 {
		t.Errorf("len(assets) = %d, want 1", len(assets))
	}
	// Files written before the failure stay on disk.
	names := listDir(t, dir)
	if len(names) != 1 || names[0] != "app_icon_16.png" {
		t.Errorf("dir = %v, want [app_icon_16.png]", names)
	}
}

func TestGenerateSetMissingDirectoryIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "icons")
	if _, err := GenerateSet(dir, []int{16}, 32, DefaultPalette, nil); err != nil {
		t.Fatalf("GenerateSet: %v", err)
	}
	if len(listDir(t, dir)) != 2 {
		t.Errorf("expected 2 files in %s", dir)
	}
}
