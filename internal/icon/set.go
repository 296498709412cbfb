package icon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"

	"github.com/Mavwarf/appicon/internal/paths"
)

// MasterSize is the resolution of the canonical source asset.
const MasterSize = 1024

// MasterFileName is the name of the master icon; it carries no size suffix.
const MasterFileName = "app_icon.png"

// Sizes lists the resolutions written by GenerateSet by default.
var Sizes = []int{16, 32, 48, 64, 128, 256, 512, 1024}

// Asset describes one icon file written to disk.
type Asset struct {
	Name   string // base file name
	Path   string // full path as written
	Size   int    // width and height in pixels
	Master bool
	Bytes  int
	SHA256 string // hex digest of the file content
}

// FileName returns the conventional name for a sized icon, app_icon_<size>.png.
func FileName(size int) string {
	return fmt.Sprintf("app_icon_%d.png", size)
}

// EncodePNG writes img as PNG. The encoder settings are fixed, so equal
// images always produce equal bytes.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

// GenerateSet renders one icon per entry in sizes into dir, then the master
// at masterSize as app_icon.png. report, if non-nil, is called after each
// file is written. The first error aborts the run; files written before it
// are left in place.
func GenerateSet(dir string, sizes []int, masterSize int, pal Palette, report func(Asset)) ([]Asset, error) {
	assets := make([]Asset, 0, len(sizes)+1)
	for _, size := range sizes {
		a, err := writeIcon(dir, FileName(size), size, pal)
		if err != nil {
			return assets, err
		}
		assets = append(assets, a)
		if report != nil {
			report(a)
		}
	}

	a, err := writeIcon(dir, MasterFileName, masterSize, pal)
	if err != nil {
		return assets, err
	}
	a.Master = true
	assets = append(assets, a)
	if report != nil {
		report(a)
	}
	return assets, nil
}

func writeIcon(dir, name string, size int, pal Palette) (Asset, error) {
	if size <= 0 {
		return Asset{}, fmt.Errorf("%s: invalid size %d", name, size)
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, Render(size, pal)); err != nil {
		return Asset{}, fmt.Errorf("encoding %s: %w", name, err)
	}
	p := filepath.Join(dir, name)
	if err := paths.AtomicWrite(p, buf.Bytes()); err != nil {
		return Asset{}, fmt.Errorf("writing %s: %w", name, err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return Asset{
		Name:   name,
		Path:   p,
		Size:   size,
		Bytes:  buf.Len(),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}
