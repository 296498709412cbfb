// Package convert turns a single raster image into the multi-resolution
// ICO file the Windows installer expects.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/Mavwarf/appicon/internal/ico"
	"github.com/Mavwarf/appicon/internal/paths"
)

const (
	// SourcePath is where mkicon's master icon is expected to be placed.
	SourcePath = "assets/images/app_icon.png"
	// OutputPath is where the installer looks for the icon.
	OutputPath = "assets/images/app_icon.ico"
)

// DefaultSizes are the resolutions Windows installers typically use.
var DefaultSizes = []image.Point{{16, 16}, {32, 32}, {48, 48}, {256, 256}}

var (
	// ErrSourceMissing means the source image does not exist.
	ErrSourceMissing = errors.New("source image not found")
	// ErrUnsupportedFormat means no decoder is registered for the source.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// StepKind identifies a progress event reported by Convert.
type StepKind int

const (
	StepLoaded StepKind = iota
	StepCreated
)

// Step is a progress event.
type Step struct {
	Kind   StepKind
	Path   string
	Format string          // decoder name, StepLoaded only
	Bounds image.Rectangle // source bounds, StepLoaded only
	Sizes  []image.Point   // embedded sizes, StepCreated only
	Bytes  int             // output length, StepCreated only
}

// SizesFromInts turns square edge lengths into width×height pairs.
func SizesFromInts(edges []int) []image.Point {
	pts := make([]image.Point, len(edges))
	for i, e := range edges {
		pts[i] = image.Pt(e, e)
	}
	return pts
}

// Convert loads src and writes dst as an ICO container holding one
// downsampled copy of the source per entry in sizes. A missing source
// fails before anything is written. report, if non-nil, receives progress
// events.
func Convert(src, dst string, sizes []image.Point, report func(Step)) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return err
	}

	img, format, err := load(src)
	if err != nil {
		return err
	}
	if report != nil {
		report(Step{Kind: StepLoaded, Path: src, Format: format, Bounds: img.Bounds()})
	}

	images := make([]image.Image, len(sizes))
	for i, sz := range sizes {
		images[i] = Resize(img, sz)
	}

	var buf bytes.Buffer
	if err := ico.Encode(&buf, images); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), paths.DirPerm); err != nil {
		return err
	}
	if err := paths.AtomicWrite(dst, buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if report != nil {
		report(Step{Kind: StepCreated, Path: dst, Sizes: sizes, Bytes: buf.Len()})
	}
	return nil
}

func load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}

// Resize scales src to exactly size using Catmull-Rom resampling.
func Resize(src image.Image, size image.Point) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Src, nil)
	return dst
}
