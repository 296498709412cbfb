// Package icon draws the application icon: a rounded square with a vertical
// gradient, a screen outline, a play triangle and three signal waves.
// Every measurement is a ratio of the requested size, so one routine serves
// 16 px favicons and the 1024 px master alike.
package icon

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Palette holds the three brand colors of the icon.
type Palette struct {
	Top    color.NRGBA // gradient at row 0
	Bottom color.NRGBA // gradient approached at the last row
	Glyph  color.NRGBA // screen, play button and waves
}

// DefaultPalette is the blue→purple brand palette with a white glyph.
var DefaultPalette = Palette{
	Top:    color.NRGBA{R: 33, G: 150, B: 243, A: 255},
	Bottom: color.NRGBA{R: 156, G: 39, B: 176, A: 255},
	Glyph:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
}

// waveAlphas are the opacities of the inner, middle and outer signal arcs.
var waveAlphas = [3]int{180, 140, 100}

// Geometry holds the shape descriptors derived from one canvas size.
// All values use integer division of the size, as pixel offsets.
type Geometry struct {
	Size         int
	CornerRadius int

	// Screen outline, inclusive pixel bounds.
	ScreenMin    image.Point
	ScreenMax    image.Point
	ScreenRadius int
	ScreenStroke int

	// Play triangle vertices.
	Play [3]image.Point

	// Signal waves: arc i has radius WaveStep*(i+1) around WaveCenter.
	WaveCenter image.Point
	WaveStep   int
	WaveStroke int
}

// Layout computes the geometry for a size×size canvas.
func Layout(size int) Geometry {
	margin := size / 6
	g := Geometry{
		Size:         size,
		CornerRadius: size / 5,
		ScreenMin:    image.Pt(margin, margin+size/10),
		ScreenMax:    image.Pt(size-margin, size-margin-size/10),
		ScreenRadius: size / 15,
		ScreenStroke: atLeastOne(size / 20),
		WaveCenter:   image.Pt(size-margin-size/8, margin+size/8),
		WaveStep:     size / 10,
		WaveStroke:   atLeastOne(size / 40),
	}

	ps := size / 3
	cx, cy := size/2, size/2
	g.Play = [3]image.Point{
		image.Pt(cx-ps/3, cy-ps/2),
		image.Pt(cx-ps/3, cy+ps/2),
		image.Pt(cx+ps/2, cy),
	}
	return g
}

// Strokes thinner than a pixel vanish at favicon sizes.
func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Draw renders the icon at size×size with the default palette.
func Draw(size int) *image.RGBA {
	return Render(size, DefaultPalette)
}

// Render draws the icon onto a new, fully transparent size×size canvas.
// It panics if size is not positive.
func Render(size int, pal Palette) *image.RGBA {
	if size <= 0 {
		panic("icon: size must be positive")
	}
	g := Layout(size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	dc := gg.NewContextForRGBA(img)

	// Everything below is clipped to the rounded square, so pixels outside
	// the corners keep alpha 0.
	if err := dc.SetMask(roundedMask(g)); err != nil {
		panic(err)
	}

	dc.SetFillStyle(rowGradient{top: pal.Top, bottom: pal.Bottom, size: size})
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	drawScreen(dc, g, pal.Glyph)
	drawPlay(dc, g, pal.Glyph)
	drawWaves(dc, g, pal.Glyph)
	return img
}

func roundedMask(g Geometry) *image.Alpha {
	s := float64(g.Size)
	mc := gg.NewContext(g.Size, g.Size)
	mc.DrawRoundedRectangle(0, 0, s, s, float64(g.CornerRadius))
	mc.SetRGBA255(0, 0, 0, 255)
	mc.Fill()
	return mc.AsMask()
}

// drawScreen strokes the rounded screen frame. The stroke lies inside the
// frame bounds.
func drawScreen(dc *gg.Context, g Geometry, c color.NRGBA) {
	w := float64(g.ScreenStroke)
	x0 := float64(g.ScreenMin.X) + w/2
	y0 := float64(g.ScreenMin.Y) + w/2
	x1 := float64(g.ScreenMax.X+1) - w/2
	y1 := float64(g.ScreenMax.Y+1) - w/2
	r := float64(g.ScreenRadius) - w/2
	if r < 0 {
		r = 0
	}
	dc.DrawRoundedRectangle(x0, y0, x1-x0, y1-y0, r)
	dc.SetColor(c)
	dc.SetLineWidth(w)
	dc.Stroke()
}

func drawPlay(dc *gg.Context, g Geometry, c color.NRGBA) {
	dc.NewSubPath()
	for i, p := range g.Play {
		if i == 0 {
			dc.MoveTo(float64(p.X), float64(p.Y))
		} else {
			dc.LineTo(float64(p.X), float64(p.Y))
		}
	}
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()
}

// drawWaves strokes three quarter arcs opening toward the lower left, from
// 180° to 270° (clockwise, y down). Each arc is fainter than the last.
func drawWaves(dc *gg.Context, g Geometry, c color.NRGBA) {
	w := float64(g.WaveStroke)
	cx, cy := float64(g.WaveCenter.X), float64(g.WaveCenter.Y)
	dc.SetLineWidth(w)
	for i, alpha := range waveAlphas {
		r := float64(g.WaveStep*(i+1)) - w/2
		if r <= 0 {
			continue
		}
		wc := c
		wc.A = uint8(int(c.A) * alpha / 255)
		dc.NewSubPath()
		dc.DrawArc(cx, cy, r, gg.Radians(180), gg.Radians(270))
		dc.SetColor(wc)
		dc.Stroke()
	}
}

// rowGradient is a gg.Pattern that interpolates linearly from top to bottom
// by row: the color of row y uses ratio y/size, truncated per channel.
type rowGradient struct {
	top, bottom color.NRGBA
	size        int
}

func (p rowGradient) ColorAt(x, y int) color.Color {
	return GradientAt(p.top, p.bottom, y, p.size)
}

// GradientAt returns the gradient color of row y on a canvas of the given size.
func GradientAt(top, bottom color.NRGBA, y, size int) color.NRGBA {
	ratio := float64(y) / float64(size)
	mix := func(a, b uint8) uint8 {
		if a == b {
			return a
		}
		return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
	}
	return color.NRGBA{
		R: mix(top.R, bottom.R),
		G: mix(top.G, bottom.G),
		B: mix(top.B, bottom.B),
		A: mix(top.A, bottom.A),
	}
}
