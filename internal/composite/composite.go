// Package composite layers a generated pattern over a background image.
package composite

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/mrsinham/camoforge/internal/colorutil"
)

// Composite blends pattern over background at the given global alpha.
//
// Without a background the pattern itself is returned. With a background
// and showOverlay false, only the cover-fitted background is returned.
// Otherwise the background is cover-fitted to the pattern size and the
// pattern drawn over it source-over at alpha, clamped to [0, 1].
func Composite(background image.Image, pattern *image.RGBA, alpha float64, showOverlay bool) *image.RGBA {
	if background == nil {
		return pattern
	}
	b := pattern.Bounds()
	dst := Cover(background, b.Dx(), b.Dy())
	if !showOverlay {
		return dst
	}

	if math.IsNaN(alpha) {
		alpha = 0
	}
	alpha = colorutil.Clamp(alpha, 0, 1)
	if alpha == 0 {
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		d := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		s := pattern.Pix[pattern.PixOffset(b.Min.X, b.Min.Y+y):pattern.PixOffset(b.Max.X, b.Min.Y+y)]
		for i := range d {
			// Both buffers are premultiplied, so every channel blends alike.
			d[i] = colorutil.ClampByte(float64(s[i])*alpha + float64(d[i])*(1-alpha))
		}
	}
	return dst
}

// Environment returns the background alone, cover-fitted to w x h, or an
// opaque black buffer when there is no background.
func Environment(background image.Image, w, h int) *image.RGBA {
	if background != nil {
		return Cover(background, w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return dst
}

// Cover scales img to fill w x h while preserving its aspect ratio,
// cropping the excess of the longer relative axis symmetrically.
func Cover(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := CoverRect(img.Bounds(), w, h)
	if src.Empty() {
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// CoverRect returns the centered sub-rectangle of bounds whose aspect ratio
// matches w x h.
func CoverRect(bounds image.Rectangle, w, h int) image.Rectangle {
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	ir := iw / ih
	cr := float64(w) / float64(h)

	sx, sy, sw, sh := 0.0, 0.0, iw, ih
	if ir > cr {
		sw = ih * cr
		sx = (iw - sw) / 2
	} else {
		sh = iw / cr
		sy = (ih - sh) / 2
	}

	x0 := bounds.Min.X + int(math.Round(sx))
	y0 := bounds.Min.Y + int(math.Round(sy))
	return image.Rect(x0, y0, x0+max(1, int(math.Round(sw))), y0+max(1, int(math.Round(sh)))).Intersect(bounds)
}
