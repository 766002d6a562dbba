package pattern

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/noise"
)

const (
	panelPadding = 60.0
	panelRadius  = 6.0
	panelVents   = 6
	screwRadius  = 4.0
)

var defaultScrewColor = colorutil.HexToRGB("#0b0b0b")

// PanelsGenerator renders a grid of rounded hardware panels with vent slits
// and corner screws.
type PanelsGenerator struct{}

// Style returns the family rendered by this generator.
func (g *PanelsGenerator) Style() Style { return Panels }

type panel struct {
	col        int
	x, y, w, h float64
}

// Generate renders the panel grid.
func (g *PanelsGenerator) Generate(f noise.Field, p Params) *image.RGBA {
	p = p.Normalize()
	bg := uint8(colorutil.ClampInt(15+int(math.Round(20*p.Brightness)), 0, 50))
	panels := layoutPanels(f, p)

	panelColor, screwColor := p.Palette[0], defaultScrewColor
	if len(p.Palette) > 1 {
		screwColor = p.Palette[1]
	}

	// Opaque shapes go through gg's anti-aliased rasterizer; translucent
	// vents and scratches are blended on the canvas.
	dc := gg.NewContext(p.Width, p.Height)
	dc.ClearWithColor(toGG(colorutil.Gray(bg)))
	dc.SetColor(panelColor.RGBA())
	for _, pn := range panels {
		x, y, w, h := normRect(pn.x+5, pn.y+5, pn.w, pn.h)
		dc.DrawRoundedRectangle(x, y, w, h, math.Min(panelRadius, math.Min(w, h)/2))
	}
	c := rasterize(dc, p.Width, p.Height)

	ventAlpha := 0.45 + 0.1*p.Contrast
	for _, pn := range panels {
		col := float64(pn.col)
		for v := 0; v < panelVents; v++ {
			fv := float64(v)
			vx := pn.x + 8 + fv*(pn.w/panelVents) + f.Noise2(fv+p.Seed, col+p.Seed+100)*4
			c.fillRect(vx, pn.y+pn.h/2-3, pn.w/panelVents-6, 6, black, ventAlpha, sourceOver)
		}
	}

	dc = gg.NewContextForImage(c.img)
	dc.SetColor(screwColor.RGBA())
	for _, pn := range panels {
		dc.DrawCircle(pn.x+12, pn.y+12, screwRadius)
		dc.DrawCircle(pn.x+pn.w-8, pn.y+pn.h-8, screwRadius)
	}
	c = rasterize(dc, p.Width, p.Height)

	c.grain(p.grainRand(grainSaltPanels), int(math.Round(600*p.Contrast)))
	return c.opaque()
}

func panelColumns(scale float64) int {
	return colorutil.ClampInt(int(math.Floor(20-scale/20)), 4, 15)
}

func panelRows(scale float64) int {
	return colorutil.ClampInt(int(math.Floor(12-scale/40)), 2, 9)
}

// layoutPanels returns the jittered cells in row-major order.
func layoutPanels(f noise.Field, p Params) []panel {
	cols, rows := panelColumns(p.Scale), panelRows(p.Scale)
	cellW := (float64(p.Width) - panelPadding*2) / float64(cols)
	cellH := (float64(p.Height) - panelPadding*2) / float64(rows)

	panels := make([]panel, 0, cols*rows)
	for r := 0; r < rows; r++ {
		fr := float64(r)
		for c := 0; c < cols; c++ {
			fc := float64(c)
			jitter := f.Noise2((fc+p.Seed)*0.8, (fr+p.Seed+100)*0.8) * 8
			panels = append(panels, panel{
				col: c,
				x:   panelPadding + fc*cellW,
				y:   panelPadding + fr*cellH,
				w:   cellW - 10 + jitter,
				h:   cellH - 10 + jitter,
			})
		}
	}
	return panels
}

// rasterize fills the current path of dc and hands the pixels over to a
// canvas, closing the context. If gg fails, the canvas keeps whatever dc
// had drawn before the failing fill.
func rasterize(dc *gg.Context, w, h int) *canvas {
	_ = dc.Fill()
	img := dc.Image()
	_ = dc.Close()

	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return wrapCanvas(rgba)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return wrapCanvas(dst)
}

// normRect flips negative extents so the rectangle has a positive size.
func normRect(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return x, y, w, h
}
