package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Stamp draws text in white with a black outline, centered horizontally
// near the top of img. Text that does not fit is clipped.
func Stamp(img *image.RGBA, text string) {
	if img == nil || text == "" {
		return
	}
	b := img.Bounds()
	face := basicfont.Face7x13

	// Calculate text position: centered horizontally, near top (5% from top)
	paddingTop := int(float64(b.Dy()) * 0.05)
	textWidth := font.MeasureString(face, text).Ceil()
	x := b.Min.X + (b.Dx()-textWidth)/2
	y := b.Min.Y + paddingTop + face.Metrics().Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	const outlineThickness = 2
	for dx := -outlineThickness; dx <= outlineThickness; dx++ {
		for dy := -outlineThickness; dy <= outlineThickness; dy++ {
			if dx != 0 || dy != 0 {
				drawer.Dot = fixed.P(x+dx, y+dy)
				drawer.DrawString(text)
			}
		}
	}

	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
}
