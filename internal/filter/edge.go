package filter

import (
	"image"
	"math"

	"github.com/mrsinham/camoforge/internal/colorutil"
)

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// EdgeDetect replaces img with its Sobel gradient magnitude, written as
// gray with alpha 255. The one-pixel border has no full neighborhood and is
// cleared to transparent black. Color information is lost, so this must run
// after ColorVision.
func EdgeDetect(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			gray[y*w+x] = colorutil.Luma(float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2]))
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			p := img.Pix[i : i+4 : i+4]
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				p[0], p[1], p[2], p[3] = 0, 0, 0, 0
				continue
			}

			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := gray[(y+ky)*w+x+kx]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}

			mag := uint8(math.RoundToEven(math.Min(255, math.Sqrt(gx*gx+gy*gy))))
			p[0], p[1], p[2], p[3] = mag, mag, mag, 255
		}
	}
	return img
}
