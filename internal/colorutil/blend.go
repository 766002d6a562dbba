package colorutil

// Over composites src at opacity alpha over an opaque dst (source-over).
func Over(dst, src RGB, alpha float64) RGB {
	a := Clamp(alpha, 0, 1)
	return RGB{
		R: mix(dst.R, float64(src.R), a),
		G: mix(dst.G, float64(src.G), a),
		B: mix(dst.B, float64(src.B), a),
	}
}

// Overlay applies the overlay blend mode of src onto an opaque dst, then
// mixes the blended result with dst at opacity alpha.
func Overlay(dst, src RGB, alpha float64) RGB {
	a := Clamp(alpha, 0, 1)
	return RGB{
		R: mix(dst.R, overlayChannel(dst.R, src.R), a),
		G: mix(dst.G, overlayChannel(dst.G, src.G), a),
		B: mix(dst.B, overlayChannel(dst.B, src.B), a),
	}
}

// overlayChannel multiplies dark backdrops and screens light ones.
func overlayChannel(d, s uint8) float64 {
	df, sf := float64(d), float64(s)
	if d < 128 {
		return 2 * df * sf / 255
	}
	return 255 - 2*(255-df)*(255-sf)/255
}

func mix(d uint8, s, a float64) uint8 {
	df := float64(d)
	return ClampByte(df + (s-df)*a)
}
