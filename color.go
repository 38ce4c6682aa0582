package rgbe

import "math"

// FloatToRGBE packs a linear RGB triple into a shared exponent RGBE quad.
// The exponent is biased by 128 and the mantissas are scaled so that the
// greatest channel lands in [128, 256).
//
// Channels below 1e-32 give a black pixel. Negative channels are clamped
// to a zero mantissa, NaN and infinite values never make the conversion fail.
func FloatToRGBE(r, g, b float32) (p [4]byte) {
	v := maxFloat32(r, g, b)
	if !(v >= minValue) { // Also catches NaN.
		return
	}

	m, e := math.Frexp(float64(v))
	scale := m * 256 / float64(v)

	p[cR] = mantissa(float64(r) * scale)
	p[cG] = mantissa(float64(g) * scale)
	p[cB] = mantissa(float64(b) * scale)
	p[cE] = byte(e + 128)
	return
}

// RGBEToFloat unpacks an RGBE quad into a linear RGB triple.
func RGBEToFloat(p [4]byte) (r, g, b float32) {
	if p[cE] == 0 {
		return
	}

	f := math.Ldexp(1, int(p[cE])-(128+8))
	r = float32(float64(p[cR]) * f)
	g = float32(float64(p[cG]) * f)
	b = float32(float64(p[cB]) * f)
	return
}

// FloatToRE packs a single intensity into its mantissa and exponent bytes,
// as FloatToRGBE would do for a gray pixel (R = G = B).
func FloatToRE(v float32) [2]byte {
	p := FloatToRGBE(v, v, v)
	return [2]byte{p[cR], p[cE]}
}

// REToFloat unpacks a mantissa and exponent pair.
func REToFloat(p [2]byte) float32 {
	v, _, _ := RGBEToFloat([4]byte{p[0], 0, 0, p[1]})
	return v
}

// mantissa truncates a scaled channel into a byte.
// Float to integer conversions of out of range values are implementation
// dependent in Go, so the range is checked first.
func mantissa(f float64) byte {
	switch {
	case !(f > 0):
		return 0
	case f >= 255:
		return 255
	default:
		return byte(f)
	}
}
