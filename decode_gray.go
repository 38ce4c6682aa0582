package rgbe

// decodeGray converts the decoded plane into a gray image.
// The intensity is read from the red mantissa, the green and blue ones are
// dropped.
func (d *decoder) decodeGray() *FloatImage {
	m := NewFloatImage(d.config.Width, d.config.Height, Gray)

	var offset int
	for y := 0; y < m.Height; y++ {
		red := d.plane.component(y, cR)
		exp := d.plane.component(y, cE)
		for x := 0; x < m.Width; x++ {
			m.Pix[offset] = REToFloat([2]byte{red[x], exp[x]})
			offset++
		}
	}

	return m
}
