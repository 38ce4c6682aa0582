package rgbe

// decodeRGB converts the decoded plane into an RGB image.
func (d *decoder) decodeRGB() *FloatImage {
	m := NewFloatImage(d.config.Width, d.config.Height, RGB)

	var offset int
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := RGBEToFloat(d.plane.rgbe(x, y))
			m.Pix[offset] = r
			m.Pix[offset+1] = g
			m.Pix[offset+2] = b
			offset += 3 // RGB is hold on 3 samples
		}
	}

	return m
}
