package rgbe

import "image"

// A Plane holds the raw RGBE bytes of a whole image.
//
// Pixels are grouped by scanline and, inside a scanline, by component:
// all the R bytes of a row come first, then the G, B and E bytes.
// Gray planes only store the R and E components.
type Plane struct {
	width    int
	height   int
	channels Channels
	buf      []byte
}

// NewPlane returns an empty plane for width*height pixels.
func NewPlane(width, height int, c Channels) *Plane {
	if c != Gray {
		c = RGB
	}
	return &Plane{
		width:    width,
		height:   height,
		channels: c,
		buf:      make([]byte, width*height*c.bytesPerPixel()),
	}
}

// Width returns the number of pixels per scanline.
func (p *Plane) Width() int { return p.width }

// Height returns the number of scanlines.
func (p *Plane) Height() int { return p.height }

// Channels returns the channel mode of the plane.
func (p *Plane) Channels() Channels { return p.channels }

// Len returns the size of the plane in bytes.
func (p *Plane) Len() int { return len(p.buf) }

// InsertRE stores the gray intensity v at (x, y).
// Points outside the plane are ignored.
func (p *Plane) InsertRE(x, y int, v float32) {
	if !p.in(x, y) {
		return
	}
	re := FloatToRE(v)
	row := p.scanline(y)
	row[x] = re[0]
	row[p.width+x] = re[1]
}

// InsertRGBE stores the color triple at (x, y).
// On a gray plane only the red component is kept.
// Points outside the plane are ignored.
func (p *Plane) InsertRGBE(x, y int, r, g, b float32) {
	if !p.in(x, y) {
		return
	}
	if p.channels == Gray {
		p.InsertRE(x, y, r)
		return
	}
	q := FloatToRGBE(r, g, b)
	row := p.scanline(y)
	for c := cR; c <= cE; c++ {
		row[c*p.width+x] = q[c]
	}
}

func (p *Plane) in(x, y int) bool {
	return image.Pt(x, y).In(image.Rect(0, 0, p.width, p.height))
}

// scanline returns the bytes of the row y.
func (p *Plane) scanline(y int) []byte {
	n := p.width * p.channels.bytesPerPixel()
	return p.buf[y*n : (y+1)*n]
}

// component returns the c component of the row y.
// Gray planes map R, G and B onto their single mantissa.
func (p *Plane) component(y, c int) []byte {
	row := p.scanline(y)
	if p.channels == Gray {
		if c == cE {
			c = 1
		} else {
			c = 0
		}
	}
	return row[c*p.width : (c+1)*p.width]
}

// rgbe returns the quad of the pixel at (x, y).
func (p *Plane) rgbe(x, y int) [4]byte {
	return [4]byte{
		p.component(y, cR)[x],
		p.component(y, cG)[x],
		p.component(y, cB)[x],
		p.component(y, cE)[x],
	}
}

// planeFrom converts a FloatImage into its raw RGBE plane.
func planeFrom(m *FloatImage) *Plane {
	p := NewPlane(m.Width, m.Height, m.Channels)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Channels == Gray {
				p.InsertRE(x, y, m.At(x, y, 0))
				continue
			}
			r, g, b := m.RGBAt(x, y)
			p.InsertRGBE(x, y, r, g, b)
		}
	}
	return p
}
