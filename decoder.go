package rgbe

import (
	"bufio"
	"image"
	"io"

	"github.com/mdouchement/hdr/hdrcolor"
)

type decoder struct {
	br     *bufio.Reader
	config image.Config
	plane  *Plane
}

func newDecoder(r io.Reader) (*decoder, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	width, height, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		br: br,
	}
	d.config.Width = width
	d.config.Height = height
	d.config.ColorModel = hdrcolor.RGBModel

	return d, nil
}

// rle reports whether scanlines may be run-length encoded.
func (d *decoder) rle() bool {
	return d.config.Width >= minRLEWidth && d.config.Width <= maxRLEWidth
}

// decompress reads all the scanlines into the decoder's plane.
// The plane grows one scanline at a time.
func (d *decoder) decompress() error {
	d.plane = &Plane{
		width:    d.config.Width,
		height:   d.config.Height,
		channels: RGB,
	}
	n := d.config.Width * rgbeLen
	for y := 0; y < d.config.Height; y++ {
		d.plane.buf = append(d.plane.buf, make([]byte, n)...)
		if err := d.readScanline(y); err != nil {
			return err
		}
	}
	return nil
}

// readScanline decodes the scanline y, either run-length encoded or flat.
func (d *decoder) readScanline(y int) error {
	if d.rle() {
		marker, err := d.br.Peek(4)
		if err != nil {
			return readErr(err, "scanline marker")
		}

		if marker[0] == 2 && marker[1] == 2 && int(marker[2])<<8|int(marker[3]) == d.config.Width {
			d.br.Discard(4)
			for c := cR; c <= cE; c++ {
				if err := readRLEPlane(d.br, d.plane.component(y, c)); err != nil {
					return err
				}
			}
			return nil
		}
	}

	return d.readFlat(y)
}

// readFlat reads the scanline y stored as interleaved RGBE quads and
// spreads it into its components.
func (d *decoder) readFlat(y int) error {
	buf := make([]byte, d.config.Width*rgbeLen)
	if _, err := io.ReadFull(d.br, buf); err != nil {
		return readErr(err, "flat scanline")
	}

	for c := cR; c <= cE; c++ {
		dst := d.plane.component(y, c)
		for x := range dst {
			dst[x] = buf[x*rgbeLen+c]
		}
	}
	return nil
}
