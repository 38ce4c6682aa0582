package rgbe

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Encode writes the image m to w in the Radiance RGBE format.
func Encode(w io.Writer, m *FloatImage) error {
	if m.Width <= 0 || m.Height <= 0 {
		return UnsupportedError("empty image")
	}
	if m.Channels != Gray && m.Channels != RGB {
		return UnsupportedError(fmt.Sprintf("%d channels", m.Channels))
	}
	if len(m.Pix) != m.Width*m.Height*int(m.Channels) {
		return FormatError("pixel buffer does not match the image dimensions")
	}
	return EncodePlane(w, planeFrom(m))
}

// EncodeBytes returns the Radiance RGBE encoding of m.
func EncodeBytes(m *FloatImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeFile writes the image m to a file created at path.
func EncodeFile(path string, m *FloatImage) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "could not close file")
		}
	}()

	return Encode(f, m)
}

// EncodePlane writes a raw RGBE plane to w.
// Scanlines are run-length encoded when the width allows it, otherwise
// they are written as flat RGBE quads.
func EncodePlane(w io.Writer, p *Plane) error {
	if p.width <= 0 || p.height <= 0 {
		return UnsupportedError("empty image")
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, p.width, p.height); err != nil {
		return err
	}

	var err error
	if p.width >= minRLEWidth && p.width <= maxRLEWidth {
		err = writeRLE(bw, p)
	} else {
		err = writeFlat(bw, p)
	}
	if err != nil {
		return err
	}

	return errors.Wrap(bw.Flush(), "could not flush data")
}

// writeRLE writes every scanline of p with the adaptive run-length encoding.
// Gray planes have their red runs repeated for the green and blue components.
func writeRLE(w io.Writer, p *Plane) error {
	marker := []byte{2, 2, byte(p.width >> 8), byte(p.width & 0xFF)}
	buf := make([]byte, 0, p.width*2)

	for y := 0; y < p.height; y++ {
		if _, err := w.Write(marker); err != nil {
			return errors.Wrap(err, "could not write scanline marker")
		}

		for c := cR; c <= cE; c++ {
			if p.channels == RGB || c == cR || c == cE {
				buf = appendRuns(buf[:0], p.component(y, c))
			}

			if _, err := w.Write(buf); err != nil {
				return errors.Wrap(err, "could not write scanline")
			}
		}
	}
	return nil
}

// writeFlat writes every pixel of p as an interleaved RGBE quad.
func writeFlat(w io.Writer, p *Plane) error {
	buf := make([]byte, p.width*rgbeLen)

	for y := 0; y < p.height; y++ {
		for c := cR; c <= cE; c++ {
			src := p.component(y, c)
			for x := range src {
				buf[x*rgbeLen+c] = src[x]
			}
		}

		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "could not write scanline")
		}
	}
	return nil
}
