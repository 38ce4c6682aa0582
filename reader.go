package rgbe

import (
	"bytes"
	"image"
	"io"
	"os"

	"github.com/pkg/errors"
)

// DecodeConfig returns the color model and dimensions of a Radiance picture
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d, err := newDecoder(r)
	if err != nil {
		return image.Config{}, err
	}
	return d.config, nil
}

// DecodeFloat reads a Radiance picture from r.
// When rgb is false, only the red mantissa of each pixel is kept, without
// any luminance computation.
func DecodeFloat(r io.Reader, rgb bool) (*FloatImage, error) {
	d, err := newDecoder(r)
	if err != nil {
		return nil, err
	}

	if err = d.decompress(); err != nil {
		return nil, err
	}

	if rgb {
		return d.decodeRGB(), nil
	}
	return d.decodeGray(), nil
}

// DecodeBytes decodes a Radiance picture held in memory.
func DecodeBytes(b []byte, rgb bool) (*FloatImage, error) {
	return DecodeFloat(bytes.NewReader(b), rgb)
}

// DecodeFile decodes the Radiance picture stored at path.
func DecodeFile(path string, rgb bool) (*FloatImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open image")
	}
	defer f.Close()

	return DecodeFloat(f, rgb)
}

// Decode reads a Radiance picture from r and returns it as an *hdr.RGB.
func Decode(r io.Reader) (image.Image, error) {
	m, err := DecodeFloat(r, true)
	if err != nil {
		return nil, err
	}
	return m.ToHDR(), nil
}

func init() {
	image.RegisterFormat("rgbe", magic, Decode, DecodeConfig)
	image.RegisterFormat("rgbe", magicRadiance, Decode, DecodeConfig)
}
