package rgbe

import (
	"image"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
)

// Channels is the number of float samples held per pixel.
type Channels int

const (
	// Gray images hold one intensity per pixel.
	Gray Channels = 1
	// RGB images hold a red, green and blue triple per pixel.
	RGB Channels = 3
)

func (c Channels) String() string {
	switch c {
	case Gray:
		return "gray"
	case RGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// bytesPerPixel returns the number of plane bytes used per pixel.
func (c Channels) bytesPerPixel() int {
	if c == Gray {
		return reLen
	}
	return rgbeLen
}

// A FloatImage is a linear floating-point raster.
// Samples are stored row by row, (y, x, channel).
type FloatImage struct {
	Width    int
	Height   int
	Channels Channels
	// Pix holds Width*Height*Channels samples.
	// The sample (x, y, c) starts at Pix[(y*Width+x)*Channels+c].
	Pix []float32
}

// NewFloatImage returns a new black image with the given dimensions.
func NewFloatImage(width, height int, c Channels) *FloatImage {
	if c != Gray {
		c = RGB
	}
	return &FloatImage{
		Width:    width,
		Height:   height,
		Channels: c,
		Pix:      make([]float32, width*height*int(c)),
	}
}

// Bounds returns the domain of the image.
func (m *FloatImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// PixOffset returns the index of the first sample of the pixel at (x, y).
func (m *FloatImage) PixOffset(x, y int) int {
	return (y*m.Width + x) * int(m.Channels)
}

// At returns the sample c of the pixel at (x, y).
// All channels of a gray image return the same intensity.
func (m *FloatImage) At(x, y, c int) float32 {
	if m.Channels == Gray {
		c = 0
	}
	return m.Pix[m.PixOffset(x, y)+c]
}

// Set sets the sample c of the pixel at (x, y).
func (m *FloatImage) Set(x, y, c int, v float32) {
	if m.Channels == Gray {
		c = 0
	}
	m.Pix[m.PixOffset(x, y)+c] = v
}

// RGBAt returns the color triple of the pixel at (x, y).
func (m *FloatImage) RGBAt(x, y int) (r, g, b float32) {
	i := m.PixOffset(x, y)
	if m.Channels == Gray {
		return m.Pix[i], m.Pix[i], m.Pix[i]
	}
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB sets the color triple of the pixel at (x, y).
// A gray image only keeps the red component.
func (m *FloatImage) SetRGB(x, y int, r, g, b float32) {
	i := m.PixOffset(x, y)
	m.Pix[i] = r
	if m.Channels == RGB {
		m.Pix[i+1] = g
		m.Pix[i+2] = b
	}
}

// ToHDR converts the image into an hdr.RGB.
// Gray intensities are copied in the three channels.
func (m *FloatImage) ToHDR() *hdr.RGB {
	dst := hdr.NewRGB(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := m.RGBAt(x, y)
			dst.SetRGB(x, y, hdrcolor.RGB{R: float64(r), G: float64(g), B: float64(b)})
		}
	}
	return dst
}

// FromHDR converts an HDR image into a FloatImage with c channels.
// Gray images keep the red component, no luminance is computed.
func FromHDR(src hdr.Image, c Channels) *FloatImage {
	b := src.Bounds()
	m := NewFloatImage(b.Dx(), b.Dy(), c)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, bl, _ := src.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			m.SetRGB(x, y, float32(r), float32(g), float32(bl))
		}
	}
	return m
}

// FromImage converts any image into a FloatImage with c channels.
// LDR images are normalized in the [0, 1] range.
func FromImage(src image.Image, c Channels) *FloatImage {
	if hm, ok := src.(hdr.Image); ok {
		return FromHDR(hm, c)
	}

	b := src.Bounds()
	m := NewFloatImage(b.Dx(), b.Dy(), c)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.SetRGB(x, y, float32(r)/0xffff, float32(g)/0xffff, float32(bl)/0xffff)
		}
	}
	return m
}
