package rgbe

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/mdouchement/hdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// gradient returns an image filled with a smooth HDR gradient and a few
// flat areas so that both run kinds are used.
func gradient(width, height int, c Channels) *FloatImage {
	m := NewFloatImage(width, height, c)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/4 {
				m.SetRGB(x, y, 1, 0.5, 0.25)
				continue
			}
			m.SetRGB(x, y,
				float32(x)/float32(width)*10,
				float32(y+1)/float32(height),
				float32((x*y)%17)*0.01,
			)
		}
	}
	return m
}

func headerLen(width, height int) int {
	return len(fmt.Sprintf("%s\n%s\n\n-Y %d +X %d\n", magic, formatLine, height, width))
}

func assertClose(t *testing.T, want, got *FloatImage) {
	t.Helper()
	require.Equal(t, want.Width, got.Width)
	require.Equal(t, want.Height, got.Height)

	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			r, g, b := want.RGBAt(x, y)
			delta := float64(maxFloat32(r, g, b))/128 + 1e-30
			for c := 0; c < int(got.Channels); c++ {
				if !assert.InDelta(t, want.At(x, y, c), got.At(x, y, c), delta, "pixel (%d, %d, %d)", x, y, c) {
					return // Stop on first error to avoid spam
				}
			}
		}
	}
}

func TestRoundTripRGB(t *testing.T) {
	for _, width := range []int{1, 7, 8, 64, 300} {
		m := gradient(width, 5, RGB)

		data, err := EncodeBytes(m)
		require.NoError(t, err)

		got, err := DecodeBytes(data, true)
		require.NoError(t, err)
		assert.Equal(t, RGB, got.Channels)
		assertClose(t, m, got)
	}
}

func TestRoundTripGray(t *testing.T) {
	for _, width := range []int{3, 8, 129} {
		m := gradient(width, 4, Gray)

		data, err := EncodeBytes(m)
		require.NoError(t, err)

		got, err := DecodeBytes(data, false)
		require.NoError(t, err)
		assert.Equal(t, Gray, got.Channels)
		assertClose(t, m, got)
	}
}

func TestRoundTripZeros(t *testing.T) {
	m := NewFloatImage(16, 2, RGB)
	m.SetRGB(3, 1, 0, 2, 0)

	data, err := EncodeBytes(m)
	require.NoError(t, err)
	got, err := DecodeBytes(data, true)
	require.NoError(t, err)

	for i, v := range m.Pix {
		if v == 0 {
			assert.Equal(t, float32(0), got.Pix[i], "sample %d", i)
		}
	}
}

func TestStrategySelection(t *testing.T) {
	tests := []struct {
		width int
		rle   bool
	}{
		{7, false},
		{8, true},
		{32767, true},
		{32768, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.width), func(t *testing.T) {
			m := NewFloatImage(tt.width, 2, RGB)
			for i := range m.Pix {
				m.Pix[i] = 1
			}

			data, err := EncodeBytes(m)
			require.NoError(t, err)

			body := data[headerLen(tt.width, 2):]
			marker := []byte{2, 2, byte(tt.width >> 8), byte(tt.width)}
			if tt.rle {
				assert.Equal(t, marker, body[:4])
				// Every plane is a single repeat or a few of them, much smaller than flat data.
				assert.Less(t, len(body), tt.width*2*rgbeLen)
			} else {
				assert.NotEqual(t, marker, body[:4])
				assert.Len(t, body, tt.width*2*rgbeLen)
				assert.Equal(t, []byte{128, 128, 128, 129}, body[:4])
			}

			got, err := DecodeBytes(data, true)
			require.NoError(t, err)
			assertClose(t, m, got)
		})
	}
}

func TestDecodeFlatAndRLE(t *testing.T) {
	const width = 8
	header := fmt.Sprintf("%s\n%s\n\n-Y 1 +X %d\n", magic, formatLine, width)

	flat := []byte(header)
	for x := 0; x < width; x++ {
		flat = append(flat, byte(10+x), 20, 30, 130)
	}

	rle := []byte(header)
	rle = append(rle, 2, 2, 0, width)
	rle = append(rle, width, 10, 11, 12, 13, 14, 15, 16, 17) // R: dump
	rle = append(rle, 128+width, 20)                         // G: repeat
	rle = append(rle, 128+width, 30)                         // B: repeat
	rle = append(rle, 128+width, 130)                        // E: repeat

	fromFlat, err := DecodeBytes(flat, true)
	require.NoError(t, err)
	fromRLE, err := DecodeBytes(rle, true)
	require.NoError(t, err)

	assert.Equal(t, fromFlat, fromRLE)
	r, g, b := fromRLE.RGBAt(7, 0)
	assert.Equal(t, float32(17)/64, r)
	assert.Equal(t, float32(20)/64, g)
	assert.Equal(t, float32(30)/64, b)
}

func TestDecodeMixedScanlines(t *testing.T) {
	m := gradient(16, 3, RGB)
	p := planeFrom(m)

	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, 16, 3))
	for y := 0; y < 3; y++ {
		if y == 1 {
			// A flat scanline between two RLE ones.
			for x := 0; x < 16; x++ {
				q := p.rgbe(x, y)
				buf.Write(q[:])
			}
			continue
		}
		buf.Write([]byte{2, 2, 0, 16})
		for c := cR; c <= cE; c++ {
			buf.Write(appendRuns(nil, p.component(y, c)))
		}
	}

	got, err := DecodeFloat(&buf, true)
	require.NoError(t, err)
	assertClose(t, m, got)
}

func TestGrayTriplication(t *testing.T) {
	m := gradient(32, 3, Gray)

	data, err := EncodeBytes(m)
	require.NoError(t, err)

	// The red runs are written three times before the exponent runs.
	body := data[headerLen(32, 3):]
	require.Equal(t, []byte{2, 2, 0, 32}, body[:4])
	p := planeFrom(m)
	runs := appendRuns(nil, p.component(0, cR))
	assert.Equal(t, bytes.Repeat(runs, 3), body[4:4+3*len(runs)])

	rgb, err := DecodeBytes(data, true)
	require.NoError(t, err)
	gray, err := DecodeBytes(data, false)
	require.NoError(t, err)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := rgb.RGBAt(x, y)
			assert.Equal(t, r, g)
			assert.Equal(t, r, b)
			assert.Equal(t, r, gray.At(x, y, 0))
		}
	}
}

func TestGrayFlat(t *testing.T) {
	m := NewFloatImage(2, 1, Gray)
	m.Pix[0] = 1
	m.Pix[1] = 0.5

	data, err := EncodeBytes(m)
	require.NoError(t, err)

	assert.Equal(t, []byte{128, 128, 128, 129, 128, 128, 128, 128}, data[headerLen(2, 1):])
}

func TestDecodeRGBAsGray(t *testing.T) {
	m := NewFloatImage(8, 1, RGB)
	for x := 0; x < 8; x++ {
		m.SetRGB(x, 0, 0.5, 1, 0.25)
	}

	data, err := EncodeBytes(m)
	require.NoError(t, err)

	got, err := DecodeBytes(data, false)
	require.NoError(t, err)
	// Red channel only, no luminance.
	for x := 0; x < 8; x++ {
		assert.Equal(t, float32(0.5), got.At(x, 0, 0))
	}
}

func TestDecodeTruncated(t *testing.T) {
	for _, width := range []int{4, 16} {
		data, err := EncodeBytes(gradient(width, 4, RGB))
		require.NoError(t, err)

		for _, cut := range []int{1, 5, len(data) - headerLen(width, 4)} {
			_, err = DecodeBytes(data[:len(data)-cut], true)

			var terr TruncatedError
			assert.True(t, errors.As(err, &terr), "width=%d cut=%d: %v", width, cut, err)
		}
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	_, err := DecodeBytes([]byte("#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2 +X 10\n"), true)

	var terr TruncatedError
	assert.True(t, errors.As(err, &terr), "got %v", err)
}

func TestDecodeHugeDimensions(t *testing.T) {
	// width*height*4 wraps around on 64 bits.
	overflow := []byte("#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2305843009213693952 +X 8\n")
	overflow = append(overflow, 2, 2, 0, 8, 136, 1, 136, 2, 136, 3, 136, 128)

	huge := []byte("#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 200000 +X 200000\n")

	for _, data := range [][]byte{overflow, huge} {
		var err error
		require.NotPanics(t, func() {
			_, err = DecodeBytes(data, true)
		})

		var herr HeaderError
		assert.True(t, errors.As(err, &herr), "got %v", err)

		_, err = DecodeConfig(bytes.NewReader(data))
		assert.True(t, errors.As(err, &herr), "got %v", err)
	}
}

func TestDecodeLargeTruncated(t *testing.T) {
	data := []byte("#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 16000 +X 16000\n")
	data = append(data, 2, 2, 0x3e, 0x80, 136)

	_, err := DecodeBytes(data, true)

	var terr TruncatedError
	assert.True(t, errors.As(err, &terr), "got %v", err)
}

func TestDecodeMalformedHeader(t *testing.T) {
	_, err := DecodeBytes([]byte("P6\n2 2\n255\n"), true)

	var herr HeaderError
	assert.True(t, errors.As(err, &herr), "got %v", err)
}

func TestDecodeCorruptRun(t *testing.T) {
	data := []byte("#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 8\n")
	data = append(data, 2, 2, 0, 8, 0)

	_, err := DecodeBytes(data, true)

	var ferr FormatError
	assert.True(t, errors.As(err, &ferr), "got %v", err)
}

func TestEncodeErrors(t *testing.T) {
	_, err := EncodeBytes(NewFloatImage(0, 4, RGB))
	assert.Error(t, err)

	m := NewFloatImage(2, 2, RGB)
	m.Channels = 2
	_, err = EncodeBytes(m)
	var uerr UnsupportedError
	assert.True(t, errors.As(err, &uerr), "got %v", err)

	m = NewFloatImage(2, 2, RGB)
	m.Pix = m.Pix[:5]
	_, err = EncodeBytes(m)
	var ferr FormatError
	assert.True(t, errors.As(err, &ferr), "got %v", err)
}

func TestEncodePlane(t *testing.T) {
	m := gradient(20, 6, RGB)

	p := NewPlane(m.Width, m.Height, RGB)
	assert.Equal(t, 20*6*4, p.Len())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := m.RGBAt(x, y)
			p.InsertRGBE(x, y, r, g, b)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, EncodePlane(&buf, p))

	want, err := EncodeBytes(m)
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes())
}

func TestEncodePlaneGray(t *testing.T) {
	p := NewPlane(10, 2, Gray)
	assert.Equal(t, 10*2*2, p.Len())
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			p.InsertRE(x, y, float32(x+y))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, EncodePlane(&buf, p))

	got, err := DecodeFloat(&buf, false)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, float32(x+y), got.At(x, y, 0))
		}
	}
}

func TestPlaneInsertOutside(t *testing.T) {
	points := []image.Point{{-1, 0}, {10, 0}, {19, 1}, {0, -1}, {0, 2}}

	for _, c := range []Channels{Gray, RGB} {
		p := NewPlane(10, 2, c)
		require.NotPanics(t, func() {
			for _, pt := range points {
				p.InsertRE(pt.X, pt.Y, 3)
				p.InsertRGBE(pt.X, pt.Y, 1, 2, 3)
			}
		})
		assert.Equal(t, NewPlane(10, 2, c).buf, p.buf, "channels=%v", c)
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradient.hdr")
	m := gradient(40, 10, RGB)

	require.NoError(t, EncodeFile(path, m))
	got, err := DecodeFile(path, true)
	require.NoError(t, err)
	assertClose(t, m, got)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.hdr"), true)
	assert.Error(t, err)
}

func TestImageDecode(t *testing.T) {
	data, err := EncodeBytes(gradient(12, 3, RGB))
	require.NoError(t, err)

	config, err := DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 12, config.Width)
	assert.Equal(t, 3, config.Height)

	m, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.IsType(t, &hdr.RGB{}, m)
	assert.Equal(t, image.Rect(0, 0, 12, 3), m.Bounds())

	// Registered with the image package.
	config, _, err = image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 12, config.Width)

	m, _, err = image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Implements(t, (*hdr.Image)(nil), m)
}

func TestImageDecodeRadiance(t *testing.T) {
	data, err := EncodeBytes(gradient(12, 3, RGB))
	require.NoError(t, err)
	data = append([]byte(magicRadiance), data[len(magic):]...)

	m, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 3), m.Bounds())

	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 12, config.Width)
	assert.Equal(t, 3, config.Height)

	m, _, err = image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Implements(t, (*hdr.Image)(nil), m)
}

func TestFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	src.SetGray(1, 1, color.Gray{Y: 255})

	m := FromImage(src, Gray)
	assert.Equal(t, Gray, m.Channels)
	assert.Equal(t, float32(1), m.At(1, 1, 0))
	assert.Equal(t, float32(0), m.At(0, 0, 0))

	m = FromImage(src, RGB)
	r, g, b := m.RGBAt(1, 1)
	assert.Equal(t, []float32{1, 1, 1}, []float32{r, g, b})
}

func TestHDRConversion(t *testing.T) {
	m := gradient(9, 4, RGB)

	back := FromHDR(m.ToHDR(), RGB)
	assert.Equal(t, m, back)

	gray := FromImage(m.ToHDR(), Gray)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			assert.Equal(t, m.At(x, y, 0), gray.At(x, y, 0))
		}
	}
}

func TestConcurrentCodec(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		width := 8 + i*13
		g.Go(func() error {
			m := gradient(width, 7, Channels(1+2*(width%2)))
			data, err := EncodeBytes(m)
			if err != nil {
				return err
			}
			got, err := DecodeBytes(data, m.Channels == RGB)
			if err != nil {
				return err
			}
			if got.Width != width || len(got.Pix) != len(m.Pix) {
				return fmt.Errorf("width %d: unexpected decoded shape", width)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
