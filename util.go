package rgbe

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// A HeaderError reports that the Radiance header is missing or cannot be parsed.
type HeaderError string

func (e HeaderError) Error() string {
	return fmt.Sprintf("rgbe: malformed header: %s", string(e))
}

// A TruncatedError reports that the stream ended before a scanline
// was fully reconstructed.
type TruncatedError string

func (e TruncatedError) Error() string {
	return fmt.Sprintf("rgbe: truncated data: %s", string(e))
}

// A FormatError reports that the scanline data is not valid RGBE data.
type FormatError string

func (e FormatError) Error() string {
	return fmt.Sprintf("rgbe: invalid format: %s", string(e))
}

// An UnsupportedError reports that the input uses a valid but
// unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("rgbe: unsupported feature: %s", string(e))
}

// readErr maps an error returned while reading pixel data.
// An early EOF is a truncation, anything else is an I/O failure.
func readErr(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return TruncatedError(what)
	}
	return errors.Wrapf(err, "could not read %s", what)
}

// maxFloat32 returns the greatest of a, b and c.
func maxFloat32(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
