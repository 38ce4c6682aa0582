package rgbe

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//------------------------//
// Header writer          //
//------------------------//

// writeHeader writes the minimal Radiance header for a top-to-bottom,
// left-to-right picture.
func writeHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n\n-Y %d +X %d\n", magic, formatLine, height, width)
	return errors.Wrap(err, "could not write header")
}

//------------------------//
// Header parser          //
//------------------------//

// readHeader reads the header lines until the resolution string.
// Unknown variables and comments are skipped.
func readHeader(br *bufio.Reader) (width, height int, err error) {
	line, err := readLine(br)
	if err != nil {
		return 0, 0, err
	}
	if line != magic && line != magicRadiance {
		return 0, 0, HeaderError("missing magic identifier")
	}

	var hasFormat bool
	for {
		if line, err = readLine(br); err != nil {
			return 0, 0, err
		}

		switch {
		case line == "", strings.HasPrefix(line, "#"):
			// Comments and the blank line ending the variables.
		case strings.HasPrefix(line, formatPrefix):
			if line != formatLine {
				return 0, 0, UnsupportedError(line)
			}
			hasFormat = true
		case strings.HasPrefix(line, gammaPrefix), strings.HasPrefix(line, exposurePrefix):
			// Viewing parameters, ignored (no gamma nor exposure correction).
		case strings.HasPrefix(line, "-Y ") || strings.HasPrefix(line, "+Y "):
			if !hasFormat {
				return 0, 0, HeaderError("missing FORMAT line")
			}
			return parseResolution(line)
		}
	}
}

// parseResolution parses a `-Y <height> +X <width>` resolution string.
func parseResolution(line string) (width, height int, err error) {
	f := strings.Fields(line)
	if len(f) != 4 || f[0] != "-Y" || f[2] != "+X" {
		return 0, 0, HeaderError(fmt.Sprintf("unsupported resolution string %q", line))
	}

	if height, err = strconv.Atoi(f[1]); err != nil || height <= 0 {
		return 0, 0, HeaderError(fmt.Sprintf("invalid height %q", f[1]))
	}
	if width, err = strconv.Atoi(f[3]); err != nil || width <= 0 {
		return 0, 0, HeaderError(fmt.Sprintf("invalid width %q", f[3]))
	}
	if width > math.MaxInt/height/rgbeLen || width*height > maxPixels {
		return 0, 0, HeaderError(fmt.Sprintf("picture too large (%dx%d)", width, height))
	}
	return width, height, nil
}

// readLine reads a text line without its line terminator.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", HeaderError("unexpected EOF")
		}
		return "", errors.Wrap(err, "could not read header")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
