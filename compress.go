package rgbe

import (
	"fmt"
	"io"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// appendRuns run-length encodes src and appends the result to dst.
//
// A repeat of n identical bytes (minRun <= n <= maxRun) is written as the
// control byte 128+n followed by the value. Anything else is dumped as the
// control byte n (1 <= n <= maxRun) followed by the n literal bytes.
func appendRuns(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		n := 1
		for i+n < len(src) && n < maxRun && src[i+n] == src[i] {
			n++
		}
		if n >= minRun {
			dst = append(dst, byte(runFlag+n), src[i])
			i += n
			continue
		}

		// Dump until the next repeat starts.
		j := i + 1
		for j < len(src) && j-i < maxRun {
			if j+1 < len(src) && src[j+1] == src[j] {
				break
			}
			j++
		}
		dst = append(dst, byte(j-i))
		dst = append(dst, src[i:j]...)
		i = j
	}
	return dst
}

// readRLEPlane decodes one run-length encoded component of a scanline
// and fills dst entirely.
func readRLEPlane(br byteReader, dst []byte) error {
	var b byte
	var err error

	for off := 0; off < len(dst); {
		// Read RLE property
		if b, err = br.ReadByte(); err != nil {
			return readErr(err, "run-length scanline")
		}

		if b > runFlag {
			// a run of the same value
			n := int(b) - runFlag
			if off+n > len(dst) {
				return FormatError(fmt.Sprintf("run of %d bytes overflows scanline", n))
			}
			if b, err = br.ReadByte(); err != nil {
				return readErr(err, "run-length scanline")
			}
			for end := off + n; off < end; off++ {
				dst[off] = b
			}
		} else {
			// a non-run, copy data
			n := int(b)
			if n == 0 {
				return FormatError("zero length run")
			}
			if off+n > len(dst) {
				return FormatError(fmt.Sprintf("dump of %d bytes overflows scanline", n))
			}
			if _, err = io.ReadFull(br, dst[off:off+n]); err != nil {
				return readErr(err, "run-length scanline")
			}
			off += n
		}
	}
	return nil
}
