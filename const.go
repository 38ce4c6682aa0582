package rgbe

// Resources:
// https://www.graphics.cornell.edu/~bjw/rgbe.html (Ward's reference reader/writer)
// https://radsite.lbl.gov/radiance/refer/filefmts.pdf (Radiance file formats)
// http://www.graphicsgems.org/ Graphics Gems II, "Real Pixels" (shared exponent)
//
// A Radiance picture starts with a text header terminated by an empty line,
// followed by the resolution string and the pixel data. Each scanline is
// either a run of raw RGBE quads (flat) or, when the width allows it, an
// adaptive run-length encoded block:
//
//  - a 4-byte marker {2, 2, width>>8, width&0xFF},
//  - the R, G, B and E byte planes of the scanline, each one run-length
//    encoded on its own.

const (
	magic         = "#?RGBE"
	magicRadiance = "#?RADIANCE"
	formatLine    = "FORMAT=32-bit_rle_rgbe"
	formatPrefix  = "FORMAT="

	gammaPrefix    = "GAMMA="
	exposurePrefix = "EXPOSURE="
)

// Scanline width bounds for the adaptive RLE encoding.
// The width is stored on 15 bits in the scanline marker and narrow scanlines
// could not be told apart from flat data.
const (
	minRLEWidth = 8
	maxRLEWidth = 0x7fff
)

// Run limits.
const (
	minRun = 2   // Shortest repeat worth a control byte.
	maxRun = 127 // Longest run of either kind.

	runFlag = 128 // Control bytes above this value are repeats.
)

// Number of bytes per pixel.
const (
	rgbeLen = 4
	reLen   = 2
)

// Color components in an RGBE quad.
const (
	cR = iota
	cG
	cB
	cE
)

// maxPixels bounds the picture size announced by a header.
const maxPixels = 1 << 28

// minValue is the smallest channel maximum encoded as a non-zero pixel.
const minValue = 1e-32
