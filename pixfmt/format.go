// Package pixfmt is the catalogue of raw pixel formats and the layout
// (stride and size) computation for buffers of those formats.
package pixfmt

import (
	"strings"
)

// Format names a raw pixel layout.
type Format uint8

const (
	Invalid Format = iota

	// 8 bit
	// bayer
	Bayer8RGGB
	Bayer8GRBG
	Bayer8BGGR
	Bayer8GBRG
	// yuv 4:2:2 packed
	YUV8UYVY
	YUV8YUY2
	YUV8YVYU
	// rgb
	RGB24
	BGR24
	// rgba
	RGBA32
	BGRA32
	ARGB32
	ABGR32
	// gray
	Grayscale8

	// 10 bit bayer
	Bayer10RGGB
	Bayer10GRBG
	Bayer10BGGR
	Bayer10GBRG

	// 12 bit bayer
	Bayer12RGGB
	Bayer12GRBG
	Bayer12BGGR
	Bayer12GBRG

	// 14 bit bayer
	Bayer14RGGB
	Bayer14GRBG
	Bayer14BGGR
	Bayer14GBRG

	// 16 bit bayer
	Bayer16RGGB
	Bayer16GRBG
	Bayer16BGGR
	Bayer16GBRG

	formatCount
)

// Family groups formats that share a conversion path.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyBayer
	FamilyYUV
	FamilyRGB
	FamilyGray
)

// Pattern is the color filter ordering of a bayer format,
// read left to right, top to bottom over a 2x2 cell.
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternRGGB
	PatternGRBG
	PatternBGGR
	PatternGBRG
)

// Offsets locates the color channels within one pixel of a packed format.
// A is -1 for formats without alpha.
type Offsets struct {
	BytesPerPixel int
	R, G, B, A    int
}

type formatInfo struct {
	name     string
	depth    int
	bpc      int
	channels int
	family   Family
	pattern  Pattern
	offsets  Offsets
}

var catalogue = [formatCount]formatInfo{
	Invalid: {name: `invalid`},

	Bayer8RGGB: bayer(`bayer8_rggb`, 8, 8, PatternRGGB),
	Bayer8GRBG: bayer(`bayer8_grbg`, 8, 8, PatternGRBG),
	Bayer8BGGR: bayer(`bayer8_bggr`, 8, 8, PatternBGGR),
	Bayer8GBRG: bayer(`bayer8_gbrg`, 8, 8, PatternGBRG),

	// 4:2:2 packs two 8 bit samples per pixel
	YUV8UYVY: {name: `yuv8_uyvy`, depth: 16, bpc: 8, channels: 2, family: FamilyYUV},
	YUV8YUY2: {name: `yuv8_yuy2`, depth: 16, bpc: 8, channels: 2, family: FamilyYUV},
	YUV8YVYU: {name: `yuv8_yvyu`, depth: 16, bpc: 8, channels: 2, family: FamilyYUV},

	RGB24: packed(`rgb24`, Offsets{3, 0, 1, 2, -1}),
	BGR24: packed(`bgr24`, Offsets{3, 2, 1, 0, -1}),

	RGBA32: packed(`rgba32`, Offsets{4, 0, 1, 2, 3}),
	BGRA32: packed(`bgra32`, Offsets{4, 2, 1, 0, 3}),
	ARGB32: packed(`argb32`, Offsets{4, 1, 2, 3, 0}),
	ABGR32: packed(`abgr32`, Offsets{4, 3, 2, 1, 0}),

	Grayscale8: {name: `grayscale8`, depth: 8, bpc: 8, channels: 1, family: FamilyGray,
		offsets: Offsets{1, 0, 0, 0, -1}},

	Bayer10RGGB: bayer(`bayer10_rggb`, 16, 10, PatternRGGB),
	Bayer10GRBG: bayer(`bayer10_grbg`, 16, 10, PatternGRBG),
	Bayer10BGGR: bayer(`bayer10_bggr`, 16, 10, PatternBGGR),
	Bayer10GBRG: bayer(`bayer10_gbrg`, 16, 10, PatternGBRG),

	Bayer12RGGB: bayer(`bayer12_rggb`, 16, 12, PatternRGGB),
	Bayer12GRBG: bayer(`bayer12_grbg`, 16, 12, PatternGRBG),
	Bayer12BGGR: bayer(`bayer12_bggr`, 16, 12, PatternBGGR),
	Bayer12GBRG: bayer(`bayer12_gbrg`, 16, 12, PatternGBRG),

	Bayer14RGGB: bayer(`bayer14_rggb`, 16, 14, PatternRGGB),
	Bayer14GRBG: bayer(`bayer14_grbg`, 16, 14, PatternGRBG),
	Bayer14BGGR: bayer(`bayer14_bggr`, 16, 14, PatternBGGR),
	Bayer14GBRG: bayer(`bayer14_gbrg`, 16, 14, PatternGBRG),

	Bayer16RGGB: bayer(`bayer16_rggb`, 16, 16, PatternRGGB),
	Bayer16GRBG: bayer(`bayer16_grbg`, 16, 16, PatternGRBG),
	Bayer16BGGR: bayer(`bayer16_bggr`, 16, 16, PatternBGGR),
	Bayer16GBRG: bayer(`bayer16_gbrg`, 16, 16, PatternGBRG),
}

func bayer(name string, depth, bpc int, p Pattern) formatInfo {
	return formatInfo{name: name, depth: depth, bpc: bpc, channels: 1, family: FamilyBayer, pattern: p}
}

func packed(name string, o Offsets) formatInfo {
	bits := o.BytesPerPixel * 8
	return formatInfo{name: name, depth: bits, bpc: bits, channels: o.BytesPerPixel, family: FamilyRGB, offsets: o}
}

func (f Format) info() formatInfo {
	if f >= formatCount {
		return formatInfo{}
	}
	return catalogue[f]
}

// Depth is the number of bits one pixel occupies in a row.
// 0 means the format is unsupported.
func (f Format) Depth() int { return f.info().depth }

// BitPlaneCount is the number of significant bits per pixel.
// 0 means the format is unsupported.
func (f Format) BitPlaneCount() int { return f.info().bpc }

// Channels is the number of interleaved samples per pixel.
func (f Format) Channels() int { return f.info().channels }

func (f Format) Family() Family { return f.info().family }

func (f Format) BayerPattern() Pattern { return f.info().pattern }

// Offsets returns the channel offsets of rgb family and grayscale formats.
func (f Format) Offsets() (Offsets, bool) {
	inf := f.info()
	if inf.family != FamilyRGB && inf.family != FamilyGray {
		return Offsets{}, false
	}
	return inf.offsets, true
}

// Valid reports whether f is a catalogued format other than Invalid.
func (f Format) Valid() bool { return f.Depth() > 0 && f.BitPlaneCount() > 0 }

func (f Format) String() string {
	if name := f.info().name; len(name) > 0 {
		return name
	}
	return `unknown`
}

// Formats lists all valid formats in catalogue order.
func Formats() []Format {
	fs := make([]Format, 0, formatCount-1)
	for f := Invalid + 1; f < formatCount; f++ {
		fs = append(fs, f)
	}
	return fs
}

// ParseFormat looks up a format by name, case insensitive.
// "-" may be used in place of "_".
func ParseFormat(name string) (Format, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), `-`, `_`)
	for f := Invalid + 1; f < formatCount; f++ {
		if catalogue[f].name == name {
			return f, true
		}
	}
	return Invalid, false
}

// Depth returns f.Depth().
func Depth(f Format) int { return f.Depth() }

// BitPlaneCount returns f.BitPlaneCount().
func BitPlaneCount(f Format) int { return f.BitPlaneCount() }
