package raster

import (
	"math"
)

// GeoBounds is an axis-aligned geographic bounding box in degrees.
//
// MinX/MaxX are longitudes (west/east edges), MinY/MaxY are latitudes
// (south/north edges). Pixel row 0 maps to MaxY, the northern edge.
type GeoBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// PixelScale is the ground size of one pixel in meters per axis.
type PixelScale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Buffer is a single-band float raster.
//
// Samples are stored row-major, length Width*Height. Bounds and PixelScale
// are optional georeferencing hints carried through from the decoder; nil
// means unknown. A Buffer is treated as immutable once produced: pipeline
// stages that transform sample data always allocate a new Buffer (or slice)
// rather than writing through a caller's.
type Buffer struct {
	Width  int
	Height int

	// Samples holds backscatter intensity values, one per pixel.
	// Invariant: len(Samples) == Width*Height.
	Samples []float32

	Bounds     *GeoBounds
	PixelScale *PixelScale
}

// New constructs a Buffer over an existing sample slice.
//
// If samples is shorter than width*height it is zero-extended; if longer it
// is truncated. This mirrors the defensive clamping used throughout the
// pipeline: malformed input is repaired, not rejected.
func New(width, height int, samples []float32) *Buffer {
	n := width * height
	if len(samples) != n {
		fixed := make([]float32, n)
		copy(fixed, samples)
		samples = fixed
	}
	return &Buffer{Width: width, Height: height, Samples: samples}
}

// Resample produces a nearest-neighbor resampled copy of b at the given
// dimensions. Georeferencing metadata is carried over unchanged (the
// geographic extent is the same; only the pixel grid density changes).
//
// Used both to reconcile mismatched before/after acquisitions and to build
// the detector's scale pyramid.
func Resample(b *Buffer, width, height int) *Buffer {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if width == b.Width && height == b.Height {
		out := make([]float32, len(b.Samples))
		copy(out, b.Samples)
		return &Buffer{Width: width, Height: height, Samples: out, Bounds: b.Bounds, PixelScale: b.PixelScale}
	}

	out := make([]float32, width*height)
	for y := 0; y < height; y++ {
		sy := y * b.Height / height
		if sy >= b.Height {
			sy = b.Height - 1
		}
		for x := 0; x < width; x++ {
			sx := x * b.Width / width
			if sx >= b.Width {
				sx = b.Width - 1
			}
			out[y*width+x] = b.Samples[sy*b.Width+sx]
		}
	}
	return &Buffer{Width: width, Height: height, Samples: out, Bounds: b.Bounds, PixelScale: b.PixelScale}
}

// ResampleBytes nearest-neighbor resamples a byte raster. Same index
// arithmetic as Resample, shared by the detector's scale pyramid so that
// float and byte paths land on identical source pixels.
func ResampleBytes(src []uint8, srcW, srcH, dstW, dstH int) []uint8 {
	if dstW <= 0 {
		dstW = 1
	}
	if dstH <= 0 {
		dstH = 1
	}
	out := make([]uint8, dstW*dstH)
	for y := 0; y < dstH; y++ {
		sy := y * srcH / dstH
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < dstW; x++ {
			sx := x * srcW / dstW
			if sx >= srcW {
				sx = srcW - 1
			}
			out[y*dstW+x] = src[sy*srcW+sx]
		}
	}
	return out
}

// PixelToGeo maps a pixel coordinate into geographic space using the linear
// transform implied by bounds over a width×height grid. Row 0 maps to the
// northern edge (MaxY).
func PixelToGeo(bounds GeoBounds, px, py float64, width, height int) (lon, lat float64) {
	if width <= 0 || height <= 0 {
		return bounds.MinX, bounds.MaxY
	}
	lon = bounds.MinX + px/float64(width)*(bounds.MaxX-bounds.MinX)
	lat = bounds.MaxY - py/float64(height)*(bounds.MaxY-bounds.MinY)
	return lon, lat
}

// GeoToPixel is the inverse of PixelToGeo. Degenerate bounds (zero extent on
// an axis) map to pixel 0 on that axis rather than dividing by zero.
func GeoToPixel(bounds GeoBounds, lon, lat float64, width, height int) (px, py float64) {
	dx := bounds.MaxX - bounds.MinX
	dy := bounds.MaxY - bounds.MinY
	if dx != 0 {
		px = (lon - bounds.MinX) / dx * float64(width)
	}
	if dy != 0 {
		py = (bounds.MaxY - lat) / dy * float64(height)
	}
	return px, py
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
