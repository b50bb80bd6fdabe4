package raster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NormProfile names a pair of percentile cutoffs for byte normalization.
//
// Two profiles are in use and must stay distinct: change visualization clips
// at the 98th percentile, while object detection keeps more of the bright
// tail (99.5th) so that small strong reflectors survive normalization.
type NormProfile struct {
	// Low is the percentile mapped to 0.
	Low float64
	// High is the percentile mapped to 255.
	High float64
}

var (
	// ProfileChange is the normalization used for difference rasters and
	// band previews in the change pipeline.
	ProfileChange = NormProfile{Low: 2, High: 98}

	// ProfileDetect is the wider-tailed normalization used as input to
	// object detection.
	ProfileDetect = NormProfile{Low: 2, High: 99.5}
)

const statEpsilon = 1e-10

// Percentile returns the exact rank percentile of an ascending-sorted slice:
// the value at index round(p/100 * (n-1)). No interpolation is performed;
// this matches the rank arithmetic used by the segmentation thresholds.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	idx := int(math.Round(p / 100 * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Normalize maps float samples onto the 0-255 byte range using percentile
// cutoffs from the given profile.
//
// Values at or below the low percentile map to 0, values at or above the
// high percentile map to 255, and the interval between is scaled linearly.
// Non-finite samples (NaN, ±Inf) are excluded from the percentile
// computation and emit 0. A degenerate raster (all samples equal, or no
// finite samples) yields an all-zero output rather than an error.
func Normalize(values []float32, profile NormProfile) []uint8 {
	out := make([]uint8, len(values))

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		f := float64(v)
		if isFinite(f) {
			finite = append(finite, f)
		}
	}
	if len(finite) == 0 {
		return out
	}
	sort.Float64s(finite)

	low := Percentile(finite, profile.Low)
	high := Percentile(finite, profile.High)
	scale := 255.0 / (high - low + statEpsilon)

	for i, v := range values {
		f := float64(v)
		if !isFinite(f) {
			continue
		}
		switch {
		case f <= low:
			out[i] = 0
		case f >= high:
			out[i] = 255
		default:
			out[i] = uint8(math.Round((f - low) * scale))
		}
	}
	return out
}

// Stats returns the global mean and population variance of the finite
// samples in values. Non-finite samples are excluded; an input with no
// finite samples yields (0, 0).
func Stats(values []float32) (mean, variance float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		f := float64(v)
		if isFinite(f) {
			finite = append(finite, f)
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	mean = stat.Mean(finite, nil)
	variance = stat.PopVariance(finite, nil)
	return mean, variance
}

// BytePercentile returns the value at rank round(p/100 * (n-1)) of a byte
// raster without materializing a sorted copy, using a 256-bin cumulative
// histogram. Equivalent to sorting and indexing.
func BytePercentile(values []uint8, p float64) uint8 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var hist [256]int
	for _, v := range values {
		hist[v]++
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	rank := int(math.Round(p / 100 * float64(n-1)))
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum > rank {
			return uint8(v)
		}
	}
	return 255
}
