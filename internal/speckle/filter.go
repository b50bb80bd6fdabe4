package speckle

import (
	"math"

	"github.com/skysift/sarscope/internal/raster"
)

// Kind selects the adaptive speckle filter applied to a raw intensity raster.
type Kind string

const (
	// None disables filtering; Filter returns a copy of the input.
	None Kind = "none"

	// Lee is the classic Lee filter: a minimum-mean-square-error blend of
	// the local mean and the raw value, weighted by local vs global variance.
	Lee Kind = "lee"

	// Kuan is the Kuan filter, a multiplicative-noise refinement of Lee
	// using the scene coefficient of variation under an assumed number of
	// looks.
	Kuan Kind = "kuan"

	// Frost is the Frost filter: an exponential-damping blend that
	// preserves edges by trusting the raw value where local variance is
	// high.
	Frost Kind = "frost"
)

const (
	// equivalentLooks is the assumed Equivalent Number of Looks for the
	// Kuan filter. Calibrated constant; do not re-derive.
	equivalentLooks = 4.0

	// frostDamping controls how quickly the Frost kernel decays with the
	// local-to-global variance ratio.
	frostDamping = 2.0

	epsilon = 1e-10
)

// Filter applies the selected speckle filter over a square sliding window
// and returns a new sample slice; the input is never mutated.
//
// The window radius is floor(windowSize/2). At raster borders the window is
// clamped to in-bounds taps (asymmetric window, not zero padding), so edge
// statistics are computed over fewer samples rather than diluted by
// synthetic zeros.
//
// Invalid configuration is clamped rather than rejected: kind None or a
// windowSize of 1 or less yields a pass-through copy, and an even
// windowSize behaves as the next odd size up due to radius truncation.
func Filter(samples []float32, width, height int, kind Kind, windowSize int) []float32 {
	out := make([]float32, len(samples))
	if kind == None || windowSize <= 1 || width <= 0 || height <= 0 {
		copy(out, samples)
		return out
	}

	radius := windowSize / 2
	_, globalVar := raster.Stats(samples)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			localMean, localVar := windowStats(samples, width, height, x, y, radius)
			v := float64(samples[i])
			if !isFinite(v) {
				v = 0
			}

			var filtered float64
			switch kind {
			case Lee:
				w := localVar / (localVar + globalVar + epsilon)
				filtered = localMean + w*(v-localMean)
			case Kuan:
				cu2 := 1.0 / equivalentLooks
				ci2 := localVar / (localMean*localMean + epsilon)
				w := (1.0 - cu2/(ci2+epsilon)) / (1.0 + cu2)
				if w < 0 {
					w = 0
				} else if w > 1 {
					w = 1
				}
				filtered = localMean + w*(v-localMean)
			case Frost:
				k := math.Exp(-frostDamping * localVar / (globalVar + epsilon))
				filtered = k*localMean + (1.0-k)*v
			default:
				filtered = v
			}
			out[i] = float32(filtered)
		}
	}
	return out
}

// windowStats computes the mean and population variance of the in-bounds
// taps of the square window centered at (cx, cy). Non-finite samples are
// treated as 0.
func windowStats(samples []float32, width, height, cx, cy, radius int) (mean, variance float64) {
	x0, x1 := cx-radius, cx+radius
	y0, y1 := cy-radius, cy+radius
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= width {
		x1 = width - 1
	}
	if y1 >= height {
		y1 = height - 1
	}

	var sum, sumSq float64
	count := 0
	for y := y0; y <= y1; y++ {
		row := y * width
		for x := x0; x <= x1; x++ {
			v := float64(samples[row+x])
			if !isFinite(v) {
				v = 0
			}
			sum += v
			sumSq += v * v
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	mean = sum / float64(count)
	variance = sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
