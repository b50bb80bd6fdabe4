package segment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// adaptiveRadius and adaptiveOffset parameterize the "adaptive"
	// algorithm: changed when value > local box mean + offset.
	adaptiveRadius = 3
	adaptiveOffset = 8.0

	// lofRadius and lofOffset parameterize the "lof" local-deviation
	// proxy.
	lofRadius = 2
	lofOffset = 12.0

	epsilon = 1e-10
)

// Segment binarizes a normalized 0-255 difference raster into a change
// mask using the algorithm selected by opts.
//
// The returned threshold is the effective global cutoff for algorithms that
// have one (otsu, isolation_forest, kmeans boundary, pca rank value); for
// purely local algorithms (adaptive, lof) it is 0. Given identical inputs
// the output is reproducible bit for bit.
func Segment(values []uint8, width, height int, opts Options) (mask []bool, threshold float64) {
	mask = make([]bool, len(values))
	if len(values) == 0 {
		return mask, 0
	}

	switch o := opts.(type) {
	case Otsu:
		t := otsuThreshold(values)
		if o.ManualThreshold != nil {
			m := *o.ManualThreshold
			if m < 0 {
				m = 0
			}
			if m > 1 {
				m = 1
			}
			t = int(math.Round(m * 255))
		}
		for i, v := range values {
			mask[i] = int(v) > t
		}
		return mask, float64(t)

	case Adaptive:
		integ := newIntegral(values, width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				local := integ.mean(x-adaptiveRadius, y-adaptiveRadius, x+adaptiveRadius, y+adaptiveRadius)
				mask[i] = float64(values[i]) > local+adaptiveOffset
			}
		}
		return mask, 0

	case KMeans:
		centers, labels := KMeans1D(values, o.Clusters, o.Iterations)
		changed := 0
		for j := 1; j < len(centers); j++ {
			if centers[j] > centers[changed] {
				changed = j
			}
		}
		for i, l := range labels {
			mask[i] = l == changed
		}
		return mask, centers[changed]

	case IsolationForest:
		c := clampContamination(o.Contamination)
		t := rankThresholdBytes(values, c)
		for i, v := range values {
			mask[i] = float64(v) >= t
		}
		return mask, t

	case LOF:
		integ := newIntegral(values, width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				local := integ.mean(x-lofRadius, y-lofRadius, x+lofRadius, y+lofRadius)
				mask[i] = float64(values[i])-local > lofOffset
			}
		}
		return mask, 0

	case PCA:
		c := clampContamination(o.Contamination)
		data := make([]float64, len(values))
		for i, v := range values {
			data[i] = float64(v)
		}
		mean := stat.Mean(data, nil)
		std := math.Sqrt(stat.PopVariance(data, nil))
		if std < epsilon {
			std = epsilon
		}
		scores := make([]float64, len(values))
		for i, v := range data {
			scores[i] = math.Abs((v - mean) / std)
		}
		t := rankThreshold(scores, c)
		for i, s := range scores {
			mask[i] = s >= t
		}
		return mask, t

	default:
		// Unknown variant: treat as otsu without override. Options is a
		// sealed interface, so this is unreachable from package users.
		t := otsuThreshold(values)
		for i, v := range values {
			mask[i] = int(v) > t
		}
		return mask, float64(t)
	}
}

// otsuThreshold computes the classic Otsu threshold over a 256-bin
// histogram, maximizing between-class variance. Ties resolve to the first
// bin that attains the maximum. Degenerate histograms (constant input)
// yield that single bin, which may produce an empty or full mask; both are
// valid outcomes.
func otsuThreshold(values []uint8) int {
	var hist [256]float64
	for _, v := range values {
		hist[v]++
	}
	total := float64(len(values))

	var sumAll float64
	for v := 0; v < 256; v++ {
		sumAll += float64(v) * hist[v]
	}

	var sumB, weightB float64
	best := 0
	bestVar := -1.0
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * hist[t]
		meanB := sumB / weightB
		meanF := (sumAll - sumB) / weightF
		between := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return best
}

// KMeans1D clusters byte intensities with 1-D k-means.
//
// Centers are initialized from values sampled at evenly spaced positions of
// the input, assignment uses nearest-center absolute distance, and centers
// are recomputed as cluster means after each pass. Empty clusters keep
// their previous center. k is clamped to at least 2 and iterations to at
// least 1.
//
// Returns the final centers and a per-sample label index into centers.
func KMeans1D(values []uint8, k, iterations int) (centers []float64, labels []int) {
	n := len(values)
	if k < 2 {
		k = 2
	}
	if iterations < 1 {
		iterations = 1
	}
	labels = make([]int, n)
	centers = make([]float64, k)
	if n == 0 {
		return centers, labels
	}

	for j := 0; j < k; j++ {
		centers[j] = float64(values[j*(n-1)/(k-1)])
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	for it := 0; it < iterations; it++ {
		for j := 0; j < k; j++ {
			sums[j] = 0
			counts[j] = 0
		}
		for i, v := range values {
			f := float64(v)
			best := 0
			bestDist := math.Abs(f - centers[0])
			for j := 1; j < k; j++ {
				if d := math.Abs(f - centers[j]); d < bestDist {
					bestDist = d
					best = j
				}
			}
			labels[i] = best
			sums[best] += f
			counts[best]++
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				centers[j] = sums[j] / float64(counts[j])
			}
		}
	}
	return centers, labels
}

// rankThresholdBytes returns the value at sorted rank round(n*(1-c)) of a
// byte slice, the cutoff above which the top contamination fraction lies.
func rankThresholdBytes(values []uint8, contamination float64) float64 {
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	return rankThreshold(sorted, contamination)
}

// rankThreshold sorts a copy of scores ascending and returns the value at
// index round(n*(1-c)), clamped into range.
func rankThreshold(scores []float64, contamination float64) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)
	idx := int(math.Round(float64(n) * (1 - contamination)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// integral is a summed-area table over a byte raster, giving O(1) local
// box means for the adaptive and lof algorithms and the detector's
// locally-adaptive fallback threshold.
type integral struct {
	w, h int
	sum  []float64 // (w+1)*(h+1), sum[y][x] = sum of rect [0,x) x [0,y)
}

func newIntegral(values []uint8, width, height int) *integral {
	ig := &integral{w: width, h: height, sum: make([]float64, (width+1)*(height+1))}
	stride := width + 1
	for y := 0; y < height; y++ {
		var rowSum float64
		for x := 0; x < width; x++ {
			rowSum += float64(values[y*width+x])
			ig.sum[(y+1)*stride+(x+1)] = ig.sum[y*stride+(x+1)] + rowSum
		}
	}
	return ig
}

// mean returns the mean over the inclusive pixel rectangle [x0,x1]x[y0,y1],
// clamped to the raster.
func (ig *integral) mean(x0, y0, x1, y1 int) float64 {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= ig.w {
		x1 = ig.w - 1
	}
	if y1 >= ig.h {
		y1 = ig.h - 1
	}
	if x0 > x1 || y0 > y1 {
		return 0
	}
	stride := ig.w + 1
	a := ig.sum[y0*stride+x0]
	b := ig.sum[y0*stride+(x1+1)]
	c := ig.sum[(y1+1)*stride+x0]
	d := ig.sum[(y1+1)*stride+(x1+1)]
	area := float64((x1 - x0 + 1) * (y1 - y0 + 1))
	return (d - b - c + a) / area
}

// LocalMeanMask thresholds a byte raster against its local windowed mean:
// a pixel is set when value > localMean + offset, with the window clamped
// at raster borders. Computed via a summed-area table. This is the
// locally-adaptive mask used by the detector's fallback cascade.
func LocalMeanMask(values []uint8, width, height, window int, offset float64) []bool {
	mask := make([]bool, len(values))
	if window < 1 {
		window = 1
	}
	radius := window / 2
	integ := newIntegral(values, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			local := integ.mean(x-radius, y-radius, x+radius, y+radius)
			mask[i] = float64(values[i]) > local+offset
		}
	}
	return mask
}
