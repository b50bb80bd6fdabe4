package detect

import (
	"math"
	"sync"

	"github.com/skysift/sarscope/internal/morph"
	"github.com/skysift/sarscope/internal/raster"
	"github.com/skysift/sarscope/internal/segment"
)

// Detection strategy constants. The scale pyramid, fallback triggers, and
// fallback thresholds are calibrated together; see also classify.go.
const (
	// DefaultPercentile is the intensity percentile used to binarize the
	// detection input when Options.Percentile is unset.
	DefaultPercentile = 97.0

	// DefaultMinAreaPixels is the minimum component pixel count at
	// detection scale.
	DefaultMinAreaPixels = 12

	// DefaultMaxDetections caps the merged detection list.
	DefaultMaxDetections = 150

	// DefaultIoUThreshold is the NMS overlap cutoff.
	DefaultIoUThreshold = 0.35

	// sparseMinDetections triggers the fallback cascade when the primary
	// multi-scale pass yields fewer merged boxes.
	sparseMinDetections = 12

	// topBiasFraction triggers the fallback cascade when the mean
	// detection centroid sits in this top fraction of the image, a sign
	// the threshold only caught one illuminated corner.
	topBiasFraction = 0.20

	// fallbackPercentileDrop lowers the percentile for the first
	// fallback mask.
	fallbackPercentileDrop = 8.0

	// fallbackAdaptiveWindow and fallbackAdaptiveOffset parameterize the
	// locally-adaptive fallback mask.
	fallbackAdaptiveWindow = 64
	fallbackAdaptiveOffset = 12.0

	// closeRadius is the single morphological close pass applied to each
	// binarized mask before component extraction.
	closeRadius = 1

	// Confidence blend weights: intensity margin above threshold vs
	// component shape, then detection confidence vs category score.
	confWIntensity = 0.60
	confWShape     = 0.40
	confWBase      = 0.55
	confWCategory  = 0.45

	shapeWFill    = 0.50
	shapeWArea    = 0.50
	shapeAreaNorm = 1500.0
)

var scaleFactors = [...]float64{1, 0.5, 0.25}

// Options configures object detection. Zero values select the documented
// defaults; out-of-range values are clamped, not rejected.
type Options struct {
	// Percentile is the intensity percentile for the primary binarization
	// threshold.
	Percentile float64

	// MinAreaPixels is the minimum component size at detection scale.
	MinAreaPixels int

	// MaxDetections caps the final merged box list.
	MaxDetections int

	// IoUThreshold is the NMS overlap cutoff.
	IoUThreshold float64
}

func (o Options) withDefaults() Options {
	if o.Percentile <= 0 || o.Percentile > 100 {
		o.Percentile = DefaultPercentile
	}
	if o.MinAreaPixels <= 0 {
		o.MinAreaPixels = DefaultMinAreaPixels
	}
	if o.MaxDetections <= 0 {
		o.MaxDetections = DefaultMaxDetections
	}
	if o.IoUThreshold <= 0 || o.IoUThreshold >= 1 {
		o.IoUThreshold = DefaultIoUThreshold
	}
	return o
}

// Result is the output of a detection run.
type Result struct {
	// Boxes is the merged, deduplicated detection list in descending
	// confidence order.
	Boxes []Box `json:"boxes"`

	// Count is len(Boxes).
	Count int `json:"count"`

	// Threshold is the native-resolution binarization threshold of the
	// primary strategy.
	Threshold float64 `json:"threshold"`

	// MeanConfidence is the average confidence over Boxes, 0 when empty.
	MeanConfidence float64 `json:"mean_confidence"`
}

// Detect extracts and classifies discrete features from a normalized 0-255
// raster (ProfileDetect normalization).
//
// The primary pass runs an ordered list of scale strategies (factors 1,
// 0.5, 0.25): resample, percentile-threshold, close, extract 8-connected
// components, classify, and map back to native resolution. Strategies are
// independent and run one goroutine each; their outputs are merged in
// strategy order before a single NMS pass, so the result is deterministic
// regardless of scheduling.
//
// If the merged result is sparse (fewer than 12 boxes) or top-biased (mean
// centroid in the top 20% of the image), two fallback strategies run the
// same component pipeline over a lower-percentile mask and a
// locally-adaptive mean-threshold mask, and the union is merged with the
// same NMS step.
//
// bounds, when non-nil, attaches a geographic footprint ring to each box.
func Detect(normalized []uint8, width, height int, bounds *raster.GeoBounds, opts Options) *Result {
	opts = opts.withDefaults()
	nativeThreshold := float64(raster.BytePercentile(normalized, opts.Percentile))

	if width <= 0 || height <= 0 || len(normalized) == 0 {
		return &Result{Boxes: []Box{}, Threshold: nativeThreshold}
	}

	// Primary pass: one goroutine per scale, results land in fixed slots.
	perScale := make([][]Box, len(scaleFactors))
	var wg sync.WaitGroup
	for i, s := range scaleFactors {
		wg.Add(1)
		go func(slot int, scale float64) {
			defer wg.Done()
			perScale[slot] = detectAtScale(normalized, width, height, scale, opts)
		}(i, s)
	}
	wg.Wait()

	candidates := make([]Box, 0, 64)
	for _, boxes := range perScale {
		candidates = append(candidates, boxes...)
	}
	merged := NMS(candidates, opts.IoUThreshold)

	if needsFallback(merged, height) {
		fallbacks := make([][]Box, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			t := raster.BytePercentile(normalized, opts.Percentile-fallbackPercentileDrop)
			mask := thresholdMask(normalized, t)
			fallbacks[0] = boxesFromMask(mask, normalized, width, height, float64(t), 1, opts)
		}()
		go func() {
			defer wg.Done()
			mask := segment.LocalMeanMask(normalized, width, height, fallbackAdaptiveWindow, fallbackAdaptiveOffset)
			fallbacks[1] = boxesFromMask(mask, normalized, width, height, nativeThreshold, 1, opts)
		}()
		wg.Wait()

		candidates = append(merged, fallbacks[0]...)
		candidates = append(candidates, fallbacks[1]...)
		merged = NMS(candidates, opts.IoUThreshold)
	}

	if len(merged) > opts.MaxDetections {
		merged = merged[:opts.MaxDetections]
	}

	var confSum float64
	for i := range merged {
		merged[i].ID = i
		confSum += merged[i].Confidence
		if bounds != nil {
			merged[i].Footprint = FootprintPolygon(merged[i], *bounds, width, height)
		}
	}

	result := &Result{
		Boxes:     merged,
		Count:     len(merged),
		Threshold: nativeThreshold,
	}
	if len(merged) > 0 {
		result.MeanConfidence = confSum / float64(len(merged))
	}
	return result
}

// needsFallback is the sparse/biased-result predicate over the primary
// strategy's merged output.
func needsFallback(boxes []Box, height int) bool {
	if len(boxes) < sparseMinDetections {
		return true
	}
	var sumY float64
	for _, b := range boxes {
		sumY += b.CentroidY
	}
	return sumY/float64(len(boxes)) < topBiasFraction*float64(height)
}

// detectAtScale runs one scale strategy: resample, threshold at the
// configured percentile of the scaled raster, and extract boxes.
func detectAtScale(normalized []uint8, width, height int, scale float64, opts Options) []Box {
	sw := int(math.Round(float64(width) * scale))
	sh := int(math.Round(float64(height) * scale))
	if sw < 1 || sh < 1 {
		return nil
	}

	scaled := normalized
	if sw != width || sh != height {
		scaled = raster.ResampleBytes(normalized, width, height, sw, sh)
	}

	t := raster.BytePercentile(scaled, opts.Percentile)
	mask := thresholdMask(scaled, t)
	return boxesFromMask(mask, scaled, sw, sh, float64(t), scale, opts)
}

// thresholdMask binarizes a byte raster with a strict greater-than cutoff.
// A degenerate threshold of 0 still leaves truly dark pixels unset.
func thresholdMask(values []uint8, threshold uint8) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = v > threshold
	}
	return mask
}

// component is one 8-connected region of set pixels with accumulated
// statistics from extraction.
type component struct {
	area                   int
	minX, minY, maxX, maxY int
	sumX, sumY             float64
	sumIntensity           float64
	pixels                 []int
}

// boxesFromMask applies one morphological close, extracts 8-connected
// components, and converts each sufficiently large component into a
// classified Box mapped back to native resolution by dividing by scale.
func boxesFromMask(mask []bool, values []uint8, width, height int, threshold, scale float64, opts Options) []Box {
	mask = morph.Closing(mask, width, height, closeRadius)

	boxes := make([]Box, 0, 16)
	for _, comp := range extractComponents(mask, width, height) {
		if comp.area < opts.MinAreaPixels {
			continue
		}
		boxes = append(boxes, buildBox(comp, values, width, threshold, scale))
	}
	return boxes
}

// extractComponents flood-fills set pixels with 8-connectivity.
func extractComponents(mask []bool, width, height int) []component {
	visited := make([]bool, len(mask))
	components := make([]component, 0, 16)
	stack := make([]int, 0, 256)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		comp := component{minX: width, minY: height, maxX: -1, maxY: -1}
		stack = append(stack[:0], start)
		visited[start] = true

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%width, i/width

			comp.area++
			comp.pixels = append(comp.pixels, i)
			comp.sumX += float64(x)
			comp.sumY += float64(y)
			if x < comp.minX {
				comp.minX = x
			}
			if x > comp.maxX {
				comp.maxX = x
			}
			if y < comp.minY {
				comp.minY = y
			}
			if y > comp.maxY {
				comp.maxY = y
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					n := ny*width + nx
					if mask[n] && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
		components = append(components, comp)
	}
	return components
}

// buildBox computes shape metrics, confidence, and classification for one
// component, then maps its geometry to native resolution.
func buildBox(comp component, values []uint8, width int, threshold, scale float64) Box {
	bw := comp.maxX - comp.minX + 1
	bh := comp.maxY - comp.minY + 1
	fill := float64(comp.area) / float64(bw*bh)

	major := float64(bw)
	minor := float64(bh)
	if bh > bw {
		major, minor = minor, major
	}
	if minor < 1 {
		minor = 1
	}
	aspect := major / minor

	for _, i := range comp.pixels {
		comp.sumIntensity += float64(values[i])
	}
	avgIntensity := comp.sumIntensity / float64(comp.area)

	intensityScore := clamp01((avgIntensity - threshold) / (255 - threshold + 1e-10))
	shapeScore := clamp01(shapeWFill*fill + shapeWArea*clamp01(float64(comp.area)/shapeAreaNorm))
	confidence := clamp01(confWIntensity*intensityScore + confWShape*shapeScore)

	category, categoryScore := classifyUrbanFeature(comp.area, fill, aspect, major)
	confidence = clamp01(confWBase*confidence + confWCategory*categoryScore)

	// Skeleton linearity can overrule the heuristic classifier.
	local := componentMask(comp, bw, bh, width)
	linearity := linearityRatio(skeletonize(local, bw, bh), comp.area)
	category, confidence = applyLinearityOverride(category, confidence, linearity, aspect, major)

	cx := comp.sumX / float64(comp.area)
	cy := comp.sumY / float64(comp.area)

	return Box{
		Category:   category,
		Confidence: confidence,
		X:          int(math.Round(float64(comp.minX) / scale)),
		Y:          int(math.Round(float64(comp.minY) / scale)),
		W:          int(math.Round(float64(bw) / scale)),
		H:          int(math.Round(float64(bh) / scale)),
		AreaPixels: int(math.Round(float64(comp.area) / (scale * scale))),
		CentroidX:  cx / scale,
		CentroidY:  cy / scale,
	}
}

// componentMask copies a component's pixels into a bbox-local mask for
// skeletonization.
func componentMask(comp component, bw, bh, stride int) []bool {
	local := make([]bool, bw*bh)
	for _, i := range comp.pixels {
		x := i%stride - comp.minX
		y := i/stride - comp.minY
		local[y*bw+x] = true
	}
	return local
}
