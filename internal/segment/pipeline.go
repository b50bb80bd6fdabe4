package segment

import (
	"math"

	"github.com/skysift/sarscope/internal/morph"
	"github.com/skysift/sarscope/internal/raster"
	"github.com/skysift/sarscope/internal/speckle"
)

// PipelineOptions bundles the full configuration of a change-detection run.
type PipelineOptions struct {
	// Filter is the speckle filter applied to both rasters before
	// differencing.
	Filter speckle.Kind

	// FilterWindow is the speckle filter window size in pixels.
	FilterWindow int

	// Segmentation selects and parameterizes the thresholding algorithm.
	Segmentation Options

	// Post is the morphological cleanup applied to the raw mask.
	Post morph.PostProcessOptions

	// Debug, when true, captures intermediate artifacts in the result's
	// Debug field.
	Debug bool
}

// DebugArtifacts carries intermediate pipeline products for inspection.
// Populated only when PipelineOptions.Debug is set; never stashed on any
// shared state.
type DebugArtifacts struct {
	// RawMask is the segmentation output before morphological cleanup.
	RawMask []bool

	// FilteredBefore and FilteredAfter are the despeckled sample buffers.
	FilteredBefore []float32
	FilteredAfter  []float32
}

// ChangeResult is the output of a change-detection run.
type ChangeResult struct {
	// Width and Height are the analysis dimensions (those of the after
	// raster).
	Width  int `json:"width"`
	Height int `json:"height"`

	// Mask is the final change mask, aligned 1:1 with the analysis grid.
	Mask []bool `json:"-"`

	// ChangedPixels is the number of set pixels in Mask.
	ChangedPixels int `json:"changed_pixels"`

	// ChangePercent is 100 * ChangedPixels / (Width*Height).
	ChangePercent float64 `json:"change_percent"`

	// AreaKm2 is the changed ground area in square kilometers, present
	// only when the after raster carries a pixel scale.
	AreaKm2 *float64 `json:"area_km2,omitempty"`

	// Threshold is the effective global threshold of the segmentation
	// algorithm, 0 for purely local algorithms.
	Threshold float64 `json:"threshold"`

	// BeforeByte, AfterByte, and DiffByte are the normalized byte rasters
	// for preview rendering.
	BeforeByte []uint8 `json:"-"`
	AfterByte  []uint8 `json:"-"`
	DiffByte   []uint8 `json:"-"`

	// Debug holds intermediate artifacts when requested.
	Debug *DebugArtifacts `json:"-"`
}

// Detect runs the full change pipeline over a co-registered before/after
// raster pair: despeckle both, difference, normalize, segment, and clean up.
//
// If the before raster's dimensions differ from the after raster's, before
// is nearest-neighbor resampled to match; a mismatch is recovered, never an
// error. The pipeline is a pure function of its inputs: no global state is
// read or written, and neither input buffer is mutated.
func Detect(before, after *raster.Buffer, opts PipelineOptions) *ChangeResult {
	width, height := after.Width, after.Height
	if before.Width != width || before.Height != height {
		before = raster.Resample(before, width, height)
	}

	fb := speckle.Filter(before.Samples, width, height, opts.Filter, opts.FilterWindow)
	fa := speckle.Filter(after.Samples, width, height, opts.Filter, opts.FilterWindow)

	diff := AbsDiff(fb, fa)
	diffByte := raster.Normalize(diff, raster.ProfileChange)

	segOpts := opts.Segmentation
	if segOpts == nil {
		segOpts = Otsu{}
	}
	rawMask, threshold := Segment(diffByte, width, height, segOpts)

	mask := morph.PostProcess(rawMask, width, height, opts.Post)

	changed := 0
	for _, set := range mask {
		if set {
			changed++
		}
	}

	result := &ChangeResult{
		Width:         width,
		Height:        height,
		Mask:          mask,
		ChangedPixels: changed,
		Threshold:     threshold,
		BeforeByte:    raster.Normalize(fb, raster.ProfileChange),
		AfterByte:     raster.Normalize(fa, raster.ProfileChange),
		DiffByte:      diffByte,
	}
	if total := width * height; total > 0 {
		result.ChangePercent = 100 * float64(changed) / float64(total)
	}
	if ps := after.PixelScale; ps != nil {
		area := float64(changed) * math.Abs(ps.X*ps.Y) / 1e6
		result.AreaKm2 = &area
	}
	if opts.Debug {
		result.Debug = &DebugArtifacts{
			RawMask:        rawMask,
			FilteredBefore: fb,
			FilteredAfter:  fa,
		}
	}
	return result
}
