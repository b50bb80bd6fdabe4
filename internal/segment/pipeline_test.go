package segment

import (
	"math"
	"testing"

	"github.com/skysift/sarscope/internal/morph"
	"github.com/skysift/sarscope/internal/raster"
	"github.com/skysift/sarscope/internal/speckle"
)

func flatRaster(width, height int, value float32) *raster.Buffer {
	samples := make([]float32, width*height)
	for i := range samples {
		samples[i] = value
	}
	return raster.New(width, height, samples)
}

func TestDetectOtsuScenario(t *testing.T) {
	// 4x4 pair identical except a 2x2 changed block: otsu, no speckle
	// filter, no post-processing.
	before := flatRaster(4, 4, 10)
	after := flatRaster(4, 4, 10)
	for _, i := range []int{0, 1, 4, 5} {
		after.Samples[i] = 250
	}

	result := Detect(before, after, PipelineOptions{
		Filter:       speckle.None,
		Segmentation: Otsu{},
	})

	if result.ChangedPixels != 4 {
		t.Errorf("changed pixels = %d, want 4", result.ChangedPixels)
	}
	if result.ChangePercent != 25.0 {
		t.Errorf("change percent = %v, want 25.0", result.ChangePercent)
	}
	for _, i := range []int{0, 1, 4, 5} {
		if !result.Mask[i] {
			t.Errorf("changed pixel %d not in mask", i)
		}
	}
}

func TestDetectChangePercentBounds(t *testing.T) {
	before := flatRaster(8, 8, 0)
	after := flatRaster(8, 8, 0)
	for i := range after.Samples {
		after.Samples[i] = float32(i)
	}

	for _, opts := range []Options{Otsu{}, Adaptive{}, LOF{}, PCA{Contamination: 0.1}} {
		result := Detect(before, after, PipelineOptions{Filter: speckle.None, Segmentation: opts})
		if result.ChangePercent < 0 || result.ChangePercent > 100 {
			t.Errorf("%s: change percent %v outside [0,100]", opts.Algorithm(), result.ChangePercent)
		}
		want := 100 * float64(result.ChangedPixels) / 64
		if math.Abs(result.ChangePercent-want) > 1e-12 {
			t.Errorf("%s: percent %v inconsistent with count %d", opts.Algorithm(), result.ChangePercent, result.ChangedPixels)
		}
	}
}

func TestDetectResamplesMismatchedBefore(t *testing.T) {
	before := flatRaster(8, 8, 10)
	after := flatRaster(4, 4, 10)

	result := Detect(before, after, PipelineOptions{Filter: speckle.None, Segmentation: Otsu{}})
	if result.Width != 4 || result.Height != 4 {
		t.Fatalf("result dimensions %dx%d, want after's 4x4", result.Width, result.Height)
	}
	if result.ChangedPixels != 0 {
		t.Errorf("identical content after resample changed %d pixels", result.ChangedPixels)
	}
}

func TestDetectAreaKm2(t *testing.T) {
	before := flatRaster(4, 4, 10)
	after := flatRaster(4, 4, 10)
	for _, i := range []int{0, 1, 4, 5} {
		after.Samples[i] = 250
	}
	after.PixelScale = &raster.PixelScale{X: 10, Y: 10}

	result := Detect(before, after, PipelineOptions{Filter: speckle.None, Segmentation: Otsu{}})
	if result.AreaKm2 == nil {
		t.Fatal("AreaKm2 missing despite pixel scale")
	}
	// 4 pixels * 100 m^2 / 1e6 = 0.0004 km^2.
	if math.Abs(*result.AreaKm2-0.0004) > 1e-12 {
		t.Errorf("AreaKm2 = %v, want 0.0004", *result.AreaKm2)
	}

	after.PixelScale = nil
	if r := Detect(before, after, PipelineOptions{Filter: speckle.None, Segmentation: Otsu{}}); r.AreaKm2 != nil {
		t.Error("AreaKm2 present without pixel scale")
	}
}

func TestDetectPostProcessing(t *testing.T) {
	// A single changed pixel is wiped out by a min-blob-area pass.
	before := flatRaster(8, 8, 10)
	after := flatRaster(8, 8, 10)
	after.Samples[27] = 250

	result := Detect(before, after, PipelineOptions{
		Filter:       speckle.None,
		Segmentation: Otsu{},
		Post:         morph.PostProcessOptions{MinBlobArea: 4},
	})
	if result.ChangedPixels != 0 {
		t.Errorf("isolated pixel survived min-blob cleanup: %d changed", result.ChangedPixels)
	}
}

func TestDetectDebugArtifacts(t *testing.T) {
	before := flatRaster(4, 4, 10)
	after := flatRaster(4, 4, 20)

	plain := Detect(before, after, PipelineOptions{Filter: speckle.Lee, FilterWindow: 3, Segmentation: Otsu{}})
	if plain.Debug != nil {
		t.Error("debug artifacts captured without request")
	}

	debug := Detect(before, after, PipelineOptions{Filter: speckle.Lee, FilterWindow: 3, Segmentation: Otsu{}, Debug: true})
	if debug.Debug == nil {
		t.Fatal("debug artifacts missing")
	}
	if len(debug.Debug.RawMask) != 16 || len(debug.Debug.FilteredBefore) != 16 {
		t.Error("debug artifacts have wrong geometry")
	}
}

func TestDetectDoesNotMutateInputs(t *testing.T) {
	before := flatRaster(4, 4, 10)
	after := flatRaster(4, 4, 10)
	after.Samples[0] = 250
	beforeCopy := append([]float32(nil), before.Samples...)
	afterCopy := append([]float32(nil), after.Samples...)

	Detect(before, after, PipelineOptions{Filter: speckle.Lee, FilterWindow: 5, Segmentation: Adaptive{}})

	for i := range beforeCopy {
		if before.Samples[i] != beforeCopy[i] || after.Samples[i] != afterCopy[i] {
			t.Fatal("pipeline mutated an input buffer")
		}
	}
}
