package render

import (
	"image/color"
	"testing"

	"github.com/skysift/sarscope/internal/detect"
)

func TestGrayImage(t *testing.T) {
	img := GrayImage([]uint8{0, 128, 255, 64}, 2, 2)

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 0}, {1, 0, 128}, {0, 1, 255}, {1, 1, 64},
	}
	for _, tc := range tests {
		c := img.NRGBAAt(tc.x, tc.y)
		if c.R != tc.want || c.G != tc.want || c.B != tc.want || c.A != 255 {
			t.Errorf("pixel (%d,%d) = %+v, want gray %d", tc.x, tc.y, c, tc.want)
		}
	}
}

func TestOverlayMask(t *testing.T) {
	base := GrayImage(make([]uint8, 16), 4, 4)
	mask := make([]bool, 16)
	mask[5] = true

	out := OverlayMask(base, mask, 4, 4, color.NRGBA{R: 255, A: 255}, 1.0)

	marked := out.NRGBAAt(1, 1)
	if marked.R <= marked.G {
		t.Errorf("masked pixel not tinted: %+v", marked)
	}
	clean := out.NRGBAAt(0, 0)
	if clean.R != clean.G || clean.G != clean.B {
		t.Errorf("unmasked pixel changed hue: %+v", clean)
	}
}

func TestHeatColorEndpoints(t *testing.T) {
	cold := HeatColor(0)
	if cold.B <= cold.R {
		t.Errorf("t=0 should be blue-dominant: %+v", cold)
	}
	hot := HeatColor(1)
	if hot.R <= hot.B {
		t.Errorf("t=1 should be red-dominant: %+v", hot)
	}
	// Out-of-range inputs clamp instead of wrapping the hue.
	if HeatColor(-5) != cold || HeatColor(5) != hot {
		t.Error("out-of-range t not clamped")
	}
}

func TestAnnotateBoxesDrawsOutline(t *testing.T) {
	img := GrayImage(make([]uint8, 100), 10, 10)
	boxes := []detect.Box{{X: 2, Y: 2, W: 4, H: 4, Confidence: 1}}

	out := AnnotateBoxes(img, boxes)

	edge := out.NRGBAAt(2, 2)
	if edge.R == edge.B {
		t.Errorf("box edge not drawn: %+v", edge)
	}
	inside := out.NRGBAAt(4, 4)
	if inside.R != 0 || inside.G != 0 || inside.B != 0 {
		t.Errorf("box interior painted: %+v", inside)
	}
	// Input untouched.
	if img.NRGBAAt(2, 2).R != 0 {
		t.Error("AnnotateBoxes mutated its input")
	}
}

func TestAnnotateBoxesClipsAtBounds(t *testing.T) {
	img := GrayImage(make([]uint8, 25), 5, 5)
	boxes := []detect.Box{{X: 3, Y: 3, W: 10, H: 10, Confidence: 0.5}}
	// Must not panic on out-of-bounds geometry.
	AnnotateBoxes(img, boxes)
}

func TestThumbnail(t *testing.T) {
	img := GrayImage(make([]uint8, 40*20), 40, 20)

	small := Thumbnail(img, 100)
	if small != img {
		t.Error("image under the limit was resized")
	}

	shrunk := Thumbnail(img, 10)
	b := shrunk.Bounds()
	if b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("thumbnail is %dx%d, want 10x5", b.Dx(), b.Dy())
	}
}
