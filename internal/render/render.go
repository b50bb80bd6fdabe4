package render

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/skysift/sarscope/internal/detect"
)

// GrayImage converts a normalized byte raster into a grayscale NRGBA image.
func GrayImage(values []uint8, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := values[y*width+x]
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// OverlayMask composites a change mask over a base preview. Set pixels are
// painted in the given color on a transparent layer, then blended onto the
// base at the given opacity (0..1).
func OverlayMask(base *image.NRGBA, mask []bool, width, height int, c color.NRGBA, opacity float64) *image.NRGBA {
	layer := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y*width+x] {
				layer.SetNRGBA(x, y, c)
			}
		}
	}
	blended := blend.Opacity(base, layer, opacity)
	return imaging.Clone(blended)
}

// HeatColor maps t in [0,1] onto a blue-to-red heat ramp. Used to tint
// detection boxes by confidence.
func HeatColor(t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	// Hue 240 (blue) down to 0 (red).
	c := colorful.Hsv(240*(1-t), 1, 1)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// AnnotateBoxes draws each detection's bounding rectangle onto a copy of
// img, tinted by its confidence.
func AnnotateBoxes(img *image.NRGBA, boxes []detect.Box) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	for _, b := range boxes {
		c := HeatColor(b.Confidence)
		drawRect(out, bounds, b.X, b.Y, b.W, b.H, c)
	}
	return out
}

// Thumbnail downsizes a preview so its longest side is at most maxSide,
// using nearest-neighbor to keep mask edges crisp. Images already small
// enough are returned as-is.
func Thumbnail(img *image.NRGBA, maxSide int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxSide, 0, imaging.NearestNeighbor)
	}
	return imaging.Resize(img, 0, maxSide, imaging.NearestNeighbor)
}

// drawRect strokes a 1-pixel axis-aligned rectangle, clipped to bounds.
func drawRect(img *image.NRGBA, bounds image.Rectangle, x, y, w, h int, c color.NRGBA) {
	x2, y2 := x+w, y+h
	for px := x; px <= x2; px++ {
		setClipped(img, bounds, px, y, c)
		setClipped(img, bounds, px, y2, c)
	}
	for py := y; py <= y2; py++ {
		setClipped(img, bounds, x, py, c)
		setClipped(img, bounds, x2, py, c)
	}
}

func setClipped(img *image.NRGBA, bounds image.Rectangle, x, y int, c color.NRGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.SetNRGBA(x, y, c)
	}
}
