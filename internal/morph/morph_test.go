package morph

import (
	"testing"
)

// maskFromRows builds a flat mask from rows of '.' and '#' characters.
func maskFromRows(rows ...string) ([]bool, int, int) {
	height := len(rows)
	width := len(rows[0])
	mask := make([]bool, width*height)
	for y, row := range rows {
		for x, ch := range row {
			mask[y*width+x] = ch == '#'
		}
	}
	return mask, width, height
}

func masksEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countSet(mask []bool) int {
	n := 0
	for _, set := range mask {
		if set {
			n++
		}
	}
	return n
}

func TestDilateErodeBasics(t *testing.T) {
	mask, w, h := maskFromRows(
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)

	dilated := Dilate(mask, w, h, 1)
	if countSet(dilated) != 9 {
		t.Errorf("dilate radius 1 of single pixel set %d pixels, want 9", countSet(dilated))
	}

	eroded := Erode(dilated, w, h, 1)
	if countSet(eroded) != 1 || !eroded[2*w+2] {
		t.Errorf("erode did not recover the original pixel: %d set", countSet(eroded))
	}

	// Erosion of a lone pixel clears it.
	if countSet(Erode(mask, w, h, 1)) != 0 {
		t.Error("erode radius 1 kept an unsupported pixel")
	}
}

func TestDilateZeroRadiusCopies(t *testing.T) {
	mask, w, h := maskFromRows("#.#", ".#.")
	out := Dilate(mask, w, h, 0)
	if !masksEqual(out, mask) {
		t.Error("radius 0 dilate changed the mask")
	}
	out[0] = false
	if !mask[0] {
		t.Error("radius 0 dilate aliased the input")
	}
}

func TestOpeningIdempotent(t *testing.T) {
	mask, w, h := maskFromRows(
		"##....#.",
		"##..###.",
		"....###.",
		".#..###.",
		"........",
	)
	once := Opening(mask, w, h, 1)
	twice := Opening(once, w, h, 1)
	if !masksEqual(once, twice) {
		t.Error("opening is not idempotent")
	}
}

func TestClosingIdempotent(t *testing.T) {
	mask, w, h := maskFromRows(
		"##.##...",
		"##.##...",
		".....#.#",
		"....####",
		"........",
	)
	once := Closing(mask, w, h, 1)
	twice := Closing(once, w, h, 1)
	if !masksEqual(once, twice) {
		t.Error("closing is not idempotent")
	}
}

func TestFillHoles(t *testing.T) {
	mask, w, h := maskFromRows(
		".......",
		".#####.",
		".#...#.",
		".#.#.#.",
		".#...#.",
		".#####.",
		".......",
	)
	FillHoles(mask, w, h)

	// Interior becomes solid.
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			if !mask[y*w+x] {
				t.Errorf("hole pixel (%d,%d) not filled", x, y)
			}
		}
	}
	// Border-connected background is untouched.
	for x := 0; x < w; x++ {
		if mask[x] || mask[6*w+x] {
			t.Errorf("border background filled at column %d", x)
		}
	}
}

func TestFillHolesOpenRegionUntouched(t *testing.T) {
	// A U shape leaks to the border; nothing should fill.
	mask, w, h := maskFromRows(
		"#...#",
		"#...#",
		"#####",
	)
	before := make([]bool, len(mask))
	copy(before, mask)
	FillHoles(mask, w, h)
	if !masksEqual(mask, before) {
		t.Error("open region was filled")
	}
}

func TestRemoveSmallComponents(t *testing.T) {
	build := func() ([]bool, int, int) {
		return maskFromRows(
			"..........",
			".###......",
			".###......",
			".###......",
			"..........",
			"..........",
		)
	}

	// The 3x3 block has 9 pixels: removed at minArea 10.
	mask, w, h := build()
	RemoveSmallComponents(mask, w, h, 10)
	if countSet(mask) != 0 {
		t.Errorf("block of 9 pixels survived minArea 10: %d set", countSet(mask))
	}

	// It survives at minArea 5.
	mask, w, h = build()
	RemoveSmallComponents(mask, w, h, 5)
	if countSet(mask) != 9 {
		t.Errorf("block of 9 pixels removed at minArea 5: %d set", countSet(mask))
	}

	// minArea <= 1 is a no-op.
	mask, w, h = build()
	RemoveSmallComponents(mask, w, h, 1)
	if countSet(mask) != 9 {
		t.Error("minArea 1 was not a no-op")
	}
}

func TestRemoveSmallComponentsUsesFourConnectivity(t *testing.T) {
	// Two diagonal pixels are separate 4-connected components of size 1
	// each; both are removed at minArea 2.
	mask, w, h := maskFromRows(
		"#..",
		".#.",
		"...",
	)
	RemoveSmallComponents(mask, w, h, 2)
	if countSet(mask) != 0 {
		t.Errorf("diagonal pixels treated as one component: %d set", countSet(mask))
	}
}

func TestPostProcessOrderAndPurity(t *testing.T) {
	mask, w, h := maskFromRows(
		"#.......",
		"..#####.",
		"..#...#.",
		"..#####.",
		"........",
	)
	original := make([]bool, len(mask))
	copy(original, mask)

	out := PostProcess(mask, w, h, PostProcessOptions{
		FillHoles:   true,
		MinBlobArea: 3,
	})

	if !masksEqual(mask, original) {
		t.Fatal("PostProcess mutated its input")
	}
	// The lone pixel is gone, the ring is solid.
	if out[0] {
		t.Error("small component survived")
	}
	if !out[2*w+4] {
		t.Error("ring interior not filled")
	}
}

func TestPostProcessAllDisabled(t *testing.T) {
	mask, w, h := maskFromRows("#.#", ".#.")
	out := PostProcess(mask, w, h, PostProcessOptions{})
	if !masksEqual(out, mask) {
		t.Error("disabled post-process changed the mask")
	}
}
