package morph

// PostProcessOptions controls the cleanup stages applied to a raw change
// mask. Each stage runs only when its parameter is active, in the fixed
// order: opening, closing, hole filling, small-component removal.
type PostProcessOptions struct {
	// OpeningRadius is the structuring-element radius for the opening
	// pass (erode then dilate). 0 disables the pass.
	OpeningRadius int `json:"opening_radius"`

	// ClosingRadius is the structuring-element radius for the closing
	// pass (dilate then erode). 0 disables the pass.
	ClosingRadius int `json:"closing_radius"`

	// FillHoles enables filling of enclosed background regions.
	FillHoles bool `json:"fill_holes"`

	// MinBlobArea removes 4-connected components smaller than this pixel
	// count. Values of 1 or less disable the pass.
	MinBlobArea int `json:"min_blob_area"`
}

// Dilate returns a new mask where a pixel is set if any pixel within
// Chebyshev distance radius (inclusive square window) is set in the input.
// A radius of 0 or less returns a copy.
func Dilate(mask []bool, width, height, radius int) []bool {
	out := make([]bool, len(mask))
	if radius <= 0 {
		copy(out, mask)
		return out
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if anyInWindow(mask, width, height, x, y, radius, true) {
				out[y*width+x] = true
			}
		}
	}
	return out
}

// Erode returns a new mask where a pixel is set only if every pixel within
// Chebyshev distance radius is set in the input. A radius of 0 or less
// returns a copy.
func Erode(mask []bool, width, height, radius int) []bool {
	out := make([]bool, len(mask))
	if radius <= 0 {
		copy(out, mask)
		return out
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !anyInWindow(mask, width, height, x, y, radius, false) {
				out[y*width+x] = true
			}
		}
	}
	return out
}

// anyInWindow scans the clamped square window around (cx, cy) for a pixel
// equal to want; used with want=true for dilation and want=false for
// erosion.
func anyInWindow(mask []bool, width, height, cx, cy, radius int, want bool) bool {
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
	for y := y0; y <= y1; y++ {
		row := y * width
		for x := x0; x <= x1; x++ {
			if mask[row+x] == want {
				return true
			}
		}
	}
	return false
}

// Opening erodes then dilates, removing isolated specks smaller than the
// structuring element. Idempotent for a fixed radius.
func Opening(mask []bool, width, height, radius int) []bool {
	return Dilate(Erode(mask, width, height, radius), width, height, radius)
}

// Closing dilates then erodes, bridging small gaps between nearby set
// regions. Idempotent for a fixed radius.
func Closing(mask []bool, width, height, radius int) []bool {
	return Erode(Dilate(mask, width, height, radius), width, height, radius)
}

// FillHoles sets every unset pixel that is not 4-connected to the raster
// border. Background is flood-filled from all border pixels; whatever
// remains unreached is an enclosed hole and becomes set. Mutates mask in
// place.
func FillHoles(mask []bool, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	reached := make([]bool, len(mask))
	stack := make([]int, 0, 2*(width+height))

	push := func(i int) {
		if !mask[i] && !reached[i] {
			reached[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < width; x++ {
		push(x)
		push((height-1)*width + x)
	}
	for y := 0; y < height; y++ {
		push(y * width)
		push(y*width + width - 1)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		if x > 0 {
			push(i - 1)
		}
		if x < width-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - width)
		}
		if y < height-1 {
			push(i + width)
		}
	}

	for i := range mask {
		if !mask[i] && !reached[i] {
			mask[i] = true
		}
	}
}

// RemoveSmallComponents clears every 4-connected component of set pixels
// whose area is below minArea. Mutates mask in place. No-op when minArea
// is 1 or less.
func RemoveSmallComponents(mask []bool, width, height, minArea int) {
	if minArea <= 1 || width <= 0 || height <= 0 {
		return
	}
	visited := make([]bool, len(mask))
	component := make([]int, 0, minArea)
	stack := make([]int, 0, minArea)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		component = component[:0]
		stack = append(stack[:0], start)
		visited[start] = true

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, i)
			x, y := i%width, i/width

			visit := func(n int) {
				if mask[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
			if x > 0 {
				visit(i - 1)
			}
			if x < width-1 {
				visit(i + 1)
			}
			if y > 0 {
				visit(i - width)
			}
			if y < height-1 {
				visit(i + width)
			}
		}

		if len(component) < minArea {
			for _, i := range component {
				mask[i] = false
			}
		}
	}
}

// PostProcess runs the cleanup cascade over a change mask and returns the
// cleaned mask. The opening and closing passes allocate (the primitives are
// pure); hole filling and component removal then mutate the working copy in
// place. The caller's input slice is never modified.
func PostProcess(mask []bool, width, height int, opts PostProcessOptions) []bool {
	out := mask
	owned := false
	if opts.OpeningRadius > 0 {
		out = Opening(out, width, height, opts.OpeningRadius)
		owned = true
	}
	if opts.ClosingRadius > 0 {
		out = Closing(out, width, height, opts.ClosingRadius)
		owned = true
	}
	if !owned && (opts.FillHoles || opts.MinBlobArea > 1) {
		out = make([]bool, len(mask))
		copy(out, mask)
	}
	if opts.FillHoles {
		FillHoles(out, width, height)
	}
	if opts.MinBlobArea > 1 {
		RemoveSmallComponents(out, width, height, opts.MinBlobArea)
	}
	return out
}
