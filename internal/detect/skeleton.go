package detect

// skeletonize reduces a binary component mask to a 1-pixel-wide skeleton
// using Zhang–Suen thinning.
//
// Each round runs two sub-iteration deletion passes over the 8-neighborhood
// p2..p9 (clockwise from north). A pixel is deleted when its set-neighbor
// count B is in [2,6], its 0→1 transition count A around the neighborhood
// is exactly 1, and the sub-iteration's two corner-preserving products are
// zero (p2·p4·p6 = 0 and p4·p6·p8 = 0 in pass one; p2·p4·p8 = 0 and
// p2·p6·p8 = 0 in pass two). Rounds repeat until neither pass deletes.
//
// Out-of-bounds neighbors count as unset. The input is not modified.
func skeletonize(mask []bool, width, height int) []bool {
	skel := make([]bool, len(mask))
	copy(skel, mask)
	if width < 3 || height < 3 {
		return skel
	}

	at := func(x, y int) int {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		if skel[y*width+x] {
			return 1
		}
		return 0
	}

	deletions := make([]int, 0, 64)
	for {
		changed := false
		for pass := 0; pass < 2; pass++ {
			deletions = deletions[:0]
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					if !skel[y*width+x] {
						continue
					}
					p2 := at(x, y-1)
					p3 := at(x+1, y-1)
					p4 := at(x+1, y)
					p5 := at(x+1, y+1)
					p6 := at(x, y+1)
					p7 := at(x-1, y+1)
					p8 := at(x-1, y)
					p9 := at(x-1, y-1)

					b := p2 + p3 + p4 + p5 + p6 + p7 + p8 + p9
					if b < 2 || b > 6 {
						continue
					}

					ring := [9]int{p2, p3, p4, p5, p6, p7, p8, p9, p2}
					a := 0
					for i := 0; i < 8; i++ {
						if ring[i] == 0 && ring[i+1] == 1 {
							a++
						}
					}
					if a != 1 {
						continue
					}

					if pass == 0 {
						if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
							continue
						}
					} else {
						if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
							continue
						}
					}
					deletions = append(deletions, y*width+x)
				}
			}
			for _, i := range deletions {
				skel[i] = false
			}
			if len(deletions) > 0 {
				changed = true
			}
		}
		if !changed {
			return skel
		}
	}
}

// linearityRatio is skeleton pixel count over component pixel count: near 1
// for line-like components, low for filled blobs. A zero-area component
// yields 0.
func linearityRatio(skeleton []bool, componentArea int) float64 {
	if componentArea <= 0 {
		return 0
	}
	count := 0
	for _, set := range skeleton {
		if set {
			count++
		}
	}
	return float64(count) / float64(componentArea)
}
