package detect

import "sort"

// Category labels the kind of urban/terrain feature a detection represents.
type Category string

const (
	CategoryBuilding     Category = "building"
	CategoryBorderWall   Category = "border-wall"
	CategoryBridge       Category = "bridge"
	CategoryRiver        Category = "river"
	CategoryUrbanFeature Category = "urban-feature"
)

// Box is a single detected feature in native pixel space. Boxes are
// immutable after the detector emits them.
type Box struct {
	// ID is a stable index assigned after the final merge, in descending
	// confidence order.
	ID int `json:"id"`

	// Category is the classified feature type.
	Category Category `json:"category"`

	// Confidence is the detection confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// X, Y, W, H is the bounding box in native pixel coordinates.
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`

	// AreaPixels is the component's pixel count scaled to native
	// resolution.
	AreaPixels int `json:"area_pixels"`

	// CentroidX and CentroidY are the component centroid in native pixel
	// coordinates.
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`

	// Footprint is a closed 5-point geographic ring (lon, lat pairs),
	// present only when the source raster carried a bounding box.
	Footprint [][2]float64 `json:"footprint,omitempty"`
}

// IoU returns the intersection-over-union of two boxes' axis-aligned
// bounding rectangles. Union area subtracts the intersection from the sum
// of the two areas; disjoint boxes yield 0.
func IoU(a, b Box) float64 {
	ix1 := maxInt(a.X, b.X)
	iy1 := maxInt(a.Y, b.Y)
	ix2 := minInt(a.X+a.W, b.X+b.W)
	iy2 := minInt(a.Y+a.H, b.Y+b.H)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	inter := float64((ix2 - ix1) * (iy2 - iy1))
	union := float64(a.W*a.H) + float64(b.W*b.H) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// NMS performs greedy non-maximum suppression: boxes are sorted by
// descending confidence (stable, so ties keep their input order) and each
// box is kept only if its IoU with every previously kept box is below
// iouThreshold. The result is a subset of the input in descending
// confidence order.
func NMS(boxes []Box, iouThreshold float64) []Box {
	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]Box, 0, len(sorted))
	for _, candidate := range sorted {
		overlaps := false
		for _, k := range kept {
			if IoU(candidate, k) >= iouThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
