package segment

import "math"

// AbsDiff computes the elementwise absolute difference |b[i]-a[i]| between
// two sample slices. The output length is the longer of the two inputs;
// missing samples on the shorter side, and non-finite samples on either
// side, are treated as 0.
func AbsDiff(a, b []float32) []float32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var va, vb float64
		if i < len(a) {
			va = float64(a[i])
			if math.IsNaN(va) || math.IsInf(va, 0) {
				va = 0
			}
		}
		if i < len(b) {
			vb = float64(b[i])
			if math.IsNaN(vb) || math.IsInf(vb, 0) {
				vb = 0
			}
		}
		out[i] = float32(math.Abs(vb - va))
	}
	return out
}
