package segment

// Options is the sealed sum type selecting a segmentation algorithm. Each
// variant carries exactly the numeric parameters its algorithm consumes;
// there is no shared parameter bag and no implicit global state.
//
// Segment switches exhaustively over the concrete variant types. Adding a
// variant means adding a case there.
type Options interface {
	// Algorithm returns the stable discriminant name of the variant.
	Algorithm() string
}

// Otsu selects histogram between-class-variance thresholding.
type Otsu struct {
	// ManualThreshold, when non-nil, overrides the computed threshold
	// with round(*ManualThreshold * 255). Expected range [0,1]; values
	// outside are clamped.
	ManualThreshold *float64
}

// Adaptive selects local box-mean thresholding: a pixel is changed when it
// exceeds its neighborhood average by a fixed offset.
type Adaptive struct{}

// KMeans selects 1-D k-means clustering on intensity; the cluster with the
// highest final center is the changed class.
type KMeans struct {
	// Clusters is the number of intensity clusters. Clamped to a minimum
	// of 2.
	Clusters int

	// Iterations is the number of assign/recompute passes. Clamped to a
	// minimum of 1.
	Iterations int
}

// IsolationForest selects a rank-based anomaly proxy: the top contamination
// fraction of intensities is marked changed. Despite the name this performs
// no tree ensemble; the rank arithmetic is the calibrated behavior.
type IsolationForest struct {
	// Contamination is the expected anomaly fraction, clamped to
	// [0.0005, 0.5].
	Contamination float64
}

// LOF selects a local-deviation proxy: a pixel is changed when it exceeds
// its local mean by a fixed offset. No true local-outlier-factor scoring is
// performed.
type LOF struct{}

// PCA selects z-score rank thresholding: the top contamination fraction of
// absolute z-scores is marked changed.
type PCA struct {
	// Contamination is the expected anomaly fraction, clamped to
	// [0.0005, 0.5].
	Contamination float64
}

func (Otsu) Algorithm() string            { return "otsu" }
func (Adaptive) Algorithm() string        { return "adaptive" }
func (KMeans) Algorithm() string          { return "kmeans" }
func (IsolationForest) Algorithm() string { return "isolation_forest" }
func (LOF) Algorithm() string             { return "lof" }
func (PCA) Algorithm() string             { return "pca" }

// clampContamination bounds a contamination fraction to its valid range.
func clampContamination(c float64) float64 {
	if c < 0.0005 {
		return 0.0005
	}
	if c > 0.5 {
		return 0.5
	}
	return c
}
