// Package segment implements difference computation and change
// segmentation for co-registered radar raster pairs.
//
// The entry point is Detect, which chains despeckling, absolute
// differencing, percentile byte normalization, one of six thresholding
// algorithms, and morphological cleanup into a ChangeResult. The
// thresholding step is also usable standalone via Segment.
//
// # Algorithms
//
// Options is a sealed sum type with one variant per algorithm:
//
//   - Otsu: histogram between-class-variance maximization, with an optional
//     manual override threshold
//   - Adaptive: local box-mean plus fixed offset
//   - KMeans: 1-D intensity clustering; the brightest cluster is "changed"
//   - IsolationForest: rank-based top-fraction cutoff (anomaly proxy)
//   - LOF: local-mean deviation beyond a fixed offset (outlier proxy)
//   - PCA: z-score magnitude with a rank-based cutoff
//
// The isolation_forest, lof, and pca variants are deliberate heuristic
// proxies, not the textbook statistical methods they are named after; their
// exact arithmetic is calibrated and downstream behavior depends on it.
//
// # Determinism
//
// Every algorithm is reproducible bit for bit for identical inputs. Invalid
// parameters (cluster counts below 2, contamination outside [0.0005, 0.5])
// are clamped to the nearest valid value rather than rejected.
package segment
