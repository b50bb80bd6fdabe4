// Package detect extracts and classifies discrete urban/terrain features
// from a normalized radar intensity raster.
//
// # Pipeline
//
// Detection runs an ordered list of strategies, each producing candidate
// boxes that a single non-maximum-suppression pass merges:
//
//  1. Scale pyramid: the raster is nearest-neighbor resampled at factors
//     1, 0.5, and 0.25. Each level is binarized at a percentile threshold,
//     closed once morphologically, and decomposed into 8-connected
//     components. Components become classified boxes mapped back to native
//     resolution.
//  2. Fallback cascade: when the merged primary result is sparse or
//     spatially top-biased, a lower-percentile mask and a locally-adaptive
//     mean-threshold mask contribute additional candidates, merged with
//     the same NMS step.
//
// Strategies are independent and run concurrently (one goroutine per scale
// or fallback), joined before the merge; outputs are combined in strategy
// order so results are deterministic.
//
// # Classification
//
// classifyUrbanFeature scores each component against four category profiles
// (building, bridge, border-wall, river) using weighted blends of area,
// fill ratio, aspect ratio, and axis length, falling back to a generic
// urban-feature label. A Zhang–Suen skeleton pass then measures linearity;
// strongly linear components are forcibly reassigned to bridge or
// border-wall regardless of the heuristic's choice.
//
// The scoring weights, floors, and override thresholds are calibrated
// constants (classify.go, detector.go). They are heuristic approximations
// tuned against reference behavior and must not be re-derived from the
// methods they are named after.
package detect
