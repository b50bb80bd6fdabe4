// Package render turns pipeline outputs into displayable images for the
// CLI: grayscale previews of normalized byte rasters, change-mask overlays,
// and confidence-tinted detection annotations.
//
// The analysis core itself never touches image types; this package is the
// presentation collaborator layered on top of it.
package render
