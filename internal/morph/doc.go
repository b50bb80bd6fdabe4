// Package morph provides binary mask morphology for change-mask cleanup.
//
// Masks are flat []bool slices aligned 1:1 with a raster's row-major pixel
// grid. Dilation and erosion use an inclusive square structuring element
// (Chebyshev distance window); hole filling and small-component removal use
// 4-connected flood fill. The PostProcess cascade applies opening, closing,
// hole filling, and component removal in that fixed order, each stage
// conditional on its parameter.
//
// Dilate, Erode, Opening, and Closing are pure and return new slices;
// FillHoles and RemoveSmallComponents mutate in place. PostProcess never
// modifies its input slice.
package morph
