// Package speckle implements adaptive despeckling filters for radar
// intensity rasters.
//
// Radar backscatter carries multiplicative speckle noise. Before two
// acquisitions are differenced, each is smoothed with one of three classic
// adaptive filters (Lee, Kuan, Frost) that blend a pixel's raw value with
// its local window mean, weighted so that homogeneous regions are smoothed
// aggressively while edges and point targets are preserved.
//
// All filters share the same window mechanics: a square window of the
// configured size slides over the raster, clamped (not zero-padded) at the
// borders, and local mean/variance are computed per pixel while global
// statistics are computed once. Filtering is pure: a new sample slice is
// always returned.
package speckle
