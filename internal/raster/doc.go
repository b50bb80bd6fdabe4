// Package raster provides the shared single-band raster data model and the
// numeric primitives the analysis pipeline is built on.
//
// A Buffer is a row-major float32 sample grid with optional georeferencing
// metadata (geographic bounding box and pixel ground scale). All pipeline
// stages exchange Buffers or flat slices aligned to a Buffer's geometry;
// nothing in this package performs I/O.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. When a geographic bounding
// box is present, pixel row 0 corresponds to the northern edge (MaxY) and
// PixelToGeo/GeoToPixel implement the linear mapping between the two spaces.
//
// # Normalization Profiles
//
// Byte normalization clips at percentile cutoffs before scaling linearly to
// 0-255. Two calibrated profiles exist: ProfileChange (2/98) for difference
// rasters and previews, and ProfileDetect (2/99.5) for object detection
// input, which preserves more of the bright tail. Callers must not mix the
// two; thresholds downstream are tuned per profile.
//
// # Numerical Conventions
//
// Percentiles are exact sorted-rank lookups at index round(p/100*(n-1)),
// never interpolated. Non-finite samples are excluded from statistics and
// normalize to 0. Degenerate inputs (empty, constant, all non-finite) yield
// zero-valued results rather than errors.
package raster
