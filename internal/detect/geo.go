package detect

import "github.com/skysift/sarscope/internal/raster"

// FootprintPolygon maps a box's corners into geographic coordinates using
// the linear transform implied by bounds over a width×height pixel grid.
//
// The ring is closed: five points, clockwise from the top-left corner, with
// the first point repeated last. Inverse-mapping the corners with
// raster.GeoToPixel reproduces the pixel corners within floating-point
// tolerance.
func FootprintPolygon(box Box, bounds raster.GeoBounds, width, height int) [][2]float64 {
	corners := [4][2]float64{
		{float64(box.X), float64(box.Y)},
		{float64(box.X + box.W), float64(box.Y)},
		{float64(box.X + box.W), float64(box.Y + box.H)},
		{float64(box.X), float64(box.Y + box.H)},
	}

	ring := make([][2]float64, 0, 5)
	for _, c := range corners {
		lon, lat := raster.PixelToGeo(bounds, c[0], c[1], width, height)
		ring = append(ring, [2]float64{lon, lat})
	}
	ring = append(ring, ring[0])
	return ring
}
