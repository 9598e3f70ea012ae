// Package geometry builds vertex and index data for the flat rectangles the
// overlay uses as backgrounds.
//
// Coordinates are normalized device coordinates: x and y in [-1, 1], depth
// in [0, 1].
package geometry
