package geometry

// QuadIndices draws an IndexedRectangle as two counter-clockwise triangles,
// corners numbered counter-clockwise from the minimum corner.
var QuadIndices = []uint16{0, 1, 3, 1, 2, 3}

// Crop returns v clamped to max. Values at or above max become max.
func Crop(v, max float32) float32 {
	if v < max {
		return v
	}
	return max
}

// Rectangle returns a triangle-list rectangle of 6 vertices.
//
// The minimum corner is Crop(offset, 1) - 1 on each axis, so an offset of 0
// starts at the left/bottom edge of the viewport. size is the maximum corner
// in normalized device coordinates.
func Rectangle(size, offset [2]float32, depth float32, color [4]float32) []Vertex {
	minX, minY := Crop(offset[0], 1)-1, Crop(offset[1], 1)-1
	return []Vertex{
		{Position: [3]float32{minX, minY, depth}, Color: color},
		{Position: [3]float32{size[0], minY, depth}, Color: color},
		{Position: [3]float32{minX, size[1], depth}, Color: color},
		{Position: [3]float32{size[0], minY, depth}, Color: color},
		{Position: [3]float32{size[0], size[1], depth}, Color: color},
		{Position: [3]float32{minX, size[1], depth}, Color: color},
	}
}

// IndexedRectangle returns the 4 corners of a rectangle and the indices that
// draw it. The minimum corner is Crop(offset, 2) - 1 on each axis.
func IndexedRectangle(size, offset [2]float32, depth float32, color [4]float32) ([]Vertex, []uint16) {
	minX, minY := Crop(offset[0], 2)-1, Crop(offset[1], 2)-1
	vertices := []Vertex{
		{Position: [3]float32{minX, minY, depth}, Color: color},
		{Position: [3]float32{size[0], minY, depth}, Color: color},
		{Position: [3]float32{size[0], size[1], depth}, Color: color},
		{Position: [3]float32{minX, size[1], depth}, Color: color},
	}
	indices := make([]uint16, len(QuadIndices))
	copy(indices, QuadIndices)
	return vertices, indices
}

// FullScreen returns an indexed rectangle covering the whole viewport.
func FullScreen(color [4]float32) ([]Vertex, []uint16) {
	return IndexedRectangle([2]float32{1, 1}, [2]float32{0, 0}, 0, color)
}
