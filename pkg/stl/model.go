package stl

import (
	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// HeaderSize is the size of the free-form header of a binary STL file
const HeaderSize = 80

// Model represents a complete STL model.
// Name holds the binary header text or the ASCII solid name.
// Header keeps the raw binary header bytes and is nil for ASCII input.
type Model struct {
	Name      string
	Header    []byte
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// WithTriangles returns a model carrying the same name and header and only the given triangles
func (m *Model) WithTriangles(triangles []geometry.Triangle) *Model {
	return &Model{
		Name:      m.Name,
		Header:    m.Header,
		Triangles: triangles,
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	return geometry.BoundsOf(m.Triangles)
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
