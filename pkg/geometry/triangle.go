package geometry

// Triangle represents a triangular facet in 3D space.
// Attribute carries the STL attribute byte count unchanged.
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
	Attribute  uint16
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// Vertices returns the three corners in file order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}

// Keys returns the vertex keys of the three corners
func (t Triangle) Keys() [3]VertexKey {
	return [3]VertexKey{KeyOf(t.V1), KeyOf(t.V2), KeyOf(t.V3)}
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	cross := edge1.Cross(edge2)
	return cross.Length() / 2.0
}
