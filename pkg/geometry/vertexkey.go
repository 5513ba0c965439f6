package geometry

import (
	"fmt"
	"math"
)

// canonicalNaN is the single bit pattern every NaN coordinate is folded into
const canonicalNaN uint64 = 0x7FF8000000000000

// VertexKey is an exact, hashable and totally ordered representation of a point.
//
// Two points produce the same key iff their coordinates are equal value by value:
// signed zeros are treated as equal, all NaNs are treated as equal, and any other
// difference, however small, yields a different key. There is no tolerance.
type VertexKey struct {
	x, y, z uint64
}

// KeyOf returns the vertex key of a point
func KeyOf(v Vector3) VertexKey {
	return VertexKey{
		x: canonicalBits(v.X),
		y: canonicalBits(v.Y),
		z: canonicalBits(v.Z),
	}
}

func canonicalBits(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return canonicalNaN
	case f == 0:
		// folds -0 into +0
		return 0
	default:
		return math.Float64bits(f)
	}
}

// Vector returns the canonical coordinates of the key
func (k VertexKey) Vector() Vector3 {
	return Vector3{
		X: math.Float64frombits(k.x),
		Y: math.Float64frombits(k.y),
		Z: math.Float64frombits(k.z),
	}
}

// Compare orders keys lexicographically by X, Y, Z.
// Each coordinate is ordered numerically with NaN above +Inf.
// It returns -1, 0 or +1.
func (k VertexKey) Compare(other VertexKey) int {
	if c := compareBits(k.x, other.x); c != 0 {
		return c
	}
	if c := compareBits(k.y, other.y); c != 0 {
		return c
	}
	return compareBits(k.z, other.z)
}

// Less reports whether k sorts before other
func (k VertexKey) Less(other VertexKey) bool {
	return k.Compare(other) < 0
}

func compareBits(a, b uint64) int {
	if a == b {
		return 0
	}
	switch {
	case a == canonicalNaN:
		return 1
	case b == canonicalNaN:
		return -1
	}
	if math.Float64frombits(a) < math.Float64frombits(b) {
		return -1
	}
	return 1
}

// String formats the key as a coordinate triple
func (k VertexKey) String() string {
	v := k.Vector()
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}
