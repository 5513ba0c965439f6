package analysis

import (
	"fmt"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// SolidInfo summarizes one connected solid of a model
type SolidInfo struct {
	Index         int
	TriangleCount int
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
}

// MeasurementResult contains the per-solid breakdown of an STL model
type MeasurementResult struct {
	TriangleCount int
	SurfaceArea   float64
	BoundingBox   geometry.BoundingBox
	Solids        []SolidInfo
}

// AnalyzeSolids summarizes a model that has already been partitioned into solids
func AnalyzeSolids(model *stl.Model, solids [][]geometry.Triangle) *MeasurementResult {
	result := &MeasurementResult{
		TriangleCount: model.TriangleCount(),
		SurfaceArea:   model.SurfaceArea(),
		BoundingBox:   model.BoundingBox(),
		Solids:        make([]SolidInfo, 0, len(solids)),
	}

	for i, triangles := range solids {
		result.Solids = append(result.Solids, DescribeSolid(i, triangles))
	}

	return result
}

// DescribeSolid measures a single solid
func DescribeSolid(index int, triangles []geometry.Triangle) SolidInfo {
	info := SolidInfo{
		Index:         index,
		TriangleCount: len(triangles),
		BoundingBox:   geometry.BoundsOf(triangles),
	}
	info.Dimensions = info.BoundingBox.Size()
	for _, t := range triangles {
		info.SurfaceArea += t.Area()
	}
	return info
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
