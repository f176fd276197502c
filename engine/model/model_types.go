package model

import (
	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ImportedMesh represents a single mesh primitive within an imported model.
// Geometry is stored in the mesh's local space; Transform places it in model space.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Positions are the vertex positions in local space.
	Positions []mgl32.Vec3

	// Indices are the triangle indices. When empty, Positions is read as a triangle list.
	Indices []uint32

	// Transform is the accumulated node transform that places the mesh in model space.
	Transform mgl32.Mat4

	// Bounds is the local-space axis-aligned bounding box of Positions.
	Bounds common.AABB
}

// TriangleCount reports how many triangles the mesh describes.
//
// Returns:
//   - int: the triangle count
func (m *ImportedMesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle retrieves the three local-space corners of triangle i.
// Triangles referencing out-of-range vertices report ok == false.
//
// Parameters:
//   - i: the triangle index in [0, TriangleCount())
//
// Returns:
//   - a, b, c: the triangle corners
//   - bool: false if the triangle cannot be resolved
func (m *ImportedMesh) Triangle(i int) (a, b, c mgl32.Vec3, ok bool) {
	var i0, i1, i2 int
	if len(m.Indices) > 0 {
		if 3*i+2 >= len(m.Indices) {
			return a, b, c, false
		}
		i0, i1, i2 = int(m.Indices[3*i]), int(m.Indices[3*i+1]), int(m.Indices[3*i+2])
	} else {
		i0, i1, i2 = 3*i, 3*i+1, 3*i+2
	}
	n := len(m.Positions)
	if i0 >= n || i1 >= n || i2 >= n {
		return a, b, c, false
	}
	return m.Positions[i0], m.Positions[i1], m.Positions[i2], true
}

// ModelBounds returns the bounds of the mesh in model space.
func (m *ImportedMesh) ModelBounds() common.AABB {
	return m.Bounds.Transform(m.Transform)
}

// CalculateBounds computes the axis-aligned bounding box of a position list.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - common.AABB: the enclosing box, empty if positions is empty
func CalculateBounds(positions []mgl32.Vec3) common.AABB {
	b := common.EmptyAABB()
	for _, p := range positions {
		b = b.Extend(p)
	}
	return b
}
