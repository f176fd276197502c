package model

import "github.com/go-gl/mathgl/mgl32"

// cubeFaces lists the four corners of each unit cube face, wound counter-clockwise from outside.
var cubeFaces = [6][4]mgl32.Vec3{
	{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}},     // +X
	{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, -0.5, -0.5}}, // -X
	{{-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}},     // +Y
	{{-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}}, // -Y
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},     // +Z
	{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, // -Z
}

// NewBoxMesh builds an indexed box centred on the origin.
// The showroom falls back to it when no asset is configured.
//
// Parameters:
//   - name: the mesh identifier
//   - size: the edge lengths along X, Y and Z
//
// Returns:
//   - *ImportedMesh: the box mesh with an identity node transform
func NewBoxMesh(name string, size mgl32.Vec3) *ImportedMesh {
	positions := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint32, 0, 36)
	for fi, face := range cubeFaces {
		base := uint32(fi * 4)
		for _, p := range face {
			positions = append(positions, mgl32.Vec3{p[0] * size[0], p[1] * size[1], p[2] * size[2]})
		}
		indices = append(indices,
			base+0, base+1, base+2,
			base+0, base+2, base+3,
		)
	}
	return &ImportedMesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Transform: mgl32.Ident4(),
		Bounds:    CalculateBounds(positions),
	}
}
