package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func quad() *ImportedMesh {
	positions := []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	return &ImportedMesh{
		Name:      "quad",
		Positions: positions,
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		Transform: mgl32.Translate3D(5, 0, 0),
		Bounds:    CalculateBounds(positions),
	}
}

func TestImportedMeshTriangles(t *testing.T) {
	m := quad()
	assert.Equal(t, 2, m.TriangleCount())

	a, b, c, ok := m.Triangle(1)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, a)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, b)
	assert.Equal(t, mgl32.Vec3{-1, 1, 0}, c)

	_, _, _, ok = m.Triangle(2)
	assert.False(t, ok)

	m.Indices = []uint32{0, 1, 9}
	_, _, _, ok = m.Triangle(0)
	assert.False(t, ok)
}

func TestImportedMeshNonIndexed(t *testing.T) {
	m := &ImportedMesh{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.Equal(t, 1, m.TriangleCount())
	_, b, _, ok := m.Triangle(0)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b)
}

func TestNewModelBounds(t *testing.T) {
	m := NewModel(WithName("speaker"), WithSource("speaker.glb"), WithMeshes(quad()))

	assert.Equal(t, "speaker", m.Name())
	assert.Equal(t, "speaker.glb", m.Source())
	assert.Equal(t, 1, m.MeshCount())
	assert.Equal(t, mgl32.Vec3{4, -1, 0}, m.Bounds().Min)
	assert.Equal(t, mgl32.Vec3{6, 1, 0}, m.Bounds().Max)
}

func TestNewModelEmpty(t *testing.T) {
	m := NewModel()
	assert.True(t, m.Bounds().IsEmpty())
	assert.Zero(t, m.MeshCount())
}

func TestNewBoxMesh(t *testing.T) {
	m := NewBoxMesh("box", mgl32.Vec3{2, 4, 6})
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, m.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, m.Bounds.Max)
	assert.Equal(t, mgl32.Ident4(), m.Transform)
}
