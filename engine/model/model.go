package model

import (
	"github.com/Carmen-Shannon/oxy-showroom/common"
)

// model is the implementation of the Model interface.
type model struct {
	name   string
	source string
	meshes []*ImportedMesh
	bounds common.AABB
}

// Model defines the interface for a loaded 3D model.
// A Model holds the CPU-side geometry of every mesh primitive in the asset, flattened out of the
// node hierarchy, together with the bounds used to place and pick its instances.
// It is produced by the Loader after importing and processing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Source retrieves the path the model was loaded from, empty for in-memory models.
	//
	// Returns:
	//   - string: the source path
	Source() string

	// Meshes retrieves every mesh primitive of the model in document order.
	//
	// Returns:
	//   - []*ImportedMesh: the meshes
	Meshes() []*ImportedMesh

	// MeshCount retrieves the number of mesh primitives.
	//
	// Returns:
	//   - int: the mesh count
	MeshCount() int

	// Bounds retrieves the model-space bounding box enclosing every mesh.
	//
	// Returns:
	//   - common.AABB: the model bounds
	Bounds() common.AABB
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options.
// Bounds are recomputed from the meshes unless set explicitly.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the newly created Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{bounds: common.EmptyAABB()}
	for _, opt := range options {
		opt(m)
	}
	if m.bounds.IsEmpty() {
		for _, mesh := range m.meshes {
			m.bounds = m.bounds.Union(mesh.ModelBounds())
		}
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Source() string {
	return m.source
}

func (m *model) Meshes() []*ImportedMesh {
	return m.meshes
}

func (m *model) MeshCount() int {
	return len(m.meshes)
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}
