package game_object

import (
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the display name of the GameObject. Defaults to the mesh name.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the model the GameObject belongs to.
//
// Parameters:
//   - m: the owning model
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithMesh sets the mesh primitive the GameObject renders and picks against.
//
// Parameters:
//   - mesh: the mesh primitive
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Mesh
func WithMesh(mesh *model.ImportedMesh) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = mesh
	}
}

// WithPlacement sets the transform applied before the slot translation.
//
// Parameters:
//   - m: the placement transform
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the placement
func WithPlacement(m mgl32.Mat4) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.placement = m
	}
}
