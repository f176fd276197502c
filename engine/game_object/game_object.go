package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      instance.ID
	name    string
	enabled atomic.Bool
	mdl     model.Model
	mesh    *model.ImportedMesh

	// placement maps model space to the showroom slot origin (recentre and lift)
	placement mgl32.Mat4
}

// GameObject is one part of a showroom product: a single mesh primitive of a loaded model, rendered once per
// display slot. It is the renderable the instance registry stores, so the registry ID is assigned back onto
// the object after registration.
type GameObject interface {
	instance.MeshRenderable

	// ID returns the registry identifier of the object, zero before registration.
	//
	// Returns:
	//   - instance.ID: the registry ID
	ID() instance.ID

	// SetID records the registry identifier of the object.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id instance.ID)

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the model this part belongs to, or nil if not set.
	//
	// Returns:
	//   - model.Model: the owning model or nil
	Model() model.Model

	// Placement returns the transform that moves model space onto a slot origin.
	//
	// Returns:
	//   - mgl32.Mat4: the placement transform
	Placement() mgl32.Mat4

	// SlotTransforms builds one instance transform per slot: the slot translation applied after Placement.
	//
	// Parameters:
	//   - slots: the slot origins in world space
	//
	// Returns:
	//   - []mgl32.Mat4: the per-instance transforms, in slot order
	SlotTransforms(slots []mgl32.Vec3) []mgl32.Mat4
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled with an identity placement.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		placement: mgl32.Ident4(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.name == "" && obj.mesh != nil {
		obj.name = obj.mesh.Name
	}
	return obj
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Mesh() *model.ImportedMesh {
	return g.mesh
}

func (g *gameObject) ID() instance.ID {
	return g.id
}

func (g *gameObject) SetID(id instance.ID) {
	g.id = id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Placement() mgl32.Mat4 {
	return g.placement
}

func (g *gameObject) SlotTransforms(slots []mgl32.Vec3) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(slots))
	for i, s := range slots {
		out[i] = mgl32.Translate3D(s.X(), s.Y(), s.Z()).Mul4(g.placement)
	}
	return out
}
