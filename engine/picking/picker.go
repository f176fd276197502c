package picking

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/go-gl/mathgl/mgl32"
)

// Hit identifies the closest instance struck by a pick.
type Hit struct {
	Renderable instance.ID
	Index      int
	Distance   float32
	Point      mgl32.Vec3
}

// picker is the implementation of the Picker interface.
type picker struct {
	registry    instance.Registry
	intersector Intersector
	logger      *slog.Logger
}

// Picker resolves pointer positions to the closest instance in an instance.Registry.
type Picker interface {
	// Pick casts a ray from the camera through a pointer position and returns the closest hit.
	// Ties on distance resolve to the first hit in registry enumeration order.
	//
	// Parameters:
	//   - x, y: the pointer position in client coordinates
	//   - vp: the surface bounding rectangle
	//   - proj: the camera matrices
	//
	// Returns:
	//   - Hit: the closest hit
	//   - bool: false if nothing was hit or the viewport is degenerate
	Pick(x, y float32, vp Viewport, proj Projector) (Hit, bool)

	// PickRay returns the closest hit along an existing world-space ray.
	//
	// Parameters:
	//   - ray: the world-space ray with a normalized direction
	//
	// Returns:
	//   - Hit: the closest hit
	//   - bool: false if nothing was hit
	PickRay(ray Ray) (Hit, bool)
}

var _ Picker = &picker{}

// NewPicker creates a new Picker over the given registry with the provided options.
// The registry is required; passing nil panics.
//
// Parameters:
//   - registry: the instance registry to pick from
//   - options: variadic list of PickerBuilderOption functions to configure the Picker
//
// Returns:
//   - Picker: the newly created Picker instance
func NewPicker(registry instance.Registry, options ...PickerBuilderOption) Picker {
	if registry == nil {
		panic("picking: NewPicker requires a registry")
	}
	p := &picker{
		registry:    registry,
		intersector: GeometryIntersector{},
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *picker) Pick(x, y float32, vp Viewport, proj Projector) (Hit, bool) {
	ndcX, ndcY, ok := NormalizePointer(x, y, vp)
	if !ok {
		p.logger.Debug("pick ignored, degenerate viewport", "width", vp.Width, "height", vp.Height)
		return Hit{}, false
	}
	ray, ok := RayFromCamera(ndcX, ndcY, proj)
	if !ok {
		p.logger.Debug("pick ignored, camera matrix is singular")
		return Hit{}, false
	}
	return p.PickRay(ray)
}

func (p *picker) PickRay(ray Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, entry := range p.registry.Entries() {
		for _, h := range p.intersector.Intersect(ray, entry) {
			if !found || h.Distance < best.Distance {
				best = Hit{
					Renderable: entry.ID,
					Index:      h.Index,
					Distance:   h.Distance,
					Point:      ray.At(h.Distance),
				}
				found = true
			}
		}
	}
	return best, found
}
