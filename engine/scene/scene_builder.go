package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/selection"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active. Scenes are active by default.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithRegistry sets the instance registry instead of creating an empty one.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRegistry(r instance.Registry) SceneBuilderOption {
	return func(s *scene) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLoader sets the loader used by LoadModel and drained on every Tick.
//
// Parameters:
//   - l: the model loader
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithInstanceSink sets the sink dirty registry entries are flushed into on every Tick.
//
// Parameters:
//   - sink: the GPU instance sink
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInstanceSink(sink renderer.InstanceSink) SceneBuilderOption {
	return func(s *scene) {
		s.sink = sink
	}
}

// WithOverlay sets the overlay driven by selection events.
//
// Parameters:
//   - o: the overlay
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithOverlay(o Overlay) SceneBuilderOption {
	return func(s *scene) {
		s.overlay = o
	}
}

// WithSurfaceBounds sets the surface whose bounds clicks are normalized against.
// Defaults to a fixed 1280x720 viewport.
//
// Parameters:
//   - b: the surface bounds provider
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSurfaceBounds(b input.SurfaceBounds) SceneBuilderOption {
	return func(s *scene) {
		if b != nil {
			s.bounds = b
		}
	}
}

// WithCapturer sets the pointer capture provider handed to the router.
//
// Parameters:
//   - c: the capturer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCapturer(c input.Capturer) SceneBuilderOption {
	return func(s *scene) {
		s.capturer = c
	}
}

// WithSelectorOptions forwards options to the selector the scene creates.
//
// Parameters:
//   - options: the selector options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSelectorOptions(options ...selection.SelectorBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.selectorOptions = append(s.selectorOptions, options...)
	}
}

// WithInstanceCount sets how many copies of the model are displayed. Values below 1 are ignored.
//
// Parameters:
//   - n: the instance count (default 6)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInstanceCount(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.instanceCount = n
		}
	}
}

// WithSpacing sets the distance between neighbouring copies along X.
//
// Parameters:
//   - spacing: the slot spacing in world units (default 270)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpacing(spacing float32) SceneBuilderOption {
	return func(s *scene) {
		s.spacing = spacing
	}
}

// WithLiftY sets the height the recentred model is lifted to.
//
// Parameters:
//   - y: the lift height (default 50)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLiftY(y float32) SceneBuilderOption {
	return func(s *scene) {
		s.liftY = y
	}
}

// WithLogger sets the logger shared by the scene and the components it creates.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
