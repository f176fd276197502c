package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// RigBuilderOption is a functional option for configuring a Rig via NewRig.
type RigBuilderOption func(*rig)

// WithPosition sets the rig's initial eye position.
//
// Parameters:
//   - p: the eye position
//
// Returns:
//   - RigBuilderOption: a function that applies the position option to a rig
func WithPosition(p mgl32.Vec3) RigBuilderOption {
	return func(r *rig) {
		r.position = p
	}
}

// WithPitch sets the fixed vertical look angle in radians. Negative values look down.
//
// Parameters:
//   - pitch: the pitch in radians
//
// Returns:
//   - RigBuilderOption: a function that applies the pitch option to a rig
func WithPitch(pitch float32) RigBuilderOption {
	return func(r *rig) {
		r.pitch = pitch
	}
}

// WithHeading sets the initial horizontal yaw in radians.
//
// Parameters:
//   - heading: the heading in radians
//
// Returns:
//   - RigBuilderOption: a function that applies the heading option to a rig
func WithHeading(heading float32) RigBuilderOption {
	return func(r *rig) {
		r.heading = heading
	}
}

// WithPanSpeed sets how many world units the camera moves per dragged pixel.
//
// Parameters:
//   - speed: world units per pixel
//
// Returns:
//   - RigBuilderOption: a function that applies the pan speed option to a rig
func WithPanSpeed(speed float32) RigBuilderOption {
	return func(r *rig) {
		r.panSpeed = speed
	}
}

// WithDamping sets the exponential decay rate of pan velocity, per second.
//
// Parameters:
//   - damping: the decay rate
//
// Returns:
//   - RigBuilderOption: a function that applies the damping option to a rig
func WithDamping(damping float32) RigBuilderOption {
	return func(r *rig) {
		r.damping = damping
	}
}

// WithDragThreshold sets the cumulative pointer movement, in pixels, that turns a click into a drag.
//
// Parameters:
//   - px: the threshold in pixels
//
// Returns:
//   - RigBuilderOption: a function that applies the threshold option to a rig
func WithDragThreshold(px float32) RigBuilderOption {
	return func(r *rig) {
		r.dragThreshold = px
	}
}

// WithVelocityEpsilon sets the speed below which inertia stops.
//
// Parameters:
//   - eps: world units per second
//
// Returns:
//   - RigBuilderOption: a function that applies the epsilon option to a rig
func WithVelocityEpsilon(eps float32) RigBuilderOption {
	return func(r *rig) {
		r.epsilon = eps
	}
}

// WithFrameRateNormalizer sets the factor converting a per-frame release delta into a per-second velocity.
//
// Parameters:
//   - fps: the nominal frame rate
//
// Returns:
//   - RigBuilderOption: a function that applies the normalizer option to a rig
func WithFrameRateNormalizer(fps float32) RigBuilderOption {
	return func(r *rig) {
		r.normalizer = fps
	}
}

// WithLookDistance sets how far ahead of the eye the look-target is placed.
//
// Parameters:
//   - d: the distance in world units
//
// Returns:
//   - RigBuilderOption: a function that applies the look distance option to a rig
func WithLookDistance(d float32) RigBuilderOption {
	return func(r *rig) {
		if d > 0 {
			r.lookDistance = d
		}
	}
}

// WithInvertPan makes the scene follow the pointer instead of the camera.
//
// Parameters:
//   - invert: true to negate pointer deltas
//
// Returns:
//   - RigBuilderOption: a function that applies the invert option to a rig
func WithInvertPan(invert bool) RigBuilderOption {
	return func(r *rig) {
		r.invertPan = invert
	}
}

// WithPanButton sets which pointer button starts drag sessions.
//
// Parameters:
//   - button: the pan button
//
// Returns:
//   - RigBuilderOption: a function that applies the button option to a rig
func WithPanButton(button common.PointerButton) RigBuilderOption {
	return func(r *rig) {
		r.panButton = button
	}
}

// WithLight attaches a light that follows the camera.
//
// Parameters:
//   - l: the light to move every frame
//
// Returns:
//   - RigBuilderOption: a function that applies the light option to a rig
func WithLight(l light.Light) RigBuilderOption {
	return func(r *rig) {
		r.light = l
	}
}

// WithLightOffset sets the attached light's offset from the eye.
//
// Parameters:
//   - offset: the world-space offset
//
// Returns:
//   - RigBuilderOption: a function that applies the light offset option to a rig
func WithLightOffset(offset mgl32.Vec3) RigBuilderOption {
	return func(r *rig) {
		r.lightOffset = offset
	}
}

// WithLogger sets the logger for drag diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - RigBuilderOption: a function that applies the logger option to a rig
func WithLogger(logger *slog.Logger) RigBuilderOption {
	return func(r *rig) {
		if logger != nil {
			r.logger = logger
		}
	}
}
