package selection

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// SelectorBuilderOption is a functional option for configuring a Selector via NewSelector.
type SelectorBuilderOption func(*selector)

// WithPolicy is an option builder that sets how clicks combine.
//
// Parameters:
//   - p: PolicySingle or PolicyMulti
//
// Returns:
//   - SelectorBuilderOption: a function that applies the policy option to a selector
func WithPolicy(p Policy) SelectorBuilderOption {
	return func(s *selector) {
		s.policy = p
	}
}

// WithOffsetStrategy is an option builder that sets the direction selected instances move in.
//
// Parameters:
//   - strategy: the offset strategy
//
// Returns:
//   - SelectorBuilderOption: a function that applies the strategy option to a selector
func WithOffsetStrategy(strategy OffsetStrategy) SelectorBuilderOption {
	return func(s *selector) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// WithOffsetMagnitude is an option builder that sets how far selected instances move, in world units.
//
// Parameters:
//   - magnitude: the offset length
//
// Returns:
//   - SelectorBuilderOption: a function that applies the magnitude option to a selector
func WithOffsetMagnitude(magnitude float32) SelectorBuilderOption {
	return func(s *selector) {
		s.magnitude = magnitude
	}
}

// WithEye is an option builder that supplies the camera position to offset strategies.
//
// Parameters:
//   - eye: returns the current camera position
//
// Returns:
//   - SelectorBuilderOption: a function that applies the eye option to a selector
func WithEye(eye func() mgl32.Vec3) SelectorBuilderOption {
	return func(s *selector) {
		if eye != nil {
			s.eye = eye
		}
	}
}

// WithLogger is an option builder that sets the logger for selection events.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - SelectorBuilderOption: a function that applies the logger option to a selector
func WithLogger(logger *slog.Logger) SelectorBuilderOption {
	return func(s *selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ParsePolicy converts a config name into a Policy.
//
// Parameters:
//   - name: "single" or "multi"
//
// Returns:
//   - Policy: the parsed policy
//   - bool: false for an unknown name
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "single", "":
		return PolicySingle, true
	case "multi":
		return PolicyMulti, true
	default:
		return PolicySingle, false
	}
}
