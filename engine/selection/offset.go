package selection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OffsetStrategy chooses the direction a selected instance is pushed along.
type OffsetStrategy interface {
	// Direction computes the unit direction for an instance.
	//
	// Parameters:
	//   - original: the instance's registered transform
	//   - eye: the current camera position
	//
	// Returns:
	//   - mgl32.Vec3: a unit vector
	Direction(original mgl32.Mat4, eye mgl32.Vec3) mgl32.Vec3
}

// LocalForward pushes instances along their own +Z axis.
type LocalForward struct{}

// TowardCamera pushes instances horizontally toward the camera. When the camera is directly
// above or below the instance it behaves like LocalForward.
type TowardCamera struct{}

// WorldAxis pushes every instance along the same world-space axis.
type WorldAxis struct {
	Axis mgl32.Vec3
}

var (
	_ OffsetStrategy = LocalForward{}
	_ OffsetStrategy = TowardCamera{}
	_ OffsetStrategy = WorldAxis{}
)

var worldForward = mgl32.Vec3{0, 0, 1}

func (LocalForward) Direction(original mgl32.Mat4, _ mgl32.Vec3) mgl32.Vec3 {
	return unitOr(original.Col(2).Vec3(), worldForward)
}

func (TowardCamera) Direction(original mgl32.Mat4, eye mgl32.Vec3) mgl32.Vec3 {
	pos := original.Col(3).Vec3()
	toEye := eye.Sub(pos)
	toEye[1] = 0
	if toEye.Len() < 1e-6 {
		return LocalForward{}.Direction(original, eye)
	}
	return toEye.Normalize()
}

func (w WorldAxis) Direction(_ mgl32.Mat4, _ mgl32.Vec3) mgl32.Vec3 {
	return unitOr(w.Axis, worldForward)
}

func unitOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 || math32.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// ParseOffsetStrategy converts a config name into an OffsetStrategy.
//
// Parameters:
//   - name: "local", "camera" or "world"
//   - axis: the world axis used by "world"
//
// Returns:
//   - OffsetStrategy: the parsed strategy
//   - bool: false for an unknown name
func ParseOffsetStrategy(name string, axis mgl32.Vec3) (OffsetStrategy, bool) {
	switch name {
	case "local", "":
		return LocalForward{}, true
	case "camera":
		return TowardCamera{}, true
	case "world":
		return WorldAxis{Axis: axis}, true
	default:
		return LocalForward{}, false
	}
}
