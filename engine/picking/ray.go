package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Projector supplies the camera matrices needed to turn a screen position into a world ray.
type Projector interface {
	// ViewProjection retrieves the combined projection * view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjection() mgl32.Mat4
}

// Ray is a half-line in world space. Direction is normalized for rays built by this package.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through m. The direction is not renormalized, so a parameter t
// names the same point before and after the transform.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	return Ray{
		Origin:    mgl32.TransformCoordinate(r.Origin, m),
		Direction: mgl32.TransformNormal(r.Direction, m),
	}
}

// RayFromCamera builds the world-space ray through a point in normalized device coordinates by
// unprojecting two depths of that pixel through the inverse view-projection matrix.
// The origin lies on the near plane and the direction points away from the camera.
//
// Parameters:
//   - ndcX, ndcY: the normalized device coordinates of the pointer
//   - proj: the camera matrices
//
// Returns:
//   - Ray: the pick ray
//   - bool: false if the view-projection matrix cannot be inverted
func RayFromCamera(ndcX, ndcY float32, proj Projector) (Ray, bool) {
	vp := proj.ViewProjection()
	if math32.Abs(vp.Det()) < 1e-12 {
		return Ray{}, false
	}
	inv := vp.Inv()

	near, ok := unproject(inv, mgl32.Vec4{ndcX, ndcY, 0, 1})
	if !ok {
		return Ray{}, false
	}
	far, ok := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	if !ok {
		return Ray{}, false
	}

	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) (mgl32.Vec3, bool) {
	w := inv.Mul4x1(p)
	if w.W() == 0 {
		return mgl32.Vec3{}, false
	}
	return w.Vec3().Mul(1 / w.W()), true
}
