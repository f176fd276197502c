package picking

import (
	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceHit is one instance of a renderable struck by a ray.
type InstanceHit struct {
	Index    int
	Distance float32
}

// Intersector tests a ray against every instance of one registry entry.
type Intersector interface {
	// Intersect reports the instances of entry struck by ray, in instance order.
	// Distance is measured in world units from the ray origin.
	//
	// Parameters:
	//   - ray: the world-space ray, with a normalized direction
	//   - entry: the registry entry to test
	//
	// Returns:
	//   - []InstanceHit: the struck instances, empty if none
	Intersect(ray Ray, entry instance.Entry) []InstanceHit
}

// GeometryIntersector intersects rays with the mesh geometry of mesh-capable entries.
// Each instance is tested in its local space: the ray is moved through the inverse instance
// transform, checked against the mesh bounds, then against every triangle.
// Entries without geometry are never hit.
type GeometryIntersector struct {
	// BoundsOnly skips the triangle pass and reports the bounding box distance.
	BoundsOnly bool
}

var _ Intersector = GeometryIntersector{}

func (g GeometryIntersector) Intersect(ray Ray, entry instance.Entry) []InstanceHit {
	mesh := entry.Mesh
	if mesh == nil || mesh.Bounds.IsEmpty() {
		return nil
	}

	var hits []InstanceHit
	for i, world := range entry.Transforms {
		m := world.Mul4(mesh.Transform)
		if math32.Abs(m.Det()) < 1e-12 {
			continue
		}
		local := ray.Transform(m.Inv())

		t, ok := IntersectAABB(local, mesh.Bounds)
		if !ok {
			continue
		}
		if !g.BoundsOnly && mesh.TriangleCount() > 0 {
			t, ok = intersectMesh(local, mesh)
			if !ok {
				continue
			}
		}
		hits = append(hits, InstanceHit{Index: i, Distance: t})
	}
	return hits
}

func intersectMesh(r Ray, mesh *model.ImportedMesh) (float32, bool) {
	best := float32(math32.Inf(1))
	found := false
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c, ok := mesh.Triangle(i)
		if !ok {
			continue
		}
		if t, hit := IntersectTriangle(r, a, b, c); hit && t < best {
			best = t
			found = true
		}
	}
	return best, found
}

// IntersectAABB tests a ray against an axis-aligned box with the slab method.
// If the ray starts inside the box the exit distance is returned.
//
// Parameters:
//   - r: the ray, direction need not be normalized
//   - box: the box to test
//
// Returns:
//   - float32: the ray parameter of the intersection
//   - bool: true if the box is struck in front of the origin
func IntersectAABB(r Ray, box common.AABB) (float32, bool) {
	tmin := float32(math32.Inf(-1))
	tmax := float32(math32.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle tests a ray against a triangle with the Moller-Trumbore algorithm.
// Both faces are hittable, and edges are inclusive within a small tolerance so a ray through a
// shared edge is not lost between two triangles.
//
// Parameters:
//   - r: the ray, direction need not be normalized
//   - a, b, c: the triangle corners
//
// Returns:
//   - float32: the ray parameter of the intersection
//   - bool: true if the triangle is struck in front of the origin
func IntersectTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	const (
		eps     = 1e-7
		edgeEps = 1e-5
	)

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < -edgeEps || u > 1+edgeEps {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < -edgeEps || u+v > 1+edgeEps {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
