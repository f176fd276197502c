package picking

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProjector struct {
	viewProj mgl32.Mat4
}

func (f fixedProjector) ViewProjection() mgl32.Mat4 { return f.viewProj }

func lookAt(eye, target mgl32.Vec3, aspect float32) fixedProjector {
	proj := common.Perspective(common.DegToRad(45), aspect, 1, 10000)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	return fixedProjector{viewProj: proj.Mul4(view)}
}

// toScreen projects a world point to client coordinates of vp.
func toScreen(p mgl32.Vec3, proj Projector, vp Viewport) (float32, float32) {
	clip := proj.ViewProjection().Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return vp.Left + (ndc.X()+1)/2*vp.Width, vp.Top + (1-ndc.Y())/2*vp.Height
}

type part struct {
	name string
	mesh *model.ImportedMesh
}

func (p part) Name() string              { return p.name }
func (p part) Mesh() *model.ImportedMesh { return p.mesh }

type label string

func (l label) Name() string { return string(l) }

// scriptedIntersector reports a fixed list of hits per renderable.
type scriptedIntersector map[instance.ID][]InstanceHit

func (s scriptedIntersector) Intersect(_ Ray, e instance.Entry) []InstanceHit {
	return s[e.ID]
}

func TestNormalizePointer(t *testing.T) {
	vp := Viewport{Left: 100, Top: 50, Width: 800, Height: 600}

	x, y, ok := NormalizePointer(500, 350, vp)
	require.True(t, ok)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, y, ok = NormalizePointer(100, 50, vp)
	require.True(t, ok)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	x, y, ok = NormalizePointer(900, 650, vp)
	require.True(t, ok)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	_, _, ok = NormalizePointer(10, 10, Viewport{Width: 0, Height: 600})
	assert.False(t, ok)
}

func TestRayFromCamera(t *testing.T) {
	proj := lookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 1)

	r, ok := RayFromCamera(0, 0, proj)
	require.True(t, ok)
	assert.InDelta(t, 0, r.Origin.X(), 1e-3)
	assert.InDelta(t, 0, r.Origin.Y(), 1e-3)
	assert.InDelta(t, 9, r.Origin.Z(), 1e-3)
	assert.InDelta(t, -1, r.Direction.Z(), 1e-4)
	assert.InDelta(t, 1, r.Direction.Len(), 1e-5)

	r, ok = RayFromCamera(1, 0, proj)
	require.True(t, ok)
	assert.Greater(t, r.Direction.X(), float32(0))

	_, ok = RayFromCamera(0, 0, fixedProjector{})
	assert.False(t, ok)
}

func TestIntersectAABB(t *testing.T) {
	box := common.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	d, ok := IntersectAABB(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, box)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	d, ok = IntersectAABB(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}}, box)
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-6)

	_, ok = IntersectAABB(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}, box)
	assert.False(t, ok)

	_, ok = IntersectAABB(Ray{Origin: mgl32.Vec3{3, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, box)
	assert.False(t, ok)
}

func TestIntersectTriangle(t *testing.T) {
	a, b, c := mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0}

	d, ok := IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-6)

	d, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, -3}, Direction: mgl32.Vec3{0, 0, 1}}, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-6)

	_, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{2, 2, 3}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	assert.False(t, ok)

	_, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{1, 0, 0}}, a, b, c)
	assert.False(t, ok)
}

func TestGeometryIntersectorUsesWorldDistance(t *testing.T) {
	box := model.NewBoxMesh("box", mgl32.Vec3{1, 1, 1})
	r := instance.NewRegistry()
	id, err := r.Register(part{"box", box}, []mgl32.Mat4{
		mgl32.Translate3D(0, 0, 0).Mul4(mgl32.Scale3D(10, 10, 10)),
		mgl32.Translate3D(100, 0, 0),
	})
	require.NoError(t, err)
	e, err := r.Entry(id)
	require.NoError(t, err)

	ray := Ray{Origin: mgl32.Vec3{0, 0, 20}, Direction: mgl32.Vec3{0, 0, -1}}
	for _, g := range []GeometryIntersector{{}, {BoundsOnly: true}} {
		hits := g.Intersect(ray, e)
		require.Len(t, hits, 1)
		assert.Equal(t, 0, hits[0].Index)
		assert.InDelta(t, 15, hits[0].Distance, 1e-4)
	}
}

func TestGeometryIntersectorSkipsMeshlessEntries(t *testing.T) {
	r := instance.NewRegistry()
	id, err := r.Register(label("marker"), []mgl32.Mat4{mgl32.Ident4()})
	require.NoError(t, err)
	e, err := r.Entry(id)
	require.NoError(t, err)

	hits := GeometryIntersector{}.Intersect(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, e)
	assert.Empty(t, hits)
}

func TestPickRayReturnsClosest(t *testing.T) {
	r := instance.NewRegistry()
	var ids []instance.ID
	for _, n := range []string{"a", "b", "c"} {
		id, err := r.Register(label(n), []mgl32.Mat4{mgl32.Ident4()})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	script := scriptedIntersector{
		ids[0]: {{Index: 0, Distance: 5}},
		ids[1]: {{Index: 0, Distance: 2}},
		ids[2]: {{Index: 0, Distance: 8}},
	}

	p := NewPicker(r, WithIntersector(script))
	hit, ok := p.PickRay(Ray{Direction: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.Equal(t, ids[1], hit.Renderable)
	assert.Equal(t, float32(2), hit.Distance)
}

func TestPickRayTieKeepsFirst(t *testing.T) {
	r := instance.NewRegistry()
	a, err := r.Register(label("a"), []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()})
	require.NoError(t, err)
	b, err := r.Register(label("b"), []mgl32.Mat4{mgl32.Ident4()})
	require.NoError(t, err)

	script := scriptedIntersector{
		a: {{Index: 1, Distance: 3}},
		b: {{Index: 0, Distance: 3}},
	}
	hit, ok := NewPicker(r, WithIntersector(script)).PickRay(Ray{})
	require.True(t, ok)
	assert.Equal(t, a, hit.Renderable)
	assert.Equal(t, 1, hit.Index)
}

func TestPickMisses(t *testing.T) {
	proj := lookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 1)
	vp := Viewport{Width: 100, Height: 100}

	empty := NewPicker(instance.NewRegistry())
	_, ok := empty.Pick(50, 50, vp, proj)
	assert.False(t, ok)

	r := instance.NewRegistry()
	_, err := r.Register(part{"box", model.NewBoxMesh("box", mgl32.Vec3{1, 1, 1})}, []mgl32.Mat4{mgl32.Ident4()})
	require.NoError(t, err)
	p := NewPicker(r)

	_, ok = p.Pick(0, 0, vp, proj)
	assert.False(t, ok)

	_, ok = p.Pick(50, 50, Viewport{}, proj)
	assert.False(t, ok)

	hit, ok := p.Pick(50, 50, vp, proj)
	require.True(t, ok)
	assert.InDelta(t, 8.5, hit.Distance, 1e-2)
	assert.InDelta(t, 0.5, hit.Point.Z(), 1e-2)
}

func TestPickRowOfInstances(t *testing.T) {
	const count, spacing = 6, 270
	box := model.NewBoxMesh("speaker", mgl32.Vec3{100, 160, 100})
	transforms := make([]mgl32.Mat4, count)
	for i := range transforms {
		x := (float32(i) - float32(count-1)/2) * spacing
		transforms[i] = mgl32.Translate3D(x, 50, 0)
	}

	r := instance.NewRegistry()
	id, err := r.Register(part{"speaker", box}, transforms)
	require.NoError(t, err)

	vp := Viewport{Width: 1280, Height: 720}
	proj := lookAt(mgl32.Vec3{0, 50, 1500}, mgl32.Vec3{0, 50, 0}, vp.Width/vp.Height)
	p := NewPicker(r)

	for i := 0; i < count; i++ {
		x, y := toScreen(common.Translation(transforms[i]), proj, vp)
		hit, ok := p.Pick(x, y, vp, proj)
		require.True(t, ok, "instance %d", i)
		assert.Equal(t, id, hit.Renderable)
		assert.Equal(t, i, hit.Index)
	}

	x, y := toScreen(mgl32.Vec3{135 + 135, 50, 0}, proj, vp)
	_, ok := p.Pick(x, y, vp, proj)
	assert.False(t, ok)
}
