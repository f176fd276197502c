package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	onUpdate  func()
	onResize  func(width, height int)
	onPointer func(ev input.Event)
	running   bool
	closed    int
	updates   int
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetPointerCallback(cb func(ev input.Event))   { w.onPointer = cb }
func (w *fakeWindow) CapturePointer(common.PointerButton) error    { return nil }
func (w *fakeWindow) ReleasePointer(common.PointerButton) error    { return nil }
func (w *fakeWindow) Captured() (common.PointerButton, bool)       { return 0, false }
func (w *fakeWindow) Bounds() picking.Viewport                     { return picking.Viewport{Width: 1280, Height: 720} }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return w.running }
func (w *fakeWindow) Width() int                                   { return 1280 }
func (w *fakeWindow) Height() int                                  { return 720 }

func (w *fakeWindow) Close() error {
	w.closed++
	w.running = false
	return nil
}

// ProcessMessages runs the update callback until the window stops or a safety limit is reached.
func (w *fakeWindow) ProcessMessages() {
	for w.running && w.updates < 100 {
		w.updates++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type fakeRenderer struct {
	frames  int
	resized [][2]int
	fail    bool
	views   []mgl32.Mat4
	lights  []mgl32.Vec3
	sources []light.Light
}

func (r *fakeRenderer) SetView(viewProj mgl32.Mat4, lightPosition mgl32.Vec3, l light.Light) {
	r.views = append(r.views, viewProj)
	r.lights = append(r.lights, lightPosition)
	r.sources = append(r.sources, l)
}

func (r *fakeRenderer) Resize(width, height int)            { r.resized = append(r.resized, [2]int{width, height}) }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) SetClearColor(common.Color)          {}
func (r *fakeRenderer) ClearColor() common.Color            { return common.Color{} }
func (r *fakeRenderer) InstanceSink() renderer.InstanceSink { return nil }
func (r *fakeRenderer) Release()                            {}

func (r *fakeRenderer) RenderFrame() error {
	r.frames++
	if r.fail {
		return errors.New("surface lost")
	}
	return nil
}

func newTestScene(name string) scene.Scene {
	return scene.NewScene(name, camera.NewCamera(), camera.NewRig())
}

func TestFrameTicksScenesAndRenders(t *testing.T) {
	r := &fakeRenderer{}
	back := newTestScene("back")
	e := NewEngine(WithRenderer(r), WithScene(0, back))

	var order []string
	e.SetTickCallback(func(float32) { order = append(order, "tick") })
	e.SetRenderCallback(func(float32) { order = append(order, "render") })

	back.Rig().SetVelocity(100)
	start := back.Rig().Position()
	e.Frame(0.5)

	assert.Equal(t, []string{"tick", "render"}, order)
	assert.Equal(t, 1, r.frames)
	assert.NotEqual(t, start, back.Rig().Position(), "active scene ticked")

	back.SetActive(false)
	moved := back.Rig().Position()
	e.Frame(0.5)
	assert.Equal(t, moved, back.Rig().Position(), "inactive scene is skipped")

	r.fail = true
	assert.NotPanics(t, func() { e.Frame(0.1) })
	assert.Equal(t, 3, r.frames)
}

func TestFrameUsesTopSceneView(t *testing.T) {
	r := &fakeRenderer{}
	lower := newTestScene("lower")
	spot := light.NewLight(light.LightTypeSpot)
	upper := scene.NewScene("upper",
		camera.NewCamera(camera.WithAspect(2)),
		camera.NewRig(
			camera.WithPosition(mgl32.Vec3{0, 50, 1000}),
			camera.WithLightOffset(mgl32.Vec3{0, 100, 0}),
			camera.WithLight(spot),
		),
	)
	e := NewEngine(WithRenderer(r), WithScene(0, lower), WithScene(1, upper))

	e.Frame(0.016)
	require.Len(t, r.views, 1)
	assert.Equal(t, upper.Camera().ViewProjection(), r.views[0])
	assert.Equal(t, upper.Rig().LightPosition(), r.lights[0])
	assert.Same(t, spot, r.sources[0])
	assert.Equal(t, upper.Rig().Target(), spot.Target(), "the spot is aimed at the look-target")

	upper.SetActive(false)
	lower.SetActive(false)
	e.Frame(0.016)
	assert.Len(t, r.views, 1, "no active scene, no view update")
	assert.Equal(t, 2, r.frames)
}

func TestPointerGoesToTopMostActiveScene(t *testing.T) {
	w := &fakeWindow{}
	lower := newTestScene("lower")
	upper := newTestScene("upper")
	NewEngine(WithWindow(w), WithScene(0, lower), WithScene(5, upper))
	require.NotNil(t, w.onPointer)

	w.onPointer(input.PointerDown{X: 100, Y: 100, Button: common.PointerButtonLeft})
	assert.True(t, upper.Rig().Dragging())
	assert.False(t, lower.Rig().Dragging())

	w.onPointer(input.PointerCancel{})
	upper.SetActive(false)
	w.onPointer(input.PointerDown{X: 100, Y: 100, Button: common.PointerButtonLeft})
	assert.True(t, lower.Rig().Dragging())
	assert.False(t, upper.Rig().Dragging())
}

func TestResizeUpdatesRendererAndAspect(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	s := newTestScene("main")
	NewEngine(WithWindow(w), WithRenderer(r), WithScene(0, s))

	w.onResize(1600, 800)
	w.onResize(0, 0)

	assert.Equal(t, [][2]int{{1600, 800}}, r.resized)
	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)
}

func TestRunAndQuit(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoWindow)

	w := &fakeWindow{running: true}
	r := &fakeRenderer{}
	e := NewEngine(WithWindow(w), WithRenderer(r))

	frames := 0
	e.SetTickCallback(func(float32) {
		frames++
		if frames == 3 {
			e.Quit()
		}
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 3, r.frames)
	assert.Equal(t, 1, w.closed)
}

func TestScenesReturnsCopy(t *testing.T) {
	e := NewEngine()
	s := newTestScene("main")
	e.AddScene(1, s)

	scenes := e.Scenes()
	delete(scenes, 1)
	assert.Same(t, s, e.Scene(1))

	e.RemoveScene(1)
	assert.Nil(t, e.Scene(1))
}
