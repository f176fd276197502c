package scene

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/selection"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = picking.Viewport{Width: 1280, Height: 720}

type overlayEvent struct {
	show bool
	key  selection.Key
	name string
}

type overlayLog struct {
	events []overlayEvent
}

func (o *overlayLog) Show(k selection.Key, obj game_object.GameObject) {
	o.events = append(o.events, overlayEvent{show: true, key: k, name: obj.Name()})
}

func (o *overlayLog) Hide(k selection.Key, obj game_object.GameObject) {
	o.events = append(o.events, overlayEvent{show: false, key: k, name: obj.Name()})
}

type sinkLog struct {
	uploads  []instance.Entry
	releases int
}

func (s *sinkLog) Upload(e instance.Entry) error {
	s.uploads = append(s.uploads, e)
	return nil
}

func (s *sinkLog) Buffer(instance.ID) (*wgpu.Buffer, int, bool) { return nil, 0, false }
func (s *sinkLog) Batches() []renderer.Batch                    { return nil }
func (s *sinkLog) Drop(instance.ID)                             {}
func (s *sinkLog) Release()                                     { s.releases++ }

type queuedLoader struct {
	queued []loader.Result
	nextID int
}

func (q *queuedLoader) Load(string) (model.Model, error) { return nil, errors.New("not used") }
func (q *queuedLoader) LoadReader(string, io.Reader, bool) (model.Model, error) {
	return nil, errors.New("not used")
}
func (q *queuedLoader) LoadAsync(string) int {
	q.nextID++
	return q.nextID
}
func (q *queuedLoader) Poll() []loader.Result {
	out := q.queued
	q.queued = nil
	return out
}
func (q *queuedLoader) Pending() int                   { return len(q.queued) }
func (q *queuedLoader) Get(string) model.Model         { return nil }
func (q *queuedLoader) Models() map[string]model.Model { return nil }

type bounds picking.Viewport

func (b bounds) Bounds() picking.Viewport { return picking.Viewport(b) }

func boxModel() model.Model {
	return model.NewModel(
		model.WithName("speaker"),
		model.WithMeshes(model.NewBoxMesh("cabinet", mgl32.Vec3{100, 100, 100})),
	)
}

type fixture struct {
	scene   Scene
	overlay *overlayLog
	sink    *sinkLog
	loader  *queuedLoader
}

func newFixture(t *testing.T, opts ...SceneBuilderOption) fixture {
	t.Helper()
	f := fixture{overlay: &overlayLog{}, sink: &sinkLog{}, loader: &queuedLoader{}}
	cam := camera.NewCamera(
		camera.WithAspect(viewport.Width/viewport.Height),
		camera.WithNear(1),
		camera.WithFar(10000),
	)
	rig := camera.NewRig()
	base := []SceneBuilderOption{
		WithOverlay(f.overlay),
		WithInstanceSink(f.sink),
		WithLoader(f.loader),
		WithSurfaceBounds(bounds(viewport)),
	}
	f.scene = NewScene("showroom", cam, rig, append(base, opts...)...)
	return f
}

// screenOf projects a world point into client coordinates of the test viewport.
func screenOf(s Scene, p mgl32.Vec3) (float32, float32) {
	clip := s.Camera().ViewProjection().Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return (ndc.X() + 1) / 2 * viewport.Width, (1 - ndc.Y()) / 2 * viewport.Height
}

func clickAt(s Scene, p mgl32.Vec3) {
	x, y := screenOf(s, p)
	s.Router().PointerDown(x, y, common.PointerButtonLeft)
	s.Router().PointerUp(x, y, common.PointerButtonLeft)
}

func TestPopulateLaysOutRow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))

	objs := f.scene.Objects()
	require.Len(t, objs, 1)
	id := objs[0].ID()
	assert.Same(t, objs[0], f.scene.Object(id))

	n, err := f.scene.Registry().Count(id)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	for i := 0; i < 6; i++ {
		m, err := f.scene.Registry().Transform(id, i)
		require.NoError(t, err)
		x := (float32(i) - 2.5) * 270
		assert.Equal(t, mgl32.Vec3{x, 50, 0}, common.Translation(m))
	}
}

func TestPopulateRejectsEmptyModel(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.scene.Populate(nil), ErrEmptyModel)
	assert.ErrorIs(t, f.scene.Populate(model.NewModel(model.WithName("empty"))), ErrEmptyModel)
	assert.Zero(t, f.scene.Registry().Len())
}

func TestClickSelectOffsetAndRestore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))
	id := f.scene.Objects()[0].ID()
	reg := f.scene.Registry()

	original3, err := reg.Original(id, 3)
	require.NoError(t, err)

	clickAt(f.scene, common.Translation(original3))

	require.Len(t, f.overlay.events, 1)
	assert.Equal(t, overlayEvent{show: true, key: selection.Key{Renderable: id, Index: 3}, name: "cabinet"}, f.overlay.events[0])
	assert.True(t, f.scene.Selector().IsSelected(selection.Key{Renderable: id, Index: 3}))

	moved, err := reg.Transform(id, 3)
	require.NoError(t, err)
	offset := common.Translation(moved).Sub(common.Translation(original3))
	assert.InDelta(t, 80, offset.Len(), 1e-3)

	// selecting a neighbour deselects and restores index 3 first
	original0, err := reg.Original(id, 0)
	require.NoError(t, err)
	clickAt(f.scene, common.Translation(original0))

	require.Len(t, f.overlay.events, 3)
	assert.Equal(t, overlayEvent{show: false, key: selection.Key{Renderable: id, Index: 3}, name: "cabinet"}, f.overlay.events[1])
	assert.Equal(t, overlayEvent{show: true, key: selection.Key{Renderable: id, Index: 0}, name: "cabinet"}, f.overlay.events[2])

	restored, err := reg.Transform(id, 3)
	require.NoError(t, err)
	assert.Equal(t, original3, restored)

	require.NoError(t, f.scene.CloseOverlay())
	assert.Empty(t, f.scene.Selector().Selected())
	restored0, err := reg.Transform(id, 0)
	require.NoError(t, err)
	assert.Equal(t, original0, restored0)
	assert.False(t, f.overlay.events[3].show)
}

func TestClickSamePointTogglesAndRestores(t *testing.T) {
	var logs bytes.Buffer
	f := newFixture(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, f.scene.Populate(boxModel()))
	id := f.scene.Objects()[0].ID()
	reg := f.scene.Registry()
	key := selection.Key{Renderable: id, Index: 3}

	original3, err := reg.Original(id, 3)
	require.NoError(t, err)
	x, y := screenOf(f.scene, common.Translation(original3))

	for round := 0; round < 5; round++ {
		f.scene.Router().PointerDown(x, y, common.PointerButtonLeft)
		f.scene.Router().PointerUp(x, y, common.PointerButtonLeft)
		require.True(t, f.scene.Selector().IsSelected(key), "round %d", round)

		f.scene.Router().PointerDown(x, y, common.PointerButtonLeft)
		f.scene.Router().PointerUp(x, y, common.PointerButtonLeft)
		require.Empty(t, f.scene.Selector().Selected(), "round %d", round)

		restored, err := reg.Transform(id, 3)
		require.NoError(t, err)
		require.Equal(t, original3, restored, "round %d", round)
	}

	require.Len(t, f.overlay.events, 10)
	assert.Equal(t, overlayEvent{show: true, key: key, name: "cabinet"}, f.overlay.events[0])
	assert.Equal(t, overlayEvent{show: false, key: key, name: "cabinet"}, f.overlay.events[1])
	assert.Equal(t, 5, strings.Count(logs.String(), `msg="instance selected"`), "one record per transition")
	assert.Equal(t, 5, strings.Count(logs.String(), `msg="instance deselected"`))
}

func TestClickOnEmptySpaceIsNoOp(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))

	f.scene.Router().PointerDown(5, 5, common.PointerButtonLeft)
	f.scene.Router().PointerUp(5, 5, common.PointerButtonLeft)

	assert.Empty(t, f.overlay.events)
	assert.Empty(t, f.scene.Selector().Selected())
}

func TestDragPansInsteadOfSelecting(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))
	id := f.scene.Objects()[0].ID()
	original3, _ := f.scene.Registry().Original(id, 3)

	x, y := screenOf(f.scene, common.Translation(original3))
	start := f.scene.Rig().Position()
	f.scene.Router().PointerDown(x, y, common.PointerButtonLeft)
	f.scene.Router().PointerMove(x+10, y)
	f.scene.Router().PointerUp(x+10, y, common.PointerButtonLeft)

	assert.Empty(t, f.overlay.events)
	assert.NotZero(t, f.scene.Rig().Velocity())

	f.scene.Tick(1.0 / 60)
	assert.NotEqual(t, start.X(), f.scene.Rig().Position().X())
	assert.Equal(t, start.Y(), f.scene.Rig().Position().Y())
	assert.Equal(t, f.scene.Rig().Position(), f.scene.Camera().Position())
}

func TestTickFlushesDirtyEntries(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))
	id := f.scene.Objects()[0].ID()

	f.scene.Tick(0)
	require.Len(t, f.sink.uploads, 1)
	assert.Equal(t, 6, f.sink.uploads[0].Count())

	f.scene.Tick(0)
	assert.Len(t, f.sink.uploads, 1, "clean registry uploads nothing")

	original, _ := f.scene.Registry().Original(id, 2)
	clickAt(f.scene, common.Translation(original))
	f.scene.Tick(0)
	assert.Len(t, f.sink.uploads, 2)
}

func TestTickAppliesLoadResults(t *testing.T) {
	f := newFixture(t)

	reqID, err := f.scene.LoadModel("speaker.glb")
	require.NoError(t, err)

	f.loader.queued = []loader.Result{{ID: reqID, Path: "speaker.glb", Model: boxModel()}}
	f.scene.Tick(0)
	require.NotNil(t, f.scene.Model())
	assert.Equal(t, 1, f.scene.Registry().Len())

	f.loader.queued = []loader.Result{{ID: reqID + 1, Path: "broken.glb", Err: loader.ErrUnsupportedExtension}}
	f.scene.Tick(0)
	assert.Nil(t, f.scene.Model())
	assert.Zero(t, f.scene.Registry().Len())
	assert.Positive(t, f.sink.releases)
}

func TestReloadClearsSelection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Populate(boxModel()))
	id := f.scene.Objects()[0].ID()
	original, _ := f.scene.Registry().Original(id, 1)
	clickAt(f.scene, common.Translation(original))
	require.Len(t, f.scene.Selector().Selected(), 1)

	require.NoError(t, f.scene.Populate(boxModel()))
	assert.Empty(t, f.scene.Selector().Selected())
	require.Len(t, f.overlay.events, 2)
	assert.False(t, f.overlay.events[1].show)
	assert.NotEqual(t, id, f.scene.Objects()[0].ID())
}

func TestLoadModelWithoutLoader(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene("bare", cam, camera.NewRig())
	_, err := s.LoadModel("x.glb")
	assert.ErrorIs(t, err, ErrNoLoader)
}
