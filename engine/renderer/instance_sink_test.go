package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderable string

func (f fakeRenderable) Name() string { return string(f) }

type fakeDevice struct {
	created  []uint64
	labels   []string
	usages   []wgpu.BufferUsage
	released []*wgpu.Buffer
	writes   map[*wgpu.Buffer][]byte
	failNext bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{writes: make(map[*wgpu.Buffer][]byte)}
}

func (d *fakeDevice) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if d.failNext {
		d.failNext = false
		return nil, errors.New("out of memory")
	}
	d.created = append(d.created, size)
	d.labels = append(d.labels, label)
	d.usages = append(d.usages, usage)
	return &wgpu.Buffer{}, nil
}

func (d *fakeDevice) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	d.writes[buf] = append([]byte(nil), data...)
}

func (d *fakeDevice) ReleaseBuffer(buf *wgpu.Buffer) {
	d.released = append(d.released, buf)
}

func entryWith(id instance.ID, n int) instance.Entry {
	transforms := make([]mgl32.Mat4, n)
	for i := range transforms {
		transforms[i] = mgl32.Translate3D(float32(i)*270, 50, 0)
	}
	return instance.Entry{ID: id, Renderable: fakeRenderable("speaker"), Transforms: transforms}
}

func TestInstanceSinkUploadPacksMatrices(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	require.NoError(t, sink.Upload(entryWith(1, 6)))
	require.Equal(t, []uint64{6 * InstanceMatrixSize}, dev.created)
	assert.Equal(t, "speaker instances", dev.labels[0])

	buf, count, ok := sink.Buffer(1)
	require.True(t, ok)
	assert.Equal(t, 6, count)

	data := dev.writes[buf]
	require.Len(t, data, 6*InstanceMatrixSize)
	// column-major: translation x of instance 2 is element 12 of its matrix
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[2*InstanceMatrixSize+12*4:]))
	assert.Equal(t, float32(540), x)
}

func TestInstanceSinkReusesAndGrows(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	require.NoError(t, sink.Upload(entryWith(1, 6)))
	first, _, _ := sink.Buffer(1)

	require.NoError(t, sink.Upload(entryWith(1, 4)))
	same, count, _ := sink.Buffer(1)
	assert.Same(t, first, same)
	assert.Equal(t, 4, count)
	assert.Len(t, dev.created, 1)

	require.NoError(t, sink.Upload(entryWith(1, 10)))
	grown, count, _ := sink.Buffer(1)
	assert.NotSame(t, first, grown)
	assert.Equal(t, 10, count)
	assert.Equal(t, []uint64{6 * InstanceMatrixSize, 10 * InstanceMatrixSize}, dev.created)
	assert.Equal(t, []*wgpu.Buffer{first}, dev.released)
}

func TestInstanceSinkCreateFailureKeepsOldBuffer(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	require.NoError(t, sink.Upload(entryWith(3, 2)))
	old, _, _ := sink.Buffer(3)

	dev.failNext = true
	err := sink.Upload(entryWith(3, 8))
	require.Error(t, err)

	still, count, ok := sink.Buffer(3)
	assert.True(t, ok)
	assert.Same(t, old, still)
	assert.Equal(t, 2, count)
	assert.Empty(t, dev.released)
}

func TestInstanceSinkDropAndRelease(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	require.NoError(t, sink.Upload(entryWith(1, 1)))
	require.NoError(t, sink.Upload(entryWith(2, 1)))
	require.NoError(t, sink.Upload(instance.Entry{ID: 3}))

	sink.Drop(1)
	_, _, ok := sink.Buffer(1)
	assert.False(t, ok)
	_, _, ok = sink.Buffer(3)
	assert.False(t, ok, "empty entries allocate nothing")

	sink.Release()
	_, _, ok = sink.Buffer(2)
	assert.False(t, ok)
	assert.Len(t, dev.released, 2)
}

func meshEntry(id instance.ID, n int) instance.Entry {
	e := entryWith(id, n)
	mesh := model.NewBoxMesh("box", mgl32.Vec3{100, 200, 100})
	mesh.Transform = mgl32.Translate3D(0, 100, 0)
	e.Mesh = mesh
	return e
}

func TestInstanceSinkUploadsGeometryOnce(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	e := meshEntry(1, 6)
	require.NoError(t, sink.Upload(e))
	require.NoError(t, sink.Upload(e))

	require.Len(t, dev.created, 3, "vertices, indices and instances; the second upload reuses all three")
	assert.Equal(t, []string{"speaker vertices", "speaker indices", "speaker instances"}, dev.labels)
	assert.Equal(t, []wgpu.BufferUsage{wgpu.BufferUsageVertex, wgpu.BufferUsageIndex, wgpu.BufferUsageVertex}, dev.usages)
	assert.Equal(t, uint64(len(e.Mesh.Positions)*12), dev.created[0])
	assert.Equal(t, uint64(len(e.Mesh.Indices)*4), dev.created[1])

	batches := sink.Batches()
	require.Len(t, batches, 1)
	b := batches[0]
	assert.Equal(t, instance.ID(1), b.ID)
	assert.Equal(t, 6, b.InstanceCount)
	assert.Equal(t, len(e.Mesh.Indices), b.IndexCount)

	// the mesh transform is baked into the uploaded positions
	vertices := dev.writes[b.Vertices]
	y := math.Float32frombits(binary.LittleEndian.Uint32(vertices[4:]))
	assert.InDelta(t, e.Mesh.Positions[0].Y()+100, y, 1e-4)
}

func TestInstanceSinkBatchesSkipMeshlessEntries(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	require.NoError(t, sink.Upload(meshEntry(2, 1)))
	require.NoError(t, sink.Upload(entryWith(3, 4)))
	require.NoError(t, sink.Upload(meshEntry(1, 2)))

	batches := sink.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, instance.ID(1), batches[0].ID)
	assert.Equal(t, instance.ID(2), batches[1].ID)

	sink.Drop(1)
	assert.Len(t, dev.released, 3)
	require.Len(t, sink.Batches(), 1)

	sink.Release()
	assert.Empty(t, sink.Batches())
	assert.Len(t, dev.released, 7)
}

func TestInstanceSinkIndexBufferFailureReleasesVertices(t *testing.T) {
	dev := &failingIndexDevice{fakeDevice: newFakeDevice()}
	sink := NewInstanceSink(dev, nil)

	err := sink.Upload(meshEntry(1, 1))
	require.Error(t, err)
	assert.Len(t, dev.released, 1)
	assert.Empty(t, sink.Batches())
	_, _, ok := sink.Buffer(1)
	assert.False(t, ok)
}

type failingIndexDevice struct {
	*fakeDevice
}

func (d *failingIndexDevice) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if usage == wgpu.BufferUsageIndex {
		return nil, errors.New("out of memory")
	}
	return d.fakeDevice.CreateBuffer(label, size, usage)
}

func TestInstanceSinkNonIndexedMeshGetsSequentialIndices(t *testing.T) {
	dev := newFakeDevice()
	sink := NewInstanceSink(dev, nil)

	e := entryWith(1, 2)
	e.Mesh = &model.ImportedMesh{
		Name:      "tri",
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}, {5, 5, 5}},
		Transform: mgl32.Ident4(),
	}
	require.NoError(t, sink.Upload(e))

	batches := sink.Batches()
	require.Len(t, batches, 1, "a mesh without indices still draws")
	b := batches[0]
	assert.Equal(t, 3, b.IndexCount, "trailing vertices outside a full triangle are ignored")
	assert.Equal(t, 2, b.InstanceCount)

	indices := dev.writes[b.Indices]
	require.Len(t, indices, 3*4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, uint32(i), binary.LittleEndian.Uint32(indices[i*4:]))
	}
}
