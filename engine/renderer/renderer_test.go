package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	*fakeDevice

	configured [][2]int
	clear      common.Color
	pipelines  []pipeline.Pipeline
	groups     []bind_group_provider.BindGroupProvider
	uniforms   [][]byte
	draws      []Batch
	frames     int
	beginErr   error
	released   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fakeDevice: newFakeDevice()}
}

func (b *fakeBackend) ConfigureSurface(width, height int) {
	b.configured = append(b.configured, [2]int{width, height})
}

func (b *fakeBackend) SetPresentMode(PresentMode)       {}
func (b *fakeBackend) SetClearColor(color common.Color) { b.clear = color }
func (b *fakeBackend) EndFrame()                        {}
func (b *fakeBackend) Present()                         { b.frames++ }
func (b *fakeBackend) Release()                         { b.released = true }

func (b *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider) error {
	b.groups = append(b.groups, provider)
	return nil
}

func (b *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, groups ...bind_group_provider.BindGroupProvider) error {
	b.pipelines = append(b.pipelines, p)
	return nil
}

func (b *fakeBackend) WriteBindGroup(writes ...bind_group_provider.BufferWrite) {
	for _, w := range writes {
		b.uniforms = append(b.uniforms, w.Data)
	}
}

func (b *fakeBackend) BeginFrame() error {
	return b.beginErr
}

func (b *fakeBackend) DrawCall(p pipeline.Pipeline, batch Batch, groups ...bind_group_provider.BindGroupProvider) {
	b.draws = append(b.draws, batch)
}

func newTestRenderer(t *testing.T, b *fakeBackend, opts ...RendererBuilderOption) *renderer {
	t.Helper()
	r := newRenderer(BackendTypeWGPU, opts...)
	r.backend = b
	require.NoError(t, r.init(1280, 720))
	return r
}

func uniformFloat(data []byte, index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[index*4:]))
}

func TestRendererInitBuildsMeshPass(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b, WithClearColor(common.ColorFromHex(0x202020)))

	assert.Equal(t, [][2]int{{1280, 720}}, b.configured)
	assert.Equal(t, common.ColorFromHex(0x202020), b.clear)
	require.Len(t, b.pipelines, 1)
	require.Len(t, b.groups, 1)

	p := b.pipelines[0]
	assert.Equal(t, "showroom mesh", p.PipelineKey())
	require.NotNil(t, p.Shader(shader.ShaderTypeVertex))
	assert.Len(t, p.Shader(shader.ShaderTypeVertex).VertexLayouts(), 2)
	assert.Equal(t, uint64(shader.SceneUniformSize), b.groups[0].LayoutDescriptor().Entries[0].Buffer.MinBindingSize)
	assert.Same(t, r.sink, r.InstanceSink())
}

func TestRenderFrameDrawsEveryBatch(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b, WithModelColor(common.Color{R: 1, G: 0, B: 0, A: 1}))

	require.NoError(t, r.InstanceSink().Upload(meshEntry(1, 6)))
	require.NoError(t, r.InstanceSink().Upload(entryWith(2, 3)))

	r.SetView(mgl32.Translate3D(5, 0, 0), mgl32.Vec3{10, 20, 30}, light.NewLight(light.LightTypePoint, light.WithIntensity(0.5)))
	require.NoError(t, r.RenderFrame())

	require.Len(t, b.draws, 1, "meshless renderables are not drawn")
	assert.Equal(t, 6, b.draws[0].InstanceCount)
	assert.Equal(t, 1, b.frames)

	require.Len(t, b.uniforms, 1)
	data := b.uniforms[0]
	require.Len(t, data, shader.SceneUniformSize)
	assert.Equal(t, float32(5), uniformFloat(data, 12))
	assert.Equal(t, float32(20), uniformFloat(data, 17))
	assert.Equal(t, float32(0.5), uniformFloat(data, 20))
	assert.Equal(t, float32(1), uniformFloat(data, 24), "base colour red")
	assert.Equal(t, float32(0), uniformFloat(data, 25))
}

func TestSetViewCarriesSpotCone(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)

	spot := light.NewLight(light.LightTypeSpot,
		light.WithPosition(mgl32.Vec3{50, 100, 1500}),
		light.WithColor(mgl32.Vec3{1, 1, 1}),
		light.WithIntensity(3),
		light.WithSpotCone(50, 60),
		light.WithRange(2000),
	)
	spot.PointAt(mgl32.Vec3{50, 100, 1400})
	r.SetView(mgl32.Ident4(), spot.Position(), spot)
	require.NoError(t, r.RenderFrame())

	data := b.uniforms[0]
	assert.Equal(t, float32(3), uniformFloat(data, 20), "colour is pre-multiplied by intensity")
	assert.InDelta(t, -1, uniformFloat(data, 30), 1e-6, "cone axis follows PointAt")
	assert.Equal(t, float32(2000), uniformFloat(data, 31))
	assert.InDelta(t, math.Cos(50*math.Pi/180), uniformFloat(data, 32), 1e-5)
	assert.InDelta(t, math.Cos(60*math.Pi/180), uniformFloat(data, 33), 1e-5)
	assert.Equal(t, shader.LightKindSpot, uniformFloat(data, 34))
}

func TestSetViewLightFallbacks(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)

	r.SetView(mgl32.Ident4(), mgl32.Vec3{1, 2, 3}, nil)
	require.NoError(t, r.RenderFrame())
	data := b.uniforms[0]
	assert.Equal(t, float32(1), uniformFloat(data, 20), "no light shades white")
	assert.Equal(t, shader.LightKindPoint, uniformFloat(data, 34))
	assert.Zero(t, uniformFloat(data, 31), "unbounded")

	hard := light.NewLight(light.LightTypeSpot, light.WithSpotCone(40, 40), light.WithEnabled(false))
	r.SetView(mgl32.Ident4(), mgl32.Vec3{1, 2, 3}, hard)
	require.NoError(t, r.RenderFrame())
	data = b.uniforms[1]
	assert.Zero(t, uniformFloat(data, 20), "a disabled light adds nothing")
	assert.Greater(t, uniformFloat(data, 32), uniformFloat(data, 33), "cone edges stay distinct")
}

func TestRenderFrameSkipsOnSurfaceError(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)
	require.NoError(t, r.InstanceSink().Upload(meshEntry(1, 1)))

	b.beginErr = errors.New("surface lost")
	assert.ErrorContains(t, r.RenderFrame(), "surface lost")
	assert.Empty(t, b.draws)
	assert.Zero(t, b.frames)
}

func TestRendererSettersAndRelease(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)

	r.SetClearColor(common.ColorFromHex(0x101010))
	assert.Equal(t, common.ColorFromHex(0x101010), r.ClearColor())
	assert.Equal(t, common.ColorFromHex(0x101010), b.clear)

	r.Resize(800, 600)
	assert.Equal(t, [2]int{800, 600}, b.configured[len(b.configured)-1])

	require.NoError(t, r.InstanceSink().Upload(meshEntry(1, 1)))
	r.Release()
	assert.True(t, b.released)
	assert.Len(t, b.fakeDevice.released, 3)
}
