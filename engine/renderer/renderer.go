package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Surface is the window-side collaborator the Renderer draws into.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	logger *slog.Logger

	backendType RendererBackendType
	backend     frameBackend

	sink *instanceSink

	meshPipeline pipeline.Pipeline
	sceneGroup   bind_group_provider.BindGroupProvider
	uniform      shader.SceneUniform

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           common.Color
	modelColor           common.Color
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device and the presentation surface. Each frame it clears the surface to the
// background colour and draws every renderable of its InstanceSink once per instance, lit by a single
// point light. The sink mirrors the per-instance transforms of the instance registry into GPU vertex buffers.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background colour the frame is cleared to.
	//
	// Parameters:
	//   - color: the clear colour
	SetClearColor(color common.Color)

	// ClearColor returns the current background colour.
	//
	// Returns:
	//   - common.Color: the clear colour
	ClearColor() common.Color

	// SetView sets the camera and light used by the next frames.
	// A nil light shades with an unbounded white point light at lightPosition; a disabled light leaves
	// only the ambient term.
	//
	// Parameters:
	//   - viewProj: the camera view-projection matrix
	//   - lightPosition: the world position of the light
	//   - l: the light whose kind, colour, intensity, direction, cone and range shade the meshes
	SetView(viewProj mgl32.Mat4, lightPosition mgl32.Vec3, l light.Light)

	// InstanceSink returns the sink that uploads registry transforms into GPU instance buffers.
	// The same sink is returned on every call.
	//
	// Returns:
	//   - InstanceSink: the GPU instance sink
	InstanceSink() InstanceSink

	// RenderFrame acquires the swapchain texture, records the clear pass with one instanced draw per
	// renderable, submits it and presents.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	RenderFrame() error

	// Release frees the instance buffers and every GPU object owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface.
// The surface is typically the application window, which provides a platform surface descriptor.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the surface to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	if surface == nil {
		panic("renderer: surface must not be nil")
	}

	r := newRenderer(backendType, options...)

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
		}
		r.backend = b
	}

	if err := r.init(surface.Width(), surface.Height()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// newRenderer applies the options to a renderer without a backend.
// Options run first so config flags (e.g. forceFallbackAdapter) are available before the backend
// requests a GPU adapter.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      slog.Default(),
		backendType: backendType,
		presentMode: PresentModeVSync,
		clearColor:  common.ColorFromHex(0x8c8c8c),
		modelColor:  common.ColorFromHex(0xd9d9d9),
		uniform: shader.SceneUniform{
			ViewProj:    mgl32.Ident4(),
			LightColor:  [4]float32{1, 1, 1, 1},
			LightParams: [4]float32{1, 1, shader.LightKindPoint, 0},
		},
	}
	for _, opt := range options {
		opt(r)
	}
	r.uniform.BaseColor = [4]float32{r.modelColor.R, r.modelColor.G, r.modelColor.B, r.modelColor.A}
	return r
}

// init configures the surface and builds the instanced mesh pass on the backend.
func (r *renderer) init(width, height int) error {
	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(width, height)
	r.sink = newInstanceSink(r.backend, r.logger)

	vs, err := shader.NewShader("showroom vertex", shader.ShaderTypeVertex, shader.ShowroomSource)
	if err != nil {
		return err
	}
	fs, err := shader.NewShader("showroom fragment", shader.ShaderTypeFragment, shader.ShowroomSource)
	if err != nil {
		return err
	}

	r.sceneGroup = bind_group_provider.NewBindGroupProvider("scene uniform",
		bind_group_provider.WithUniform(0, shader.SceneUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
	)
	if err := r.backend.InitBindGroup(r.sceneGroup); err != nil {
		return fmt.Errorf("failed to create scene bind group: %w", err)
	}

	r.meshPipeline = pipeline.NewPipeline("showroom mesh",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err := r.backend.RegisterRenderPipeline(r.meshPipeline, r.sceneGroup); err != nil {
		return fmt.Errorf("failed to create mesh pipeline: %w", err)
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	r.presentMode = mode
	r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color common.Color) {
	r.mu.Lock()
	r.clearColor = color
	r.mu.Unlock()
	r.backend.SetClearColor(color)
}

func (r *renderer) ClearColor() common.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetView(viewProj mgl32.Mat4, lightPosition mgl32.Vec3, l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.uniform.ViewProj = viewProj
	r.uniform.LightPosition = [4]float32{lightPosition.X(), lightPosition.Y(), lightPosition.Z(), 1}
	if l == nil {
		r.uniform.LightColor = [4]float32{1, 1, 1, 1}
		r.uniform.LightDirection = [4]float32{}
		r.uniform.LightParams = [4]float32{1, 1, shader.LightKindPoint, 0}
		return
	}

	var c mgl32.Vec3
	if l.Enabled() {
		c = l.Color().Mul(l.Intensity())
	}
	d := l.Direction()
	inner, outer := l.InnerCone(), l.OuterCone()
	if inner <= outer {
		// hard edge; smoothstep edges must differ
		inner = outer + 1e-4
	}
	r.uniform.LightColor = [4]float32{c.X(), c.Y(), c.Z(), 1}
	r.uniform.LightDirection = [4]float32{d.X(), d.Y(), d.Z(), l.Range()}
	r.uniform.LightParams = [4]float32{inner, outer, lightKind(l.Type()), 0}
}

// lightKind maps a light type to the kind constant the showroom program switches on.
func lightKind(t light.LightType) float32 {
	switch t {
	case light.LightTypeSpot:
		return shader.LightKindSpot
	case light.LightTypeDirectional:
		return shader.LightKindDirectional
	case light.LightTypeAmbient:
		return shader.LightKindAmbient
	default:
		return shader.LightKindPoint
	}
}

func (r *renderer) InstanceSink() InstanceSink {
	return r.sink
}

func (r *renderer) RenderFrame() error {
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}

	r.mu.Lock()
	data := r.uniform.Marshal()
	r.mu.Unlock()
	r.backend.WriteBindGroup(bind_group_provider.BufferWrite{Provider: r.sceneGroup, Binding: 0, Data: data})

	for _, batch := range r.sink.Batches() {
		r.backend.DrawCall(r.meshPipeline, batch, r.sceneGroup)
	}

	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

func (r *renderer) Release() {
	r.sink.Release()
	if r.meshPipeline != nil {
		r.meshPipeline.Release()
	}
	if r.sceneGroup != nil {
		r.sceneGroup.Release()
	}
	r.backend.Release()
}
