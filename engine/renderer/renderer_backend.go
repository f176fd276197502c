package renderer

import (
	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BufferDevice is the slice of the GPU backend an InstanceSink needs: creating, writing and
// releasing per-renderable vertex, index and instance buffers.
type BufferDevice interface {
	// CreateBuffer allocates a GPU buffer with the given usage. CopyDst is always added.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage, e.g. wgpu.BufferUsageVertex or wgpu.BufferUsageIndex
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: error if allocation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// WriteBuffer queues a write of data into buf at the given byte offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: byte offset into the buffer
	//   - data: the bytes to write
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// ReleaseBuffer frees a buffer created by CreateBuffer.
	//
	// Parameters:
	//   - buf: the buffer to release
	ReleaseBuffer(buf *wgpu.Buffer)
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// frameBackend is the frame lifecycle shared by every backend.
type frameBackend interface {
	BufferDevice
	ConfigureSurface(width, height int)
	SetPresentMode(mode PresentMode)
	SetClearColor(color common.Color)
	InitBindGroup(provider bind_group_provider.BindGroupProvider) error
	RegisterRenderPipeline(p pipeline.Pipeline, groups ...bind_group_provider.BindGroupProvider) error
	WriteBindGroup(writes ...bind_group_provider.BufferWrite)
	BeginFrame() error
	DrawCall(p pipeline.Pipeline, batch Batch, groups ...bind_group_provider.BindGroupProvider)
	EndFrame()
	Present()
	Release()
}
