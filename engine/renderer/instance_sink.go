package renderer

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceMatrixSize is the byte size of one packed instance transform (16 float32, column-major).
const InstanceMatrixSize = 64

// Batch is everything one instanced draw call needs for a renderable.
type Batch struct {
	ID            instance.ID
	Vertices      *wgpu.Buffer
	Indices       *wgpu.Buffer
	IndexCount    int
	Instances     *wgpu.Buffer
	InstanceCount int
}

// InstanceSink receives registry entries and mirrors their transforms into per-renderable GPU buffers.
// Renderables with a mesh also get their geometry uploaded once, so they can be drawn.
type InstanceSink interface {
	// Upload writes every transform of the entry into the renderable's instance buffer,
	// creating the buffer on first use and recreating it when the entry outgrows it.
	// The mesh geometry of the entry is uploaded on the first call for its ID.
	//
	// Parameters:
	//   - entry: the registry entry to upload
	//
	// Returns:
	//   - error: an error if buffer creation fails
	Upload(entry instance.Entry) error

	// Buffer returns the instance buffer of a renderable and the number of instances written into it.
	//
	// Parameters:
	//   - id: the renderable ID
	//
	// Returns:
	//   - *wgpu.Buffer: the instance buffer
	//   - int: the instance count of the last upload
	//   - bool: false if nothing was uploaded for id
	Buffer(id instance.ID) (*wgpu.Buffer, int, bool)

	// Batches returns the drawable renderables in ascending ID order: those with both geometry and
	// at least one instance.
	//
	// Returns:
	//   - []Batch: the draw batches
	Batches() []Batch

	// Drop releases the instance and geometry buffers of a single renderable.
	//
	// Parameters:
	//   - id: the renderable ID
	Drop(id instance.ID)

	// Release frees every buffer.
	Release()
}

type instanceBuffer struct {
	handle   *wgpu.Buffer
	capacity uint64
	count    int
}

type meshBuffers struct {
	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount int
}

// instanceSink is the implementation of the InstanceSink interface.
type instanceSink struct {
	mu       sync.Mutex
	device   BufferDevice
	logger   *slog.Logger
	buffers  map[instance.ID]*instanceBuffer
	geometry map[instance.ID]*meshBuffers
}

var _ InstanceSink = &instanceSink{}

// NewInstanceSink creates an InstanceSink over an arbitrary buffer device.
//
// Parameters:
//   - device: the device that allocates and writes GPU buffers
//   - logger: the logger for buffer (re)allocation traces, slog.Default() when nil
//
// Returns:
//   - InstanceSink: the sink
func NewInstanceSink(device BufferDevice, logger *slog.Logger) InstanceSink {
	return newInstanceSink(device, logger)
}

func newInstanceSink(device BufferDevice, logger *slog.Logger) *instanceSink {
	if device == nil {
		panic("renderer: buffer device must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &instanceSink{
		device:   device,
		logger:   logger,
		buffers:  make(map[instance.ID]*instanceBuffer),
		geometry: make(map[instance.ID]*meshBuffers),
	}
}

func (s *instanceSink) Upload(entry instance.Entry) error {
	if entry.Count() == 0 {
		return nil
	}

	data := common.SliceToBytes(entry.Transforms)
	size := uint64(len(data))
	label := fmt.Sprintf("renderable %d", entry.ID)
	if entry.Renderable != nil {
		label = entry.Renderable.Name()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Mesh != nil && s.geometry[entry.ID] == nil {
		if err := s.uploadMesh(entry.ID, label, entry.Mesh); err != nil {
			return err
		}
	}

	buf := s.buffers[entry.ID]
	if buf == nil || buf.capacity < size {
		handle, err := s.device.CreateBuffer(label+" instances", size, wgpu.BufferUsageVertex)
		if err != nil {
			return fmt.Errorf("failed to create instance buffer for renderable %d: %w", entry.ID, err)
		}
		if buf != nil {
			s.device.ReleaseBuffer(buf.handle)
		}
		buf = &instanceBuffer{handle: handle, capacity: size}
		s.buffers[entry.ID] = buf
		s.logger.Debug("instance buffer allocated", "renderable", entry.ID, "bytes", size)
	}

	s.device.WriteBuffer(buf.handle, 0, data)
	buf.count = entry.Count()
	return nil
}

// uploadMesh bakes the mesh transform into the positions so the shader only applies the instance transform.
func (s *instanceSink) uploadMesh(id instance.ID, label string, mesh *model.ImportedMesh) error {
	meshIndices := mesh.Indices
	if len(meshIndices) == 0 {
		// plain triangle list, same reading as ImportedMesh.Triangle
		meshIndices = make([]uint32, 3*mesh.TriangleCount())
		for i := range meshIndices {
			meshIndices[i] = uint32(i)
		}
	}
	if len(mesh.Positions) == 0 || len(meshIndices) == 0 {
		return nil
	}

	positions := make([]mgl32.Vec3, len(mesh.Positions))
	for i, p := range mesh.Positions {
		positions[i] = mgl32.TransformCoordinate(p, mesh.Transform)
	}
	vertexData := common.SliceToBytes(positions)
	indexData := common.SliceToBytes(meshIndices)

	vertices, err := s.device.CreateBuffer(label+" vertices", uint64(len(vertexData)), wgpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer for renderable %d: %w", id, err)
	}
	indices, err := s.device.CreateBuffer(label+" indices", uint64(len(indexData)), wgpu.BufferUsageIndex)
	if err != nil {
		s.device.ReleaseBuffer(vertices)
		return fmt.Errorf("failed to create index buffer for renderable %d: %w", id, err)
	}

	s.device.WriteBuffer(vertices, 0, vertexData)
	s.device.WriteBuffer(indices, 0, indexData)
	s.geometry[id] = &meshBuffers{vertices: vertices, indices: indices, indexCount: len(meshIndices)}
	s.logger.Debug("mesh uploaded", "renderable", id, "vertices", len(positions), "indices", len(meshIndices))
	return nil
}

func (s *instanceSink) Buffer(id instance.ID) (*wgpu.Buffer, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffers[id]
	if !ok {
		return nil, 0, false
	}
	return buf.handle, buf.count, true
}

func (s *instanceSink) Batches() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Batch, 0, len(s.geometry))
	for id, mesh := range s.geometry {
		buf := s.buffers[id]
		if buf == nil || buf.count == 0 {
			continue
		}
		out = append(out, Batch{
			ID:            id,
			Vertices:      mesh.vertices,
			Indices:       mesh.indices,
			IndexCount:    mesh.indexCount,
			Instances:     buf.handle,
			InstanceCount: buf.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *instanceSink) Drop(id instance.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drop(id)
}

func (s *instanceSink) drop(id instance.ID) {
	if buf, ok := s.buffers[id]; ok {
		s.device.ReleaseBuffer(buf.handle)
		delete(s.buffers, id)
	}
	if mesh, ok := s.geometry[id]; ok {
		s.device.ReleaseBuffer(mesh.vertices)
		s.device.ReleaseBuffer(mesh.indices)
		delete(s.geometry, id)
	}
}

func (s *instanceSink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.buffers {
		s.drop(id)
	}
	for id := range s.geometry {
		s.drop(id)
	}
}
