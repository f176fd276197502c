package instance

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidInstanceCount     = errors.New("instance count must be greater than zero and match the transform list")
	ErrIndexOutOfRange          = errors.New("instance index out of range")
	ErrOriginalTransformMissing = errors.New("original transform missing for instance")
	ErrUnknownRenderable        = errors.New("renderable is not registered")
)

// ID identifies a registered renderable. IDs are assigned in registration order starting at 1
// and are never reused by the same Registry.
type ID uint64

// Renderable is anything that can be drawn many times with per-instance transforms.
type Renderable interface {
	// Name retrieves a human readable identifier for logs.
	//
	// Returns:
	//   - string: the renderable name
	Name() string
}

// MeshRenderable is a Renderable that exposes pickable geometry.
// Registration classifies each renderable once; renderables without geometry are never hit.
type MeshRenderable interface {
	Renderable

	// Mesh retrieves the local-space geometry shared by every instance.
	//
	// Returns:
	//   - *model.ImportedMesh: the mesh geometry
	Mesh() *model.ImportedMesh
}

// Entry is a read-only view of one registered renderable.
// Transforms and Originals are copies; mutating them does not affect the Registry.
type Entry struct {
	ID         ID
	Renderable Renderable
	Mesh       *model.ImportedMesh
	Transforms []mgl32.Mat4
	Originals  []mgl32.Mat4
	Dirty      bool
}

// Count reports the number of instances of the entry.
func (e Entry) Count() int {
	return len(e.Transforms)
}

// record is the registry-owned storage for one renderable.
type record struct {
	id         ID
	renderable Renderable
	mesh       *model.ImportedMesh
	transforms []mgl32.Mat4
	originals  []mgl32.Mat4
	dirty      bool
}

// registry is the implementation of the Registry interface.
type registry struct {
	records []*record
	index   map[ID]int
	nextID  ID
}

// Registry stores every instanced renderable with its current per-instance transforms and an
// immutable snapshot of the transforms it was registered with.
// Enumeration order is registration order and is the order picking resolves ties in.
// A Registry is not safe for concurrent use; it belongs to the frame thread.
type Registry interface {
	// Register adds a renderable with one instance per transform.
	// The transforms are copied into both the current and the original slots, and the new entry is marked dirty.
	//
	// Parameters:
	//   - r: the renderable to register
	//   - transforms: the initial per-instance transforms, at least one
	//
	// Returns:
	//   - ID: the identifier of the new entry
	//   - error: ErrInvalidInstanceCount if transforms is empty
	Register(r Renderable, transforms []mgl32.Mat4) (ID, error)

	// RegisterN adds a renderable with an explicit instance count that must match the transform list.
	//
	// Parameters:
	//   - r: the renderable to register
	//   - n: the expected number of instances
	//   - transforms: the initial per-instance transforms
	//
	// Returns:
	//   - ID: the identifier of the new entry
	//   - error: ErrInvalidInstanceCount if n <= 0 or len(transforms) != n
	RegisterN(r Renderable, n int, transforms []mgl32.Mat4) (ID, error)

	// Len retrieves the number of registered renderables.
	//
	// Returns:
	//   - int: the renderable count
	Len() int

	// Entries retrieves a snapshot of every entry in registration order.
	//
	// Returns:
	//   - []Entry: the entries
	Entries() []Entry

	// Entry retrieves a snapshot of a single entry.
	//
	// Parameters:
	//   - id: the renderable identifier
	//
	// Returns:
	//   - Entry: the entry snapshot
	//   - error: ErrUnknownRenderable if id is not registered
	Entry(id ID) (Entry, error)

	// Count retrieves the number of instances of a renderable.
	//
	// Parameters:
	//   - id: the renderable identifier
	//
	// Returns:
	//   - int: the instance count
	//   - error: ErrUnknownRenderable if id is not registered
	Count(id ID) (int, error)

	// Transform retrieves the current transform of one instance.
	//
	// Parameters:
	//   - id: the renderable identifier
	//   - index: the instance index
	//
	// Returns:
	//   - mgl32.Mat4: the current transform
	//   - error: ErrUnknownRenderable or ErrIndexOutOfRange
	Transform(id ID, index int) (mgl32.Mat4, error)

	// SetTransform overwrites the current transform of one instance and marks the entry dirty.
	//
	// Parameters:
	//   - id: the renderable identifier
	//   - index: the instance index
	//   - m: the new transform
	//
	// Returns:
	//   - error: ErrUnknownRenderable or ErrIndexOutOfRange
	SetTransform(id ID, index int, m mgl32.Mat4) error

	// Original retrieves the transform an instance was registered with.
	//
	// Parameters:
	//   - id: the renderable identifier
	//   - index: the instance index
	//
	// Returns:
	//   - mgl32.Mat4: the original transform
	//   - error: ErrUnknownRenderable, ErrIndexOutOfRange or ErrOriginalTransformMissing
	Original(id ID, index int) (mgl32.Mat4, error)

	// Dirty reports whether any entry has transforms that have not been flushed.
	//
	// Returns:
	//   - bool: true if a flush would visit at least one entry
	Dirty() bool

	// Flush calls fn for every dirty entry in registration order and clears the dirty flag of each entry fn accepts.
	// The first error stops the flush; the failing entry and the ones after it stay dirty.
	//
	// Parameters:
	//   - fn: the consumer of dirty entries, typically a GPU uploader
	//
	// Returns:
	//   - error: the first error returned by fn
	Flush(fn func(Entry) error) error

	// Clear removes every entry. IDs issued before the call are not reused.
	Clear()
}

var _ Registry = &registry{}

// NewRegistry creates a new empty Registry with the provided options.
//
// Parameters:
//   - options: variadic list of RegistryBuilderOption functions to configure the Registry
//
// Returns:
//   - Registry: the newly created Registry instance
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		index: make(map[ID]int),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Register(rend Renderable, transforms []mgl32.Mat4) (ID, error) {
	return r.RegisterN(rend, len(transforms), transforms)
}

func (r *registry) RegisterN(rend Renderable, n int, transforms []mgl32.Mat4) (ID, error) {
	if n <= 0 || len(transforms) != n {
		return 0, fmt.Errorf("register %q with %d instances and %d transforms: %w", nameOf(rend), n, len(transforms), ErrInvalidInstanceCount)
	}

	r.nextID++
	rec := &record{
		id:         r.nextID,
		renderable: rend,
		transforms: append([]mgl32.Mat4(nil), transforms...),
		originals:  append([]mgl32.Mat4(nil), transforms...),
		dirty:      true,
	}
	if mr, ok := rend.(MeshRenderable); ok {
		rec.mesh = mr.Mesh()
	}

	r.index[rec.id] = len(r.records)
	r.records = append(r.records, rec)
	return rec.id, nil
}

func (r *registry) Len() int {
	return len(r.records)
}

func (r *registry) Entries() []Entry {
	out := make([]Entry, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.entry()
	}
	return out
}

func (r *registry) Entry(id ID) (Entry, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return Entry{}, err
	}
	return rec.entry(), nil
}

func (r *registry) Count(id ID) (int, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return len(rec.transforms), nil
}

func (r *registry) Transform(id ID, index int) (mgl32.Mat4, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	if index < 0 || index >= len(rec.transforms) {
		return mgl32.Mat4{}, fmt.Errorf("transform %d of renderable %d (count %d): %w", index, id, len(rec.transforms), ErrIndexOutOfRange)
	}
	return rec.transforms[index], nil
}

func (r *registry) SetTransform(id ID, index int, m mgl32.Mat4) error {
	rec, err := r.lookup(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(rec.transforms) {
		return fmt.Errorf("set transform %d of renderable %d (count %d): %w", index, id, len(rec.transforms), ErrIndexOutOfRange)
	}
	rec.transforms[index] = m
	rec.dirty = true
	return nil
}

func (r *registry) Original(id ID, index int) (mgl32.Mat4, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	if index < 0 || index >= len(rec.transforms) {
		return mgl32.Mat4{}, fmt.Errorf("original %d of renderable %d (count %d): %w", index, id, len(rec.transforms), ErrIndexOutOfRange)
	}
	if index >= len(rec.originals) {
		return mgl32.Mat4{}, fmt.Errorf("original %d of renderable %d: %w", index, id, ErrOriginalTransformMissing)
	}
	return rec.originals[index], nil
}

func (r *registry) Dirty() bool {
	for _, rec := range r.records {
		if rec.dirty {
			return true
		}
	}
	return false
}

func (r *registry) Flush(fn func(Entry) error) error {
	for _, rec := range r.records {
		if !rec.dirty {
			continue
		}
		if err := fn(rec.entry()); err != nil {
			return fmt.Errorf("flush renderable %d: %w", rec.id, err)
		}
		rec.dirty = false
	}
	return nil
}

func (r *registry) Clear() {
	r.records = nil
	r.index = make(map[ID]int)
}

func (r *registry) lookup(id ID) (*record, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("renderable %d: %w", id, ErrUnknownRenderable)
	}
	return r.records[i], nil
}

func (rec *record) entry() Entry {
	return Entry{
		ID:         rec.id,
		Renderable: rec.renderable,
		Mesh:       rec.mesh,
		Transforms: append([]mgl32.Mat4(nil), rec.transforms...),
		Originals:  append([]mgl32.Mat4(nil), rec.originals...),
		Dirty:      rec.dirty,
	}
}

func nameOf(r Renderable) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name()
}
