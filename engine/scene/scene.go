package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/selection"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoLoader is returned by LoadModel when the scene was built without a loader.
	ErrNoLoader = errors.New("scene has no loader")

	// ErrEmptyModel is returned by Populate for a nil model or a model without meshes.
	ErrEmptyModel = errors.New("model has no meshes")
)

// Overlay presents details about the selected product. Show is called after a selection and Hide after the
// matching deselection.
type Overlay interface {
	Show(key selection.Key, obj game_object.GameObject)
	Hide(key selection.Key, obj game_object.GameObject)
}

// Scene is the showroom composition root. It owns the instance registry of the displayed product, the picker
// and selector over that registry, the camera rig with its camera, and the pointer router that ties host input
// to them. A loaded model is laid out as a row of identical copies; every mesh part of the model becomes one
// instanced GameObject.
// A Scene belongs to the frame thread and is not safe for concurrent use.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for ticking and rendering.
	Active() bool

	// SetActive sets whether this scene is active.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Rig returns the camera rig driving the camera.
	Rig() camera.Rig

	// Registry returns the instance registry of the displayed product.
	Registry() instance.Registry

	// Picker returns the picker over the registry.
	Picker() picking.Picker

	// Selector returns the selection state machine.
	Selector() selection.Selector

	// Router returns the pointer router the host feeds input events into.
	Router() input.Router

	// Model returns the model currently on display, or nil.
	Model() model.Model

	// Objects returns the GameObjects of the displayed model in registration order.
	//
	// Returns:
	//   - []game_object.GameObject: the parts of the model
	Objects() []game_object.GameObject

	// Object returns the GameObject registered under id, or nil.
	//
	// Parameters:
	//   - id: the registry ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Object(id instance.ID) game_object.GameObject

	// LoadModel starts an asynchronous load of a model file. The result is applied by a later Tick:
	// on success the model replaces the one on display, on failure the error is logged and the scene is left
	// with zero instances.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - int: the loader request ID
	//   - error: ErrNoLoader if the scene has no loader
	LoadModel(path string) (int, error)

	// Populate replaces the displayed model. Any selection is cleared and restored first, then every mesh of the
	// model is registered as one GameObject with one instance per slot. Slot i sits at
	// x = (i - (count-1)/2) * spacing, with the model recentred on its bounding box and lifted to the
	// configured height.
	//
	// Parameters:
	//   - mdl: the model to display
	//
	// Returns:
	//   - error: ErrEmptyModel, or a registry error
	Populate(mdl model.Model) error

	// Clear removes the displayed model, restoring and clearing any selection first.
	Clear()

	// CloseOverlay is the overlay's close action: it clears the selection, which hides the overlay.
	//
	// Returns:
	//   - error: an error if a restore failed
	CloseOverlay() error

	// Tick advances the scene by one frame: applies finished loads, integrates the rig, refreshes the camera
	// and uploads dirty instance transforms to the instance sink.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)
}

// scene is the implementation of the Scene interface.
type scene struct {
	name   string
	active bool
	logger *slog.Logger

	cam      camera.Camera
	rig      camera.Rig
	registry instance.Registry
	picker   picking.Picker
	selector selection.Selector
	router   input.Router

	loader   loader.Loader
	sink     renderer.InstanceSink
	overlay  Overlay
	bounds   input.SurfaceBounds
	capturer input.Capturer

	selectorOptions []selection.SelectorBuilderOption

	instanceCount int
	spacing       float32
	liftY         float32

	mdl     model.Model
	objects []game_object.GameObject
	byID    map[instance.ID]game_object.GameObject
}

var _ Scene = &scene{}

// NewScene creates a new showroom Scene. The rig is installed as the camera's controller.
// Panics if cam or rig is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - rig: the camera rig (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, rig camera.Rig, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if rig == nil {
		panic("scene: NewScene requires a non-nil Rig")
	}

	s := &scene{
		name:          name,
		active:        true,
		logger:        slog.Default(),
		cam:           cam,
		rig:           rig,
		instanceCount: 6,
		spacing:       270,
		liftY:         50,
		byID:          make(map[instance.ID]game_object.GameObject),
		bounds:        staticBounds{vp: picking.Viewport{Width: 1280, Height: 720}},
	}

	for _, option := range options {
		option(s)
	}

	cam.SetController(rig)
	cam.Update()

	if s.registry == nil {
		s.registry = instance.NewRegistry(instance.WithCapacity(8))
	}
	s.picker = picking.NewPicker(s.registry, picking.WithLogger(s.logger))

	selOpts := append([]selection.SelectorBuilderOption{
		selection.WithLogger(s.logger),
		selection.WithEye(cam.Position),
	}, s.selectorOptions...)
	s.selector = selection.NewSelector(s.registry, s.picker, selOpts...)
	s.selector.OnSelect(s.handleSelect)
	s.selector.OnDeselect(s.handleDeselect)

	routerOpts := []input.RouterBuilderOption{input.WithLogger(s.logger)}
	if s.capturer != nil {
		routerOpts = append(routerOpts, input.WithCapturer(s.capturer))
	}
	s.router = input.NewRouter(rig, s.selector, s.bounds, cam, routerOpts...)

	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Rig() camera.Rig {
	return s.rig
}

func (s *scene) Registry() instance.Registry {
	return s.registry
}

func (s *scene) Picker() picking.Picker {
	return s.picker
}

func (s *scene) Selector() selection.Selector {
	return s.selector
}

func (s *scene) Router() input.Router {
	return s.router
}

func (s *scene) Model() model.Model {
	return s.mdl
}

func (s *scene) Objects() []game_object.GameObject {
	return append([]game_object.GameObject(nil), s.objects...)
}

func (s *scene) Object(id instance.ID) game_object.GameObject {
	return s.byID[id]
}

func (s *scene) LoadModel(path string) (int, error) {
	if s.loader == nil {
		return 0, ErrNoLoader
	}
	id := s.loader.LoadAsync(path)
	s.logger.Info("model load queued", "path", path, "request", id)
	return id, nil
}

func (s *scene) Populate(mdl model.Model) error {
	s.Clear()

	if mdl == nil || mdl.MeshCount() == 0 {
		return ErrEmptyModel
	}

	center := mdl.Bounds().Center()
	placement := mgl32.Translate3D(0, s.liftY, 0).Mul4(mgl32.Translate3D(-center.X(), -center.Y(), -center.Z()))
	slots := s.slots()

	for _, mesh := range mdl.Meshes() {
		obj := game_object.NewGameObject(
			game_object.WithMesh(mesh),
			game_object.WithModel(mdl),
			game_object.WithPlacement(placement),
		)
		id, err := s.registry.RegisterN(obj, len(slots), obj.SlotTransforms(slots))
		if err != nil {
			s.Clear()
			return fmt.Errorf("populate %s: %w", mdl.Name(), err)
		}
		obj.SetID(id)
		s.objects = append(s.objects, obj)
		s.byID[id] = obj
	}

	s.mdl = mdl
	s.logger.Info("showroom populated", "model", mdl.Name(), "parts", len(s.objects), "instances", len(slots))
	return nil
}

// slots returns the slot origins of the row, centred on x = 0.
func (s *scene) slots() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, s.instanceCount)
	mid := float32(s.instanceCount-1) / 2
	for i := range out {
		out[i] = mgl32.Vec3{(float32(i) - mid) * s.spacing, 0, 0}
	}
	return out
}

func (s *scene) Clear() {
	if err := s.selector.Clear(); err != nil {
		s.logger.Error("failed to restore selection", "error", err)
	}
	s.registry.Clear()
	if s.sink != nil {
		s.sink.Release()
	}
	s.objects = nil
	s.byID = make(map[instance.ID]game_object.GameObject)
	s.mdl = nil
}

func (s *scene) CloseOverlay() error {
	return s.selector.Clear()
}

func (s *scene) Tick(deltaTime float32) {
	if !s.active {
		return
	}

	if s.loader != nil {
		for _, res := range s.loader.Poll() {
			s.applyLoad(res)
		}
	}

	s.rig.Tick(deltaTime)
	s.cam.Update()

	if s.sink != nil && s.registry.Dirty() {
		if err := s.registry.Flush(s.sink.Upload); err != nil {
			s.logger.Error("failed to upload instance transforms", "error", err)
		}
	}
}

func (s *scene) applyLoad(res loader.Result) {
	if res.Err != nil {
		s.logger.Error("model load failed", "path", res.Path, "error", res.Err)
		s.Clear()
		return
	}
	if err := s.Populate(res.Model); err != nil {
		s.logger.Error("failed to populate showroom", "path", res.Path, "error", err)
	}
}

func (s *scene) handleSelect(k selection.Key) {
	obj := s.byID[k.Renderable]
	if s.overlay != nil {
		s.overlay.Show(k, obj)
	}
}

func (s *scene) handleDeselect(k selection.Key) {
	obj := s.byID[k.Renderable]
	if s.overlay != nil {
		s.overlay.Hide(k, obj)
	}
}

// staticBounds is the fallback surface when the host does not supply one.
type staticBounds struct {
	vp picking.Viewport
}

func (b staticBounds) Bounds() picking.Viewport {
	return b.vp
}
