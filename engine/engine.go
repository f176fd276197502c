package engine

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/Carmen-Shannon/oxy-showroom/engine/profiler"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/scene"
	"github.com/Carmen-Shannon/oxy-showroom/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Everything runs on the window thread: event polling, ticking, and rendering.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	quit             bool
}

// Engine is the main entry point for the engine.
// It drives a single-threaded frame loop on top of the window's message loop: pointer events are delivered
// synchronously while messages are polled, then every active scene ticks and the renderer presents a frame
// seen through the camera of the top-most active scene.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer presenting frames, or nil.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each frame before the scenes tick.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after the frame was presented.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes tick in ascending key order; pointer events go to the active scene with the highest key.
	//
	// Parameters:
	//   - key: the z-index
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Frame runs one iteration of the loop without polling the window: tick callback, scene ticks,
	// render, render callback and profiler.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Frame(deltaTime float32)

	// Run runs the window message loop and blocks until the window closes or Quit is called.
	//
	// Returns:
	//   - error: ErrNoWindow if the engine has no window
	Run() error

	// Quit asks the loop to close the window at the end of the current iteration.
	// Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window's resize and pointer callbacks are taken over by the engine.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, frame cap)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes: make(map[int]scene.Scene),
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(time.Second, e.logger)

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
		e.window.SetPointerCallback(e.pointer)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.update)
	e.window.ProcessMessages()
	return nil
}

func (e *engine) Quit() {
	e.quit = true
}

// update is the window's per-iteration callback.
func (e *engine) update() {
	if e.quit {
		if err := e.window.Close(); err != nil {
			e.logger.Error("failed to close window", "error", err)
		}
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	e.Frame(dt)

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Frame(dt float32) {
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	active := e.activeScenes()
	for _, s := range active {
		s.Tick(dt)
	}

	if e.renderer != nil {
		if len(active) > 0 {
			e.pushView(active[len(active)-1])
		}
		if err := e.renderer.RenderFrame(); err != nil {
			e.logger.Debug("frame skipped", "error", err)
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

// pushView hands the scene's camera and rig light to the renderer.
func (e *engine) pushView(s scene.Scene) {
	c := s.Camera()
	if c == nil {
		return
	}

	lightPosition := c.Position()
	var l light.Light
	if rig := s.Rig(); rig != nil {
		lightPosition = rig.LightPosition()
		l = rig.Light()
	}
	e.renderer.SetView(c.ViewProjection(), lightPosition, l)
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// pointer routes a window pointer event to the top-most active scene.
func (e *engine) pointer(ev input.Event) {
	active := e.activeScenes()
	if len(active) == 0 {
		return
	}
	active[len(active)-1].Router().Handle(ev)
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		// minimised
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	for _, s := range e.scenes {
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
			c.Update()
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	out := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		out[k] = v
	}
	return out
}
