package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrPointerCaptured is returned by CapturePointer when another button already holds the capture.
	ErrPointerCaptured = errors.New("pointer already captured")

	// ErrPointerNotCaptured is returned by ReleasePointer when the button does not hold the capture.
	ErrPointerNotCaptured = errors.New("pointer not captured")
)

// Window provides platform windowing and pointer event delivery.
// Wraps platform-specific window implementations with a common interface.
// A Window doubles as the input.Capturer and input.SurfaceBounds of the pointer router.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetPointerCallback sets the function receiving pointer events. Coordinates are framebuffer pixels
	// relative to the top-left corner of the client area. Losing focus delivers input.PointerCancel.
	//
	// Parameters:
	//   - callback: function receiving input.PointerDown, input.PointerMove, input.PointerUp or input.PointerCancel
	SetPointerCallback(callback func(ev input.Event))

	// CapturePointer records that button owns the pointer until ReleasePointer. GLFW keeps reporting
	// cursor motion outside the client area while a button is held, so capture is tracked rather than grabbed.
	//
	// Parameters:
	//   - button: the capturing button
	//
	// Returns:
	//   - error: ErrPointerCaptured if a different button holds the capture
	CapturePointer(button common.PointerButton) error

	// ReleasePointer ends a capture started by CapturePointer.
	//
	// Parameters:
	//   - button: the button that captured the pointer
	//
	// Returns:
	//   - error: ErrPointerNotCaptured if button does not hold the capture
	ReleasePointer(button common.PointerButton) error

	// Captured reports the button currently holding the pointer capture.
	//
	// Returns:
	//   - common.PointerButton: the capturing button
	//   - bool: false if nothing is captured
	Captured() (common.PointerButton, bool)

	// Bounds returns the client area in framebuffer pixels.
	//
	// Returns:
	//   - picking.Viewport: the client rectangle, origin at the top-left corner
	Bounds() picking.Viewport

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// captured is the button holding the pointer capture, or nil.
	captured *common.PointerButton

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onPointer receives every pointer event.
	onPointer func(ev input.Event)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "Showroom",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  600,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetPointerCallback(callback func(ev input.Event)) {
	w.onPointer = callback
}

func (w *engineWindow) CapturePointer(button common.PointerButton) error {
	if w.captured != nil && *w.captured != button {
		return fmt.Errorf("capture %d while %d holds it: %w", button, *w.captured, ErrPointerCaptured)
	}
	w.captured = &button
	return nil
}

func (w *engineWindow) ReleasePointer(button common.PointerButton) error {
	if w.captured == nil || *w.captured != button {
		return fmt.Errorf("release %d: %w", button, ErrPointerNotCaptured)
	}
	w.captured = nil
	return nil
}

func (w *engineWindow) Captured() (common.PointerButton, bool) {
	if w.captured == nil {
		return 0, false
	}
	return *w.captured, true
}

func (w *engineWindow) Bounds() picking.Viewport {
	return picking.Viewport{Width: float32(w.width), Height: float32(w.height)}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// pointerButton emits a PointerDown or PointerUp.
func (w *engineWindow) pointerButton(button common.PointerButton, pressed bool, x, y float32) {
	if w.onPointer == nil {
		return
	}
	if pressed {
		w.onPointer(input.PointerDown{X: x, Y: y, Button: button})
		return
	}
	w.onPointer(input.PointerUp{X: x, Y: y, Button: button})
}

func (w *engineWindow) pointerMove(x, y float32) {
	if w.onPointer != nil {
		w.onPointer(input.PointerMove{X: x, Y: y})
	}
}

// pointerCancel drops any capture and tells the receiver the pointer sequence was interrupted.
func (w *engineWindow) pointerCancel() {
	w.captured = nil
	if w.onPointer != nil {
		w.onPointer(input.PointerCancel{})
	}
}

// resized stores the new framebuffer size and forwards it.
func (w *engineWindow) resized(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
