package input

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
)

// Capturer grabs and releases the pointer so drags keep reporting outside the surface.
// Capture is best effort: failures are logged and the drag continues without it.
type Capturer interface {
	CapturePointer(button common.PointerButton) error
	ReleasePointer(button common.PointerButton) error
}

// SurfaceBounds reports the rendering surface rectangle in client coordinates.
type SurfaceBounds interface {
	Bounds() picking.Viewport
}

// ClickHandler receives completed clicks. selection.Selector satisfies it.
type ClickHandler interface {
	HandleClick(x, y float32, vp picking.Viewport, proj picking.Projector) error
}

// router is the implementation of the Router interface.
type router struct {
	rig      camera.Rig
	clicks   ClickHandler
	bounds   SurfaceBounds
	proj     picking.Projector
	capturer Capturer
	logger   *slog.Logger
	captured bool
}

// Router turns raw pointer events into drags for the camera rig or clicks for the selector.
// A press of the rig's pan button opens a drag session; the release either ends a pan or,
// if the pointer never moved past the drag threshold, forwards a click.
type Router interface {
	// Handle dispatches any pointer event.
	//
	// Parameters:
	//   - ev: the event
	Handle(ev Event)

	// PointerDown handles a button press.
	//
	// Parameters:
	//   - x, y: the pointer position in client coordinates
	//   - button: the pressed button
	PointerDown(x, y float32, button common.PointerButton)

	// PointerMove handles a cursor move. Moves without an active session are ignored.
	//
	// Parameters:
	//   - x, y: the pointer position in client coordinates
	PointerMove(x, y float32)

	// PointerUp handles a button release.
	//
	// Parameters:
	//   - x, y: the pointer position in client coordinates
	//   - button: the released button
	PointerUp(x, y float32, button common.PointerButton)

	// Cancel drops the active session without panning inertia or a click and releases capture.
	Cancel()
}

var _ Router = &router{}

// NewRouter creates a new Router with the provided options.
// rig, clicks, bounds and proj are required; passing nil panics.
//
// Parameters:
//   - rig: the camera rig that receives drags
//   - clicks: the click consumer, usually a selection.Selector
//   - bounds: the rendering surface bounds used to normalize clicks
//   - proj: the camera used to build pick rays
//   - options: variadic list of RouterBuilderOption functions to configure the Router
//
// Returns:
//   - Router: the newly created Router instance
func NewRouter(rig camera.Rig, clicks ClickHandler, bounds SurfaceBounds, proj picking.Projector, options ...RouterBuilderOption) Router {
	if rig == nil || clicks == nil || bounds == nil || proj == nil {
		panic("input: NewRouter requires a rig, click handler, surface bounds and projector")
	}
	r := &router{
		rig:      rig,
		clicks:   clicks,
		bounds:   bounds,
		proj:     proj,
		capturer: noCapture{},
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *router) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		r.PointerDown(e.X, e.Y, e.Button)
	case PointerMove:
		r.PointerMove(e.X, e.Y)
	case PointerUp:
		r.PointerUp(e.X, e.Y, e.Button)
	case PointerCancel:
		r.Cancel()
	}
}

func (r *router) PointerDown(x, _ float32, button common.PointerButton) {
	if button != r.rig.PanButton() {
		return
	}
	if r.rig.Dragging() {
		r.logger.Debug("resetting orphaned drag session")
		r.Cancel()
	}
	if !r.rig.BeginDrag(x, button) {
		return
	}
	if err := r.capturer.CapturePointer(button); err != nil {
		r.logger.Debug("pointer capture unavailable", "button", button, "error", err)
		return
	}
	r.captured = true
}

func (r *router) PointerMove(x, _ float32) {
	if !r.rig.Dragging() {
		return
	}
	r.rig.DragMove(x)
}

func (r *router) PointerUp(x, y float32, button common.PointerButton) {
	s, ok := r.rig.Session()
	if !ok || s.Button != button {
		return
	}
	if x != s.LastX {
		r.rig.DragMove(x)
	}
	wasDrag := r.rig.EndDrag()
	r.release(button)
	if wasDrag {
		return
	}
	if err := r.clicks.HandleClick(x, y, r.bounds.Bounds(), r.proj); err != nil {
		r.logger.Error("click handling failed", "x", x, "y", y, "error", err)
	}
}

func (r *router) Cancel() {
	s, ok := r.rig.Session()
	r.rig.CancelDrag()
	if ok {
		r.release(s.Button)
	}
}

func (r *router) release(button common.PointerButton) {
	if !r.captured {
		return
	}
	r.captured = false
	if err := r.capturer.ReleasePointer(button); err != nil {
		r.logger.Debug("pointer release failed", "button", button, "error", err)
	}
}

// noCapture is the Capturer used when the host cannot grab the pointer.
type noCapture struct{}

func (noCapture) CapturePointer(common.PointerButton) error { return nil }
func (noCapture) ReleasePointer(common.PointerButton) error { return nil }
