package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// rig is the implementation of the Rig interface.
type rig struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	pitch    float32
	heading  float32

	// velocity is signed, in world units per second along Right.
	velocity float32

	panSpeed      float32
	damping       float32
	dragThreshold float32
	epsilon       float32
	normalizer    float32
	lookDistance  float32
	invertPan     bool
	panButton     common.PointerButton

	light       light.Light
	lightOffset mgl32.Vec3

	drag   *DragSession
	logger *slog.Logger
}

// Rig is a pitch-locked camera controller with damped inertial panning.
//
// Dragging with the pan button translates the camera along its horizontal right vector. Releasing a
// drag converts the last frame's pointer delta into a pan velocity that decays exponentially in Tick.
// The look-target is recomputed from heading and the fixed pitch every time the rig moves, so the
// vertical look angle never drifts. An attached light follows the camera at a fixed offset.
type Rig interface {
	Controller

	// Forward retrieves the unit look direction derived from heading and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Right retrieves the unit horizontal right vector, forward x world up.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// Pitch retrieves the fixed vertical look angle in radians. Negative looks down.
	//
	// Returns:
	//   - float32: the pitch
	Pitch() float32

	// Heading retrieves the horizontal yaw in radians. Zero looks down -Z.
	//
	// Returns:
	//   - float32: the heading
	Heading() float32

	// SetHeading turns the rig horizontally. Pitch is unaffected.
	//
	// Parameters:
	//   - heading: the new yaw in radians
	SetHeading(heading float32)

	// Velocity retrieves the signed pan velocity along Right in world units per second.
	//
	// Returns:
	//   - float32: the pan velocity
	Velocity() float32

	// SetVelocity sets the pan velocity along Right, as a release would.
	//
	// Parameters:
	//   - v: world units per second
	SetVelocity(v float32)

	// PanButton retrieves the pointer button that starts drag sessions.
	//
	// Returns:
	//   - common.PointerButton: the pan button
	PanButton() common.PointerButton

	// BeginDrag starts a drag session for the pan button and stops any inertia.
	// An unfinished earlier session is discarded.
	//
	// Parameters:
	//   - x: the pointer X in client coordinates
	//   - button: the pressed button
	//
	// Returns:
	//   - bool: false if button is not the pan button
	BeginDrag(x float32, button common.PointerButton) bool

	// DragMove feeds a pointer move into the active session. Once the cumulative movement exceeds
	// the drag threshold the camera pans by dx * panSpeed along Right.
	//
	// Parameters:
	//   - x: the pointer X in client coordinates
	//
	// Returns:
	//   - bool: true if the camera moved
	DragMove(x float32) bool

	// EndDrag finishes the active session. A drag hands its release delta over as pan velocity.
	//
	// Returns:
	//   - bool: true if the session was a drag, false for a click or when no session was active
	EndDrag() bool

	// CancelDrag discards the active session without starting inertia.
	CancelDrag()

	// Session retrieves a copy of the active drag session.
	//
	// Returns:
	//   - DragSession: the session
	//   - bool: false if no session is active
	Session() (DragSession, bool)

	// Dragging reports whether a session is active.
	//
	// Returns:
	//   - bool: true between BeginDrag and EndDrag
	Dragging() bool

	// Tick advances inertia by dt seconds, re-locks the look-target and moves the attached light.
	//
	// Parameters:
	//   - dt: the frame duration in seconds
	Tick(dt float32)

	// Light retrieves the attached light, or nil.
	//
	// Returns:
	//   - light.Light: the attached light
	Light() light.Light

	// LightPosition retrieves where the attached light belongs: the camera position plus the light offset.
	//
	// Returns:
	//   - mgl32.Vec3: the light position
	LightPosition() mgl32.Vec3
}

var _ Rig = &rig{}

// NewRig creates a new Rig with the provided options.
// Defaults: eye at (0, 50, 1500), pitch -20 degrees, pan speed 0.5 units per pixel, damping 6 per second,
// drag threshold 4 pixels, velocity epsilon 1e-3, frame rate normalizer 60, look distance 100,
// light offset (50, 50, 0), left button pans.
//
// Parameters:
//   - options: variadic list of RigBuilderOption functions to configure the Rig
//
// Returns:
//   - Rig: the newly created Rig instance
func NewRig(options ...RigBuilderOption) Rig {
	r := &rig{
		position:      mgl32.Vec3{0, 50, 1500},
		pitch:         common.DegToRad(-20),
		panSpeed:      0.5,
		damping:       6.0,
		dragThreshold: 4,
		epsilon:       1e-3,
		normalizer:    60,
		lookDistance:  100,
		lightOffset:   mgl32.Vec3{50, 50, 0},
		panButton:     common.PointerButtonLeft,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	r.relock()
	return r
}

func (r *rig) Position() mgl32.Vec3 {
	return r.position
}

func (r *rig) Target() mgl32.Vec3 {
	return r.target
}

func (r *rig) Forward() mgl32.Vec3 {
	sp, cp := math32.Sincos(r.pitch)
	sh, ch := math32.Sincos(r.heading)
	return mgl32.Vec3{sh * cp, sp, -ch * cp}
}

func (r *rig) Right() mgl32.Vec3 {
	sh, ch := math32.Sincos(r.heading)
	return mgl32.Vec3{ch, 0, sh}
}

func (r *rig) Pitch() float32 {
	return r.pitch
}

func (r *rig) Heading() float32 {
	return r.heading
}

func (r *rig) SetHeading(heading float32) {
	r.heading = heading
	r.relock()
}

func (r *rig) Velocity() float32 {
	return r.velocity
}

func (r *rig) SetVelocity(v float32) {
	r.velocity = v
}

func (r *rig) PanButton() common.PointerButton {
	return r.panButton
}

func (r *rig) BeginDrag(x float32, button common.PointerButton) bool {
	if button != r.panButton {
		return false
	}
	if r.drag != nil {
		r.logger.Debug("discarding unfinished drag session", "startX", r.drag.StartX, "lastX", r.drag.LastX)
	}
	r.drag = &DragSession{Button: button, StartX: x, LastX: x}
	r.velocity = 0
	return true
}

func (r *rig) DragMove(x float32) bool {
	d := r.drag
	if d == nil {
		return false
	}
	dx := x - d.LastX
	d.LastX = x
	d.Cumulative += math32.Abs(dx)
	d.frameDx += dx

	if !d.Exceeded && d.Cumulative > r.dragThreshold {
		d.Exceeded = true
		r.logger.Debug("drag threshold exceeded", "cumulative", d.Cumulative)
	}
	if !d.Exceeded || dx == 0 {
		return false
	}
	r.translate(r.pan(dx) * r.panSpeed)
	return true
}

func (r *rig) EndDrag() bool {
	d := r.drag
	if d == nil {
		return false
	}
	r.drag = nil
	if !d.Exceeded {
		return false
	}
	r.velocity = r.pan(d.ReleaseDx()) * r.panSpeed * r.normalizer
	r.logger.Debug("drag released", "velocity", r.velocity)
	return true
}

func (r *rig) CancelDrag() {
	r.drag = nil
}

func (r *rig) Session() (DragSession, bool) {
	if r.drag == nil {
		return DragSession{}, false
	}
	return *r.drag, true
}

func (r *rig) Dragging() bool {
	return r.drag != nil
}

func (r *rig) Tick(dt float32) {
	if dt < 0 || math32.IsNaN(dt) {
		dt = 0
	}
	if r.velocity != 0 {
		r.velocity *= math32.Exp(-r.damping * dt)
		r.translate(r.velocity * dt)
		if math32.Abs(r.velocity) < r.epsilon {
			r.velocity = 0
		}
	}
	if r.drag != nil {
		r.drag.endFrame()
	}
	r.relock()
}

func (r *rig) Light() light.Light {
	return r.light
}

func (r *rig) LightPosition() mgl32.Vec3 {
	return r.position.Add(r.lightOffset)
}

func (r *rig) pan(dx float32) float32 {
	if r.invertPan {
		return -dx
	}
	return dx
}

// translate moves the eye along Right and re-locks the target.
func (r *rig) translate(amount float32) {
	r.position = r.position.Add(r.Right().Mul(amount))
	r.relock()
}

// relock recomputes the look-target from heading and the fixed pitch and moves the attached light.
func (r *rig) relock() {
	r.target = r.position.Add(r.Forward().Mul(r.lookDistance))
	if r.light != nil {
		r.light.SetPosition(r.LightPosition())
		r.light.PointAt(r.target)
	}
}
