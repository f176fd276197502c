package input

import "github.com/Carmen-Shannon/oxy-showroom/common"

// Event is a pointer event delivered by the host window.
type Event interface {
	isEvent()
}

// PointerDown is a button press in client coordinates.
type PointerDown struct {
	X, Y   float32
	Button common.PointerButton
}

// PointerMove is a cursor move in client coordinates.
type PointerMove struct {
	X, Y float32
}

// PointerUp is a button release in client coordinates.
type PointerUp struct {
	X, Y   float32
	Button common.PointerButton
}

// PointerCancel reports that the host lost the pointer, for example on focus loss.
type PointerCancel struct{}

func (PointerDown) isEvent()   {}
func (PointerMove) isEvent()   {}
func (PointerUp) isEvent()     {}
func (PointerCancel) isEvent() {}
