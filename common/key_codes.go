package common

// PointerButton identifies which pointer button produced an event.
type PointerButton int

// Pointer button codes for cross-platform input handling.
// These values match GLFW mouse button codes.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#MouseButton
const (
	PointerButtonLeft   PointerButton = 0 // Primary button (GLFW MouseButton1)
	PointerButtonRight  PointerButton = 1 // Secondary button (GLFW MouseButton2)
	PointerButtonMiddle PointerButton = 2 // Middle button (GLFW MouseButton3)
)
