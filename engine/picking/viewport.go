package picking

// Viewport is the bounding rectangle of the rendering surface in host client coordinates.
// Pointer events are reported in the same coordinate space.
type Viewport struct {
	Left   float32
	Top    float32
	Width  float32
	Height float32
}

// Valid reports whether the viewport has a positive area.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// NormalizePointer maps a client-space pointer position onto normalized device coordinates,
// where x and y run from -1 to 1 across the viewport and y points up.
//
// Parameters:
//   - x, y: the pointer position in client coordinates
//   - vp: the surface bounding rectangle
//
// Returns:
//   - float32, float32: the normalized device coordinates
//   - bool: false if the viewport has no area
func NormalizePointer(x, y float32, vp Viewport) (float32, float32, bool) {
	if !vp.Valid() {
		return 0, 0, false
	}
	ndcX := (x-vp.Left)/vp.Width*2 - 1
	ndcY := -((y-vp.Top)/vp.Height)*2 + 1
	return ndcX, ndcY, true
}
