package camera

import "github.com/Carmen-Shannon/oxy-showroom/common"

// DragSession records one pointer-down to pointer-up interval.
// It is provisionally a click until Cumulative exceeds the rig's drag threshold.
type DragSession struct {
	Button     common.PointerButton
	StartX     float32
	LastX      float32
	Cumulative float32
	Exceeded   bool

	// frameDx is the pixel delta accumulated since the last Tick; lastFrameDx is the
	// delta of the frame before that.
	frameDx     float32
	lastFrameDx float32
}

// ReleaseDx returns the pixel delta of the most recent frame that moved.
func (d *DragSession) ReleaseDx() float32 {
	if d.frameDx != 0 {
		return d.frameDx
	}
	return d.lastFrameDx
}

func (d *DragSession) endFrame() {
	d.lastFrameDx = d.frameDx
	d.frameDx = 0
}
