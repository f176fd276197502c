package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/input"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow(WithTitle(""), WithWidth(0), WithHeight(900))

	assert.Equal(t, "Showroom", w.title)
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 900, w.Height())
	assert.Equal(t, picking.Viewport{Width: 1280, Height: 900}, w.Bounds())
	assert.False(t, w.IsRunning(), "no platform window yet")
	assert.Nil(t, w.SurfaceDescriptor())
}

func TestSizeLimitsKeepDefaultsForZero(t *testing.T) {
	w := newEngineWindow(WithMinSize(0, 300), WithMaxSize(1920, 0))

	assert.Equal(t, 600, w.minWidth)
	assert.Equal(t, 300, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 2160, w.maxHeight)
}

func TestPointerCapture(t *testing.T) {
	w := newEngineWindow()

	_, ok := w.Captured()
	assert.False(t, ok)

	require.NoError(t, w.CapturePointer(common.PointerButtonLeft))
	require.NoError(t, w.CapturePointer(common.PointerButtonLeft), "recapture by the same button")
	assert.ErrorIs(t, w.CapturePointer(common.PointerButtonMiddle), ErrPointerCaptured)

	b, ok := w.Captured()
	assert.True(t, ok)
	assert.Equal(t, common.PointerButtonLeft, b)

	assert.ErrorIs(t, w.ReleasePointer(common.PointerButtonRight), ErrPointerNotCaptured)
	require.NoError(t, w.ReleasePointer(common.PointerButtonLeft))
	assert.ErrorIs(t, w.ReleasePointer(common.PointerButtonLeft), ErrPointerNotCaptured)
}

func TestPointerEventsAreForwarded(t *testing.T) {
	w := newEngineWindow()
	var got []input.Event
	w.SetPointerCallback(func(ev input.Event) { got = append(got, ev) })

	w.pointerButton(common.PointerButtonLeft, true, 10, 20)
	w.pointerMove(15, 20)
	w.pointerButton(common.PointerButtonLeft, false, 15, 21)

	require.NoError(t, w.CapturePointer(common.PointerButtonRight))
	w.pointerCancel()
	_, captured := w.Captured()
	assert.False(t, captured, "cancel drops capture")

	assert.Equal(t, []input.Event{
		input.PointerDown{X: 10, Y: 20, Button: common.PointerButtonLeft},
		input.PointerMove{X: 15, Y: 20},
		input.PointerUp{X: 15, Y: 21, Button: common.PointerButtonLeft},
		input.PointerCancel{},
	}, got)
}

func TestResizeUpdatesBounds(t *testing.T) {
	w := newEngineWindow()
	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })

	w.resized(1920, 1080)

	assert.Equal(t, 1920, gotW)
	assert.Equal(t, 1080, gotH)
	assert.Equal(t, picking.Viewport{Width: 1920, Height: 1080}, w.Bounds())
}

func TestPointerButtonMapping(t *testing.T) {
	tests := []struct {
		in   glfw.MouseButton
		want common.PointerButton
		ok   bool
	}{
		{glfw.MouseButtonLeft, common.PointerButtonLeft, true},
		{glfw.MouseButtonRight, common.PointerButtonRight, true},
		{glfw.MouseButtonMiddle, common.PointerButtonMiddle, true},
		{glfw.MouseButton4, 0, false},
	}
	for _, tt := range tests {
		got, ok := pointerButtonOf(tt.in)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}
