package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(time.Second, slog.New(slog.NewTextHandler(&buf, nil)))

	start := time.Unix(1000, 0)
	clock := start
	p.lastTime = start
	p.now = func() time.Time { return clock }

	for i := 0; i < 59; i++ {
		clock = clock.Add(time.Second / 60)
		_, ok := p.Tick()
		require.False(t, ok)
	}
	assert.Zero(t, buf.Len())

	clock = start.Add(time.Second)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 60, stats.FPS, 1e-9)
	assert.Contains(t, buf.String(), "fps=60")

	_, ok = p.Tick()
	assert.False(t, ok, "counter restarts after a report")
}

func TestNewProfilerDefaults(t *testing.T) {
	p := NewProfiler(0, nil)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
}
