package diagnostics

import (
	"bytes"
	"log"
	"math"
	"testing"
	"time"

	"github.com/plus3/meshfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticHistory(t *testing.T) {
	d := NewDiagnostic(FrameTime, "ms", 3)

	_, ok := d.Value()
	assert.False(t, ok)
	_, ok = d.Smoothed()
	assert.False(t, ok)

	for i := range 5 {
		d.Add(time.Duration(i)*time.Second, float64(i))
	}
	assert.Equal(t, 3, d.Len())

	avg, ok := d.Average()
	require.True(t, ok)
	assert.InDelta(t, 3.0, avg, 1e-9)

	d.Clear()
	assert.Equal(t, 0, d.Len())
}

func TestDiagnosticSmoothing(t *testing.T) {
	d := NewDiagnostic(FPS, "", DefaultHistory)
	window := time.Duration(math.Round(DefaultSmoothing * float64(time.Second)))

	d.Add(0, 60)
	ema, ok := d.Smoothed()
	require.True(t, ok)
	assert.Equal(t, 60.0, ema, "first sample seeds the average")

	// One smoothing window later the average jumps all the way.
	d.Add(window+time.Millisecond, 30)
	ema, _ = d.Smoothed()
	assert.InDelta(t, 30.0, ema, 1e-9)

	// A quarter window only moves a quarter of the way.
	last := d.history[len(d.history)-1].Time
	d.Add(last+window/4, 70)
	ema, _ = d.Smoothed()
	assert.InDelta(t, 40.0, ema, 0.01)
}

func TestFrameTimeHitchIsSmoothed(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(InsertFrameTime(storage))

	for range 30 {
		require.NoError(t, scheduler.Once(1.0/60.0))
	}
	require.NoError(t, scheduler.Once(0.05))

	// alpha = 0.05 / (2/21) = 0.525 for the 50 ms frame.
	store := ecs.GetResource[Store](storage)
	ms, ok := store.Smoothed(FrameTime)
	require.True(t, ok)
	assert.InDelta(t, 1000.0/60.0+0.525*(50-1000.0/60.0), ms, 1e-3)
	assert.Less(t, ms, 50.0)

	fps, ok := store.Smoothed(FPS)
	require.True(t, ok)
	assert.InDelta(t, 60+0.525*(20-60), fps, 1e-3)
	assert.Greater(t, fps, 20.0)

	raw, _ := store.Get(FrameTime).Value()
	assert.InDelta(t, 50.0, raw, 1e-9)
}

func TestFrameTimeSystem(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(InsertFrameTime(storage))

	store := ecs.GetResource[Store](storage)
	_, ok := store.Smoothed(FPS)
	assert.False(t, ok)

	for range 10 {
		require.NoError(t, scheduler.Once(0.02))
	}

	fps, ok := store.Smoothed(FPS)
	require.True(t, ok)
	assert.InDelta(t, 50.0, fps, 1e-6)

	ms, ok := store.Smoothed(FrameTime)
	require.True(t, ok)
	assert.InDelta(t, 20.0, ms, 1e-6)

	count, _ := store.Get(FrameCount).Value()
	assert.Equal(t, 10.0, count)
}

func TestFrameTimeSkipsZeroDelta(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(InsertFrameTime(storage))

	require.NoError(t, scheduler.Once(0))
	_, ok := ecs.GetResource[Store](storage).Smoothed(FPS)
	assert.False(t, ok)
}

func TestLogSystem(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(InsertFrameTime(storage))

	var buf bytes.Buffer
	scheduler.Register(NewLogSystem(log.New(&buf, "", 0), time.Second))

	for range 30 {
		require.NoError(t, scheduler.Once(0.1))
	}
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("diagnostics: ")))
	assert.Contains(t, buf.String(), "fps=10.000")
}
