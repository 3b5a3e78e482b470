package input

import (
	"testing"

	"github.com/plus3/meshfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySet(t *testing.T) {
	set := NewKeySet(KeyLeft, KeyW)
	assert.True(t, set.Has(KeyLeft))
	assert.True(t, set.Has(KeyW))
	assert.False(t, set.Has(KeyRight))
	assert.Equal(t, "left+w", set.String())

	parsed, err := ParseKeySet("W + left")
	require.NoError(t, err)
	assert.Equal(t, set, parsed)

	_, err = ParseKeySet("space")
	assert.Error(t, err)
}

func TestEdgeDetection(t *testing.T) {
	var keys Keys

	keys.Advance(NewKeySet(KeyW))
	assert.True(t, keys.Pressed(KeyW))
	assert.True(t, keys.JustPressed(KeyW))

	keys.Advance(NewKeySet(KeyW))
	assert.True(t, keys.Pressed(KeyW))
	assert.False(t, keys.JustPressed(KeyW), "held key is not a new press")

	keys.Advance(0)
	keys.Advance(NewKeySet(KeyW))
	assert.True(t, keys.JustPressed(KeyW))

	explicit := NewKeys(NewKeySet(KeyS), NewKeySet(KeyS))
	assert.False(t, explicit.JustPressed(KeyS))
}

func TestScript(t *testing.T) {
	script, err := ParseScript("right+w,right,,left")
	require.NoError(t, err)
	require.Len(t, script.Frames, 4)

	assert.Equal(t, NewKeySet(KeyRight, KeyW), script.Poll())
	assert.Equal(t, NewKeySet(KeyRight), script.Poll())
	assert.Equal(t, KeySet(0), script.Poll())
	assert.Equal(t, NewKeySet(KeyLeft), script.Poll())
	assert.Equal(t, KeySet(0), script.Poll())

	script.Loop = true
	assert.Equal(t, NewKeySet(KeyRight, KeyW), script.Poll())
}

func TestPollSystem(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(NewPollSystem(&Script{Frames: []KeySet{NewKeySet(KeyW), NewKeySet(KeyW)}}))

	require.NoError(t, scheduler.Once(0.016))
	keys := ecs.GetResource[Keys](storage)
	require.NotNil(t, keys)
	assert.True(t, keys.JustPressed(KeyW))

	require.NoError(t, scheduler.Once(0.016))
	assert.False(t, keys.JustPressed(KeyW))
	assert.True(t, keys.Pressed(KeyW))
}
