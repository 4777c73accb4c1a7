package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestGameLoop_StepOnlyWhilePlaying(t *testing.T) {
	gl := NewGameLoop(NewWorld(1))
	assert.Equal(t, LoopMenu, gl.State)
	assert.Zero(t, gl.Step(0.016))
	assert.Zero(t, gl.CurrentTick())

	gl.Play()
	assert.InDelta(t, 0.016, gl.Step(0.016), 1e-12)
	assert.Equal(t, uint64(1), gl.CurrentTick())
}

func TestGameLoop_ClampsLargeDelta(t *testing.T) {
	gl := NewGameLoop(NewWorld(1))
	gl.Play()

	assert.Equal(t, DefaultMaxDelta, gl.Step(5))
	assert.Zero(t, gl.Step(-1))
	assert.InDelta(t, DefaultMaxDelta, gl.World.Time, 1e-12)
}

func TestGameLoop_UpdateUsesClock(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	gl := NewGameLoop(NewWorld(1))
	gl.Now = clock.Now
	gl.Play()

	clock.now = clock.now.Add(20 * time.Millisecond)
	assert.InDelta(t, 0.02, gl.Update(), 1e-9)

	// A long stall is capped
	clock.now = clock.now.Add(3 * time.Second)
	assert.Equal(t, DefaultMaxDelta, gl.Update())
}

func TestGameLoop_PauseResume(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	gl := NewGameLoop(NewWorld(1))
	gl.Now = clock.Now

	gl.Resume()
	assert.Equal(t, LoopMenu, gl.State, "resume only applies to a paused loop")

	gl.Play()
	gl.Pause()
	assert.Equal(t, LoopPaused, gl.State)
	assert.True(t, gl.World.State.Get().IsPaused)
	assert.Zero(t, gl.Step(0.016))

	clock.now = clock.now.Add(time.Minute)
	gl.Resume()
	assert.Equal(t, LoopPlaying, gl.State)
	assert.False(t, gl.World.State.Get().IsPaused)

	clock.now = clock.now.Add(10 * time.Millisecond)
	assert.InDelta(t, 0.01, gl.Update(), 1e-9, "no catch-up for the paused minute")
}

func TestGameLoop_EntersGameOver(t *testing.T) {
	gl := NewGameLoop(NewWorld(1))
	gl.Play()
	gl.World.State.SetGameOver()

	gl.Step(0.016)

	assert.Equal(t, LoopGameOver, gl.State)
	assert.Zero(t, gl.Step(0.016))
}
