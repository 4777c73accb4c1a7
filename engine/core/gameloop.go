package core

import "time"

// LoopState represents the overall run state of the loop
type LoopState uint8

const (
	LoopMenu LoopState = iota
	LoopPlaying
	LoopPaused
	LoopGameOver
)

func (s LoopState) String() string {
	switch s {
	case LoopMenu:
		return "menu"
	case LoopPlaying:
		return "playing"
	case LoopPaused:
		return "paused"
	case LoopGameOver:
		return "game over"
	}
	return "unknown"
}

// DefaultMaxDelta caps a single frame step
const DefaultMaxDelta = 0.1

// GameLoop drives the world with the elapsed wall time of each frame
type GameLoop struct {
	World    *World
	State    LoopState
	MaxDelta float64
	Now      func() time.Time
	lastTime time.Time
}

// NewGameLoop creates a loop around an existing world
func NewGameLoop(w *World) *GameLoop {
	return &GameLoop{
		World:    w,
		MaxDelta: DefaultMaxDelta,
		Now:      time.Now,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It pulls the elapsed time
// and steps the simulation once. Returns the delta actually simulated.
func (gl *GameLoop) Update() float64 {
	now := gl.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Step(frameTime)
}

// Step advances the world by dt, clamped to MaxDelta. Nothing happens
// unless the loop is playing.
func (gl *GameLoop) Step(dt float64) float64 {
	if gl.State != LoopPlaying {
		return 0
	}
	// Cap frame time so a stalled host does not blow up integration
	if dt > gl.MaxDelta {
		dt = gl.MaxDelta
	}
	if dt < 0 {
		dt = 0
	}
	gl.World.Tick(dt)
	if gl.World.State.Get().IsGameOver {
		gl.State = LoopGameOver
	}
	return dt
}

// Play starts or resumes the game
func (gl *GameLoop) Play() {
	gl.State = LoopPlaying
	gl.lastTime = gl.Now()
	gl.World.State.Update(StatePatch{IsPaused: Ptr(false)})
}

// Pause pauses the game
func (gl *GameLoop) Pause() {
	if gl.State != LoopPlaying {
		return
	}
	gl.State = LoopPaused
	gl.World.State.Update(StatePatch{IsPaused: Ptr(true)})
}

// Resume continues a paused game without a large catch-up step
func (gl *GameLoop) Resume() {
	if gl.State != LoopPaused {
		return
	}
	gl.Play()
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
