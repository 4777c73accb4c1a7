package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

// keyLook is the look delta, in pointer pixels per frame, produced by a
// held arrow key
const keyLook = 6

// trackedKeys are polled every frame
var trackedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeySpace, ebiten.KeyControl, ebiten.KeyC,
	ebiten.KeyShift, ebiten.KeyJ,
	ebiten.KeyEnter, ebiten.KeyEscape, ebiten.KeyP, ebiten.KeyR,
	ebiten.KeyM,
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	prevMouseX       int
	prevMouseY       int
	LeftPressed      bool
	LeftJustPressed  bool
	ScrollY          float64

	// Captured is set while the cursor is locked to the window and its
	// deltas steer the craft
	Captured bool

	// Keyboard
	KeysPressed     map[ebiten.Key]bool
	KeysJustPressed map[ebiten.Key]bool
}

func NewInputState() *InputState {
	return &InputState{
		KeysPressed:     make(map[ebiten.Key]bool),
		KeysJustPressed: make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	s.LeftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	_, s.ScrollY = ebiten.Wheel()

	s.Captured = ebiten.CursorMode() == ebiten.CursorModeCaptured

	for _, k := range trackedKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
		s.KeysJustPressed[k] = inpututil.IsKeyJustPressed(k)
	}
}

// Capture locks or releases the cursor. The first frame after a change
// reports a zero delta.
func (s *InputState) Capture(on bool) {
	mode := ebiten.CursorModeVisible
	if on {
		mode = ebiten.CursorModeCaptured
	}
	if ebiten.CursorMode() != mode {
		ebiten.SetCursorMode(mode)
		s.MouseDX, s.MouseDY = 0, 0
		s.prevMouseX, s.prevMouseY = s.MouseX, s.MouseY
	}
	s.Captured = on
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return s.KeysJustPressed[key]
}

func (s *InputState) axis(neg, pos ebiten.Key) float64 {
	v := 0.0
	if s.KeysPressed[neg] {
		v--
	}
	if s.KeysPressed[pos] {
		v++
	}
	return v
}

// Intent builds the frame's intent. Mouse deltas only steer while the
// cursor is captured.
func (s *InputState) Intent() core.Intent {
	in := core.Intent{
		MoveAxis: core.Vec2{
			X: s.axis(ebiten.KeyA, ebiten.KeyD),
			Y: s.axis(ebiten.KeyS, ebiten.KeyW),
		},
		VerticalAxis: int(s.axis(ebiten.KeyControl, ebiten.KeySpace)),
		Fire:         s.KeysPressed[ebiten.KeyJ] || (s.Captured && s.LeftPressed),
		Boost:        s.KeysPressed[ebiten.KeyShift],
		Look: core.Vec2{
			X: s.axis(ebiten.KeyLeft, ebiten.KeyRight) * keyLook,
			Y: s.axis(ebiten.KeyDown, ebiten.KeyUp) * keyLook,
		},
	}
	if s.KeysPressed[ebiten.KeyC] {
		in.VerticalAxis = -1
	}
	if s.Captured {
		in.Look.X += float64(s.MouseDX)
		// Screen Y grows downward
		in.Look.Y -= float64(s.MouseDY)
	}
	return in
}

// Commands maps this frame's key presses to session commands for the
// given loop state
func (s *InputState) Commands(loop core.LoopState) []game.Command {
	var cmds []game.Command
	switch loop {
	case core.LoopMenu:
		if s.KeysJustPressed[ebiten.KeyEnter] {
			cmds = append(cmds, game.CmdStart)
		}
	case core.LoopPlaying:
		if s.KeysJustPressed[ebiten.KeyP] || s.KeysJustPressed[ebiten.KeyEscape] {
			cmds = append(cmds, game.CmdPause)
		}
	case core.LoopPaused:
		if s.KeysJustPressed[ebiten.KeyP] || s.KeysJustPressed[ebiten.KeyEscape] {
			cmds = append(cmds, game.CmdResume)
		}
		if s.KeysJustPressed[ebiten.KeyR] {
			cmds = append(cmds, game.CmdRestart)
		}
	case core.LoopGameOver:
		if s.KeysJustPressed[ebiten.KeyEnter] || s.KeysJustPressed[ebiten.KeyR] {
			cmds = append(cmds, game.CmdRestart)
		}
	}
	return cmds
}

// ToggleMute reports whether the mute key was pressed this frame
func (s *InputState) ToggleMute() bool {
	return s.KeysJustPressed[ebiten.KeyM]
}
