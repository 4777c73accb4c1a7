package termview

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

// HoldTime is how long a key counts as held after its last press.
// Terminals only report presses and auto-repeat, never releases.
const HoldTime = 180 * time.Millisecond

// lookStep is the look delta, in pointer pixels, per arrow key press
const lookStep = 40

// Action is a host-level request that is not a session command
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionMute
)

// Keys turns tcell key events into intents and commands
type Keys struct {
	held  map[rune]time.Time
	boost time.Time
	look  core.Vec2
}

func NewKeys() *Keys {
	return &Keys{held: make(map[rune]time.Time)}
}

// Press records one key event. Arrow keys accumulate look deltas that
// the next Intent consumes.
func (k *Keys) Press(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyLeft:
		k.look.X -= lookStep
	case tcell.KeyRight:
		k.look.X += lookStep
	case tcell.KeyUp:
		k.look.Y += lookStep
	case tcell.KeyDown:
		k.look.Y -= lookStep
	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			k.boost = now
			r = unicode.ToLower(r)
		}
		k.held[r] = now
	}
}

func (k *Keys) down(r rune, now time.Time) bool {
	t, ok := k.held[r]
	return ok && now.Sub(t) < HoldTime
}

func (k *Keys) axis(neg, pos rune, now time.Time) float64 {
	v := 0.0
	if k.down(neg, now) {
		v--
	}
	if k.down(pos, now) {
		v++
	}
	return v
}

// Intent builds the intent for a frame at now and clears the pending
// look delta
func (k *Keys) Intent(now time.Time) core.Intent {
	in := core.Intent{
		MoveAxis: core.Vec2{
			X: k.axis('a', 'd', now),
			Y: k.axis('s', 'w', now),
		},
		VerticalAxis: int(k.axis('c', ' ', now)),
		Fire:         k.down('j', now) || k.down('f', now),
		Boost:        now.Sub(k.boost) < HoldTime,
		Look:         k.look,
	}
	k.look = core.Vec2{}
	return in
}

// Command maps a key event to a session command for the loop state, or
// to a host action
func Command(ev *tcell.EventKey, loop core.LoopState) (game.Command, Action) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return "", ActionQuit
	case tcell.KeyEscape:
		switch loop {
		case core.LoopPlaying:
			return game.CmdPause, ActionNone
		case core.LoopPaused:
			return game.CmdResume, ActionNone
		}
		return "", ActionQuit
	case tcell.KeyEnter:
		switch loop {
		case core.LoopMenu:
			return game.CmdStart, ActionNone
		case core.LoopGameOver:
			return game.CmdRestart, ActionNone
		}
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'p':
			switch loop {
			case core.LoopPlaying:
				return game.CmdPause, ActionNone
			case core.LoopPaused:
				return game.CmdResume, ActionNone
			}
		case 'r':
			if loop == core.LoopPaused || loop == core.LoopGameOver {
				return game.CmdRestart, ActionNone
			}
		case 'q':
			if loop != core.LoopPlaying {
				return "", ActionQuit
			}
		case 'm':
			return "", ActionMute
		}
	}
	return "", ActionNone
}
