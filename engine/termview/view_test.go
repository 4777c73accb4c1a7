package termview

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func cell(s tcell.Screen, col, row int) rune {
	r, _, _, _ := s.GetContent(col, row)
	return r
}

func rowText(s tcell.Screen, row int) string {
	w, _ := s.Size()
	var b strings.Builder
	for col := range w {
		b.WriteRune(cell(s, col, row))
	}
	return b.String()
}

func TestDrawCentersOnPlayer(t *testing.T) {
	s := newScreen(t)
	v := New(s, 4, 0)

	snap := game.Snapshot{
		Loop:   core.LoopPlaying,
		Player: 2,
		Entities: []game.EntityView{
			{ID: 1, Kind: core.RenderStructure, Shield: 1},
			{ID: 2, Kind: core.RenderPlayer, Pos: core.V3(0, 0, -80)},
			{ID: 3, Kind: core.RenderEnemy, Pos: core.V3(20, 0, -80), AI: core.AIApproaching},
			{ID: 4, Kind: core.RenderEnemy, Pos: core.V3(-20, 0, -80), AI: core.AISiege},
		},
		State: core.GameState{Score: 300, Level: 2},
	}
	v.Draw(snap)

	assert.Equal(t, '^', cell(s, 40, 12))
	assert.Equal(t, GlyphEnemy, cell(s, 45, 12))
	assert.Equal(t, GlyphSiege, cell(s, 35, 12))
	assert.Equal(t, GlyphStructure, cell(s, 40, 2))
	assert.Equal(t, '(', cell(s, 39, 2))
	assert.Contains(t, rowText(s, 0), "SCORE 300")
	assert.Contains(t, rowText(s, 23), "SHIELD")
}

func TestProjectRejectsHUDRows(t *testing.T) {
	s := newScreen(t)
	v := New(s, 1, 0)

	_, _, ok := v.Project(core.V3(0, 0, 0))
	assert.True(t, ok)
	_, row, ok := v.Project(core.V3(0, 0, 22))
	assert.Equal(t, 1, row)
	assert.False(t, ok)
	_, _, ok = v.Project(core.V3(100, 0, 0))
	assert.False(t, ok)
}

func TestDrawBeam(t *testing.T) {
	s := newScreen(t)
	v := New(s, 1, 0)
	v.Draw(game.Snapshot{
		Loop: core.LoopPlaying,
		Beams: []game.BeamView{{
			Points: []core.Vec3{core.V3(-10, 0, 0), core.V3(10, 0, 0)},
		}},
	})
	for col := 30; col <= 50; col++ {
		assert.Equal(t, GlyphBeam, cell(s, col, 12), "col %d", col)
	}
}

func TestOverlays(t *testing.T) {
	s := newScreen(t)
	v := New(s, 4, 0)

	find := func(want string) bool {
		_, h := s.Size()
		for row := range h {
			if strings.Contains(rowText(s, row), want) {
				return true
			}
		}
		return false
	}

	v.Draw(game.Snapshot{Loop: core.LoopMenu})
	assert.True(t, find("DYSON SIEGE"))

	v.Draw(game.Snapshot{Loop: core.LoopPaused})
	assert.True(t, find("PAUSED"))

	v.Draw(game.Snapshot{Loop: core.LoopGameOver, State: core.GameState{Score: 900}})
	assert.True(t, find("SPHERE DESTROYED"))
	assert.True(t, find("900"))
}

func TestHeading(t *testing.T) {
	assert.Equal(t, '^', Heading(0))
	assert.Equal(t, '>', Heading(math.Pi/2))
	assert.Equal(t, 'v', Heading(math.Pi))
	assert.Equal(t, '<', Heading(-math.Pi/2))
	assert.Equal(t, '^', Heading(4*math.Pi+0.1))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[##--]", Bar(50, 100, 4))
	assert.Equal(t, "[####]", Bar(150, 100, 4))
	assert.Equal(t, "[----]", Bar(5, 0, 4))
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeysIntent(t *testing.T) {
	k := NewKeys()
	now := time.Unix(100, 0)

	k.Press(key('w'), now)
	k.Press(key('D'), now)
	k.Press(key(' '), now)
	k.Press(key('j'), now)
	k.Press(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), now)

	in := k.Intent(now.Add(50 * time.Millisecond))
	assert.Equal(t, 1.0, in.MoveAxis.Y)
	assert.Equal(t, 1.0, in.MoveAxis.X)
	assert.Equal(t, 1, in.VerticalAxis)
	assert.True(t, in.Fire)
	assert.True(t, in.Boost)
	assert.Equal(t, -float64(lookStep), in.Look.X)

	// Look is consumed once
	in = k.Intent(now.Add(60 * time.Millisecond))
	assert.Zero(t, in.Look.X)

	// Everything lapses after the hold window
	in = k.Intent(now.Add(HoldTime + time.Millisecond))
	assert.Equal(t, core.Intent{}, in)
}

func TestCommandMapping(t *testing.T) {
	enter := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
	esc := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)

	tests := []struct {
		name   string
		ev     *tcell.EventKey
		loop   core.LoopState
		cmd    game.Command
		action Action
	}{
		{"enter starts", enter, core.LoopMenu, game.CmdStart, ActionNone},
		{"enter restarts after loss", enter, core.LoopGameOver, game.CmdRestart, ActionNone},
		{"enter ignored in play", enter, core.LoopPlaying, "", ActionNone},
		{"p pauses", key('p'), core.LoopPlaying, game.CmdPause, ActionNone},
		{"P resumes", key('P'), core.LoopPaused, game.CmdResume, ActionNone},
		{"esc pauses", esc, core.LoopPlaying, game.CmdPause, ActionNone},
		{"esc quits from menu", esc, core.LoopMenu, "", ActionQuit},
		{"r restarts paused", key('r'), core.LoopPaused, game.CmdRestart, ActionNone},
		{"r ignored in play", key('r'), core.LoopPlaying, "", ActionNone},
		{"q ignored in play", key('q'), core.LoopPlaying, "", ActionNone},
		{"q quits paused", key('q'), core.LoopPaused, "", ActionQuit},
		{"m mutes", key('m'), core.LoopPlaying, "", ActionMute},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), core.LoopPlaying, "", ActionQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, action := Command(tt.ev, tt.loop)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.action, action)
		})
	}
}
