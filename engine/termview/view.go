// Package termview draws simulation snapshots into a terminal with tcell
// and maps key presses back to intents and commands.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

var (
	styleDefault   = tcell.StyleDefault
	styleDim       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStructure = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleShield    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSiege     = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleBlast     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePlayerHit = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleEnemyShot = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleBeam      = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// Glyphs for entity kinds
const (
	GlyphStructure = 'O'
	GlyphEnemy     = 'x'
	GlyphSiege     = 'X'
	GlyphBlast     = '*'
	GlyphShot      = '.'
	GlyphEnemyShot = 'o'
	GlyphBeam      = '~'
	GlyphShell     = ':'
)

// hudRows are reserved at the top and bottom of the screen
const hudRows = 2

// View renders snapshots onto a tcell screen. The map is top-down with
// +Z up and centered on the player.
type View struct {
	screen tcell.Screen

	// Scale is world units per terminal column. Rows cover twice as much
	// since terminal cells are about twice as tall as they are wide.
	Scale float64
	// ShellRadius draws the outer arena boundary when positive
	ShellRadius float64

	centerX, centerZ float64
}

func New(screen tcell.Screen, scale, shell float64) *View {
	return &View{screen: screen, Scale: scale, ShellRadius: shell}
}

// Project maps a world position to a map cell. ok is false off screen.
func (v *View) Project(p core.Vec3) (col, row int, ok bool) {
	w, h := v.screen.Size()
	scale := v.scale()
	col = w/2 + int(math.Round((p.X-v.centerX)/scale))
	row = h/2 - int(math.Round((p.Z-v.centerZ)/(2*scale)))
	ok = col >= 0 && col < w && row >= hudRows && row < h-hudRows
	return col, row, ok
}

func (v *View) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Draw renders one frame and shows it
func (v *View) Draw(snap game.Snapshot) {
	v.screen.Clear()

	v.centerX, v.centerZ = 0, 0
	for _, e := range snap.Entities {
		if e.ID == snap.Player {
			v.centerX, v.centerZ = e.Pos.X, e.Pos.Z
			break
		}
	}

	v.drawShell()
	for _, b := range snap.Beams {
		v.drawBeam(b)
	}
	// Structure first so anything over it stays visible
	for _, e := range snap.Entities {
		if e.Kind == core.RenderStructure {
			v.drawEntity(e)
		}
	}
	for _, e := range snap.Entities {
		if e.Kind != core.RenderStructure {
			v.drawEntity(e)
		}
	}
	v.drawHUD(snap)
	v.drawOverlay(snap)
	v.screen.Show()
}

func (v *View) set(col, row int, r rune, style tcell.Style) {
	v.screen.SetContent(col, row, r, nil, style)
}

func (v *View) plot(p core.Vec3, r rune, style tcell.Style) {
	if col, row, ok := v.Project(p); ok {
		v.set(col, row, r, style)
	}
}

func (v *View) drawShell() {
	if v.ShellRadius <= 0 {
		return
	}
	steps := 180
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		v.plot(core.V3(v.ShellRadius*math.Cos(a), 0, v.ShellRadius*math.Sin(a)), GlyphShell, styleDim)
	}
}

// drawBeam walks each polyline segment at half-cell resolution
func (v *View) drawBeam(b game.BeamView) {
	for i := 1; i < len(b.Points); i++ {
		a, c := b.Points[i-1], b.Points[i]
		n := int(a.DistanceTo(c)/(v.scale()/2)) + 1
		for s := 0; s <= n; s++ {
			v.plot(a.Lerp(c, float64(s)/float64(n)), GlyphBeam, styleBeam)
		}
	}
}

func (v *View) drawEntity(e game.EntityView) {
	switch e.Kind {
	case core.RenderStructure:
		col, row, ok := v.Project(e.Pos)
		if !ok {
			return
		}
		v.set(col, row, GlyphStructure, styleStructure)
		if e.Shield > 0 {
			v.set(col-1, row, '(', styleShield)
			v.set(col+1, row, ')', styleShield)
		}
	case core.RenderPlayer:
		v.plot(e.Pos, Heading(e.Rot.Y), stylePlayer)
	case core.RenderEnemy:
		switch e.AI {
		case core.AIExploding:
			v.plot(e.Pos, GlyphBlast, styleBlast)
		case core.AISiege:
			v.plot(e.Pos, GlyphSiege, styleSiege)
		default:
			v.plot(e.Pos, GlyphEnemy, styleEnemy)
		}
	case core.RenderPlayerShot:
		v.plot(e.Pos, GlyphShot, stylePlayerHit)
	case core.RenderEnemyShot:
		v.plot(e.Pos, GlyphEnemyShot, styleEnemyShot)
	}
}

// Heading picks an arrow for a yaw angle. Yaw 0 faces +Z, which is up.
func Heading(yaw float64) rune {
	a := math.Mod(yaw, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	switch int(math.Round(a/(math.Pi/2))) % 4 {
	case 1:
		return '>'
	case 2:
		return 'v'
	case 3:
		return '<'
	}
	return '^'
}

func (v *View) text(col, row int, s string, style tcell.Style) int {
	for _, r := range s {
		v.set(col, row, r, style)
		col++
	}
	return col
}

func (v *View) drawHUD(snap game.Snapshot) {
	w, h := v.screen.Size()
	st := snap.State
	top := fmt.Sprintf(" SCORE %-6d LEVEL %-3d %s", st.Score, st.Level, game.WaveLine(snap.Wave))
	v.text(0, 0, top, styleDefault)

	col := v.text(0, h-1, " SHIELD ", styleDim)
	col = v.text(col, h-1, Bar(st.DysonShield, st.DysonMaxShield, 12), styleShield)
	col = v.text(col, h-1, "  CORE ", styleDim)
	col = v.text(col, h-1, Bar(st.DysonHealth, st.DysonMaxHealth, 12), styleStructure)
	col = v.text(col, h-1, "  HULL ", styleDim)
	v.text(col, h-1, Bar(st.PlayerHealth, st.PlayerMaxHealth, 12), stylePlayer)

	clock := fmt.Sprintf("T+%02d:%02d ", int(snap.Time)/60, int(snap.Time)%60)
	v.text(w-len(clock), 0, clock, styleDim)
}

func (v *View) drawOverlay(snap game.Snapshot) {
	var lines []string
	switch snap.Loop {
	case core.LoopMenu:
		lines = []string{
			"DYSON SIEGE",
			"",
			"ENTER start    Q quit",
			"wasd move  space/c up/down  CAPS boost",
			"arrows aim  j/f fire  p pause  m mute",
		}
	case core.LoopPaused:
		lines = []string{"PAUSED", "", "P resume    R restart    Q quit"}
	case core.LoopGameOver:
		reason := "SPHERE DESTROYED"
		if snap.State.DysonHealth > 0 {
			reason = "PILOT LOST"
		}
		lines = append([]string{reason, ""}, game.SummaryLines(snap.State, snap.Time)...)
		lines = append(lines, "", "ENTER play again    Q quit")
	default:
		return
	}

	w, h := v.screen.Size()
	row := h/2 - len(lines)/2
	for i, line := range lines {
		style := styleDefault
		if i == 0 {
			style = styleBanner
		}
		v.text(max(0, (w-len(line))/2), row+i, line, style)
	}
}

// Bar renders cur/max as a fixed-width gauge
func Bar(cur, maxv float64, width int) string {
	filled := 0
	if maxv > 0 {
		filled = int(math.Round(float64(width) * math.Max(0, math.Min(1, cur/maxv))))
	}
	b := make([]rune, width)
	for i := range b {
		if i < filled {
			b[i] = '#'
		} else {
			b[i] = '-'
		}
	}
	return "[" + string(b) + "]"
}
