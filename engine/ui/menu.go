package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
	"github.com/1siamBot/dyson-siege/engine/render"
)

// Version is printed in the corner of the title screen
const Version = "0.3.0"

// MenuButton represents a clickable menu button. Command is sent to the
// session when it is clicked; an empty Command runs OnExit.
type MenuButton struct {
	X, Y, W, H int
	Text       string
	Command    game.Command
}

// Contains reports whether the screen point lies on the button
func (b MenuButton) Contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

var (
	menuBG      = color.RGBA{8, 8, 16, 255}
	menuPanel   = color.RGBA{15, 15, 30, 230}
	menuBorder  = color.RGBA{0, 140, 200, 255}
	menuAccent  = color.RGBA{0, 200, 255, 255}
	menuBtnNorm = color.RGBA{25, 35, 55, 240}
	menuBtnHov  = color.RGBA{35, 55, 90, 255}
	menuText    = color.RGBA{200, 220, 255, 255}
	menuTextDim = color.RGBA{100, 120, 150, 255}
	menuGold    = color.RGBA{255, 200, 50, 255}
	menuRed     = color.RGBA{220, 50, 50, 255}
)

// MenuSystem draws the title, pause and game over overlays and turns
// clicks on them into session commands
type MenuSystem struct {
	ScreenW int
	ScreenH int
	Tick    float64

	OnExit func()

	hoverIdx int
}

func NewMenuSystem(screenW, screenH int) *MenuSystem {
	return &MenuSystem{
		ScreenW:  screenW,
		ScreenH:  screenH,
		hoverIdx: -1,
	}
}

// Buttons lays out the buttons shown in the given loop state
func (m *MenuSystem) Buttons(loop core.LoopState) []MenuButton {
	type entry struct {
		text string
		cmd  game.Command
	}
	var entries []entry
	startY := m.ScreenH/2 - 20
	switch loop {
	case core.LoopMenu:
		entries = []entry{{"START", game.CmdStart}, {"EXIT", ""}}
	case core.LoopPaused:
		entries = []entry{{"RESUME", game.CmdResume}, {"RESTART", game.CmdRestart}, {"EXIT", ""}}
		startY = m.ScreenH/2 - 60
	case core.LoopGameOver:
		entries = []entry{{"PLAY AGAIN", game.CmdRestart}, {"EXIT", ""}}
		startY = m.ScreenH/2 + 70
	default:
		return nil
	}

	cx := m.ScreenW / 2
	bw, bh, gap := 240, 36, 8
	buttons := make([]MenuButton, len(entries))
	for i, e := range entries {
		buttons[i] = MenuButton{
			X: cx - bw/2, Y: startY + i*(bh+gap),
			W: bw, H: bh, Text: e.text, Command: e.cmd,
		}
	}
	return buttons
}

// Update tracks hover and returns the command for a click, if any.
// A click on EXIT runs OnExit and returns false.
func (m *MenuSystem) Update(dt float64, loop core.LoopState, mx, my int, clicked bool) (game.Command, bool) {
	m.Tick += dt
	m.hoverIdx = -1
	buttons := m.Buttons(loop)
	for i, b := range buttons {
		if b.Contains(mx, my) {
			m.hoverIdx = i
		}
	}
	if !clicked || m.hoverIdx < 0 {
		return "", false
	}
	b := buttons[m.hoverIdx]
	if b.Command == "" {
		if m.OnExit != nil {
			m.OnExit()
		}
		return "", false
	}
	return b.Command, true
}

// Draw renders the overlay for the snapshot's loop state
func (m *MenuSystem) Draw(screen *ebiten.Image, snap game.Snapshot) {
	switch snap.Loop {
	case core.LoopMenu:
		m.drawMainMenu(screen)
	case core.LoopPaused:
		m.drawPauseMenu(screen)
	case core.LoopGameOver:
		m.drawGameOver(screen, snap)
	}
}

// ==================== MAIN MENU ====================

func (m *MenuSystem) drawMainMenu(screen *ebiten.Image) {
	screen.Fill(menuBG)
	m.drawAnimatedBG(screen)
	m.drawTitle(screen)
	m.drawButtons(screen, m.Buttons(core.LoopMenu))

	help := []string{
		"WASD move   SPACE/C up/down   SHIFT boost",
		"MOUSE or ARROWS aim   CLICK or J fire   P pause",
	}
	for i, line := range help {
		m.centered(screen, line, m.ScreenH-70+i*18, menuTextDim)
	}
	ebitenutil.DebugPrintAt(screen, "Dyson Siege v"+Version, 10, m.ScreenH-20)
}

func (m *MenuSystem) drawTitle(screen *ebiten.Image) {
	cx := m.ScreenW / 2
	title := "DYSON SIEGE"
	subtitle := "HOLD THE SPHERE"

	pulse := 0.7 + 0.3*math.Sin(m.Tick*2)
	titleW := render.TextWidth(title) * 2
	vector.DrawFilledRect(screen, float32(cx-titleW/2-20), 60, float32(titleW+40), 70,
		color.NRGBA{0, 100, 180, uint8(40 * pulse)}, false)

	ty := 80
	// Fake bold by overdrawing with offsets
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			render.DrawText(screen, title, cx-render.TextWidth(title)/2+dx, ty+dy, menuGold)
		}
	}
	lineY := float32(ty + 22)
	vector.DrawFilledRect(screen, float32(cx-120), lineY, 240, 2, menuAccent, false)
	vector.DrawFilledRect(screen, float32(cx-120), lineY-1, 240, 4, color.NRGBA{0, 180, 255, 40}, false)

	m.centered(screen, subtitle, ty+32, menuText)
}

func (m *MenuSystem) drawAnimatedBG(screen *ebiten.Image) {
	t := m.Tick
	// Orbit rings around a pulsing core
	cx, cy := float32(m.ScreenW)/2, float32(m.ScreenH)/2+40
	glow := float32(18 + 3*math.Sin(t*3))
	vector.DrawFilledCircle(screen, cx, cy, glow, color.NRGBA{255, 190, 60, 90}, true)
	for i := 1; i <= 4; i++ {
		r := float32(i) * 60
		vector.StrokeCircle(screen, cx, cy, r, 1, color.NRGBA{0, 80, 120, 40}, true)
		a := t*(0.6/float64(i)) + float64(i)
		px := cx + r*float32(math.Cos(a))
		py := cy + r*float32(math.Sin(a))
		vector.DrawFilledCircle(screen, px, py, 2.5, color.NRGBA{230, 70, 70, 160}, true)
	}

	for i := 0; i < 30; i++ {
		px := float32(math.Mod(float64(i)*43.7+t*10+float64(i*i)*0.3, float64(m.ScreenW)))
		py := float32(math.Mod(float64(i)*67.3+t*5+float64(i)*1.7, float64(m.ScreenH)))
		alpha := uint8(20 + 20*math.Sin(t*2+float64(i)))
		vector.DrawFilledCircle(screen, px, py, 1.5, color.NRGBA{0, 180, 255, alpha}, false)
	}
}

// ==================== PAUSE ====================

func (m *MenuSystem) drawPauseMenu(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(m.ScreenW), float32(m.ScreenH), color.RGBA{0, 0, 0, 160}, false)

	buttons := m.Buttons(core.LoopPaused)
	panelW, panelH := 300, len(buttons)*44+80
	px := float32(m.ScreenW/2 - panelW/2)
	py := float32(buttons[0].Y - 60)
	m.drawPanel(screen, px, py, float32(panelW), float32(panelH))

	m.centered(screen, "PAUSED", int(py)+20, menuText)
	vector.DrawFilledRect(screen, px+20, py+38, float32(panelW-40), 2, menuAccent, false)

	m.drawButtons(screen, buttons)
}

// ==================== GAME OVER ====================

func (m *MenuSystem) drawGameOver(screen *ebiten.Image, snap game.Snapshot) {
	vector.DrawFilledRect(screen, 0, 0, float32(m.ScreenW), float32(m.ScreenH), color.RGBA{0, 0, 0, 180}, false)

	cx, cy := m.ScreenW/2, m.ScreenH/2
	panelW, panelH := 400, 320
	px := float32(cx - panelW/2)
	py := float32(cy - panelH/2 - 20)
	m.drawPanel(screen, px, py, float32(panelW), float32(panelH))

	reason := "SPHERE DESTROYED"
	if snap.State.DysonHealth > 0 {
		reason = "PILOT LOST"
	}
	ty := int(py) + 30
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			render.DrawText(screen, reason, cx-render.TextWidth(reason)/2+dx, ty+dy, menuRed)
		}
	}
	vector.DrawFilledRect(screen, float32(cx-60), float32(ty+20), 120, 3, menuRed, false)

	for i, line := range game.SummaryLines(snap.State, snap.Time) {
		m.centered(screen, line, ty+44+i*22, menuText)
	}
	m.drawButtons(screen, m.Buttons(core.LoopGameOver))
}

// ==================== DRAWING HELPERS ====================

func (m *MenuSystem) drawButtons(screen *ebiten.Image, buttons []MenuButton) {
	for i, b := range buttons {
		m.drawMenuButton(screen, b, i == m.hoverIdx)
	}
}

func (m *MenuSystem) drawMenuButton(screen *ebiten.Image, b MenuButton, hovered bool) {
	clr := menuBtnNorm
	if hovered {
		clr = menuBtnHov
	}
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), clr, false)

	borderClr := color.RGBA{40, 70, 120, 200}
	if hovered {
		borderClr = menuAccent
	}
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1.5, borderClr, false)

	tx := b.X + (b.W-render.TextWidth(b.Text))/2
	ty := b.Y + b.H/2 - 7
	render.DrawText(screen, b.Text, tx, ty, menuText)
}

func (m *MenuSystem) drawPanel(screen *ebiten.Image, x, y, w, h float32) {
	vector.DrawFilledRect(screen, x, y, w, h, menuPanel, false)
	vector.StrokeRect(screen, x, y, w, h, 2, menuBorder, false)
}

func (m *MenuSystem) centered(screen *ebiten.Image, s string, y int, clr color.Color) {
	render.DrawText(screen, s, (m.ScreenW-render.TextWidth(s))/2, y, clr)
}
