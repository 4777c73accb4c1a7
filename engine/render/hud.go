package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/dyson-siege/engine/game"
)

var (
	hudPanel  = color.RGBA{10, 14, 28, 200}
	hudBorder = color.RGBA{0, 140, 200, 255}
	hudText   = color.RGBA{200, 220, 255, 255}
	hudDim    = color.RGBA{110, 130, 160, 255}
	hudWarn   = color.RGBA{255, 90, 60, 255}
)

// HUD draws the score, vitals and wave status over the arena
type HUD struct {
	ScreenW, ScreenH int
	ShowFPS          bool

	// Threat is the proximity-weighted enemy health around the player,
	// set by the host each frame. ThreatWarn is where the warning shows.
	Threat     float64
	ThreatWarn float64
}

func NewHUD(sw, sh int) *HUD {
	return &HUD{
		ScreenW:    sw,
		ScreenH:    sh,
		ThreatWarn: 100,
	}
}

// Draw renders the HUD for one snapshot
func (h *HUD) Draw(screen *ebiten.Image, snap game.Snapshot) {
	st := snap.State
	h.drawTopBar(screen, snap)

	// Vitals, bottom left
	x, y := float32(12), float32(h.ScreenH-70)
	vector.DrawFilledRect(screen, x-6, y-8, 236, 64, hudPanel, false)
	vector.StrokeRect(screen, x-6, y-8, 236, 64, 1, hudBorder, false)
	h.meter(screen, x, y, "SHIELD", st.DysonShield, st.DysonMaxShield, shieldColor)
	h.meter(screen, x, y+18, "CORE", st.DysonHealth, st.DysonMaxHealth, structureCore)
	h.meter(screen, x, y+36, "HULL", st.PlayerHealth, st.PlayerMaxHealth, playerColor)

	if h.ThreatWarn > 0 && h.Threat >= h.ThreatWarn {
		warn := "HOSTILES CLOSING"
		h.label(screen, warn, (h.ScreenW-TextWidth(warn))/2, 44, hudWarn)
	}

	if h.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f  TPS %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()),
			h.ScreenW-140, h.ScreenH-20)
	}
}

func (h *HUD) drawTopBar(screen *ebiten.Image, snap game.Snapshot) {
	vector.DrawFilledRect(screen, 0, 0, float32(h.ScreenW), 28, hudPanel, false)
	vector.DrawFilledRect(screen, 0, 28, float32(h.ScreenW), 1, hudBorder, false)

	st := snap.State
	h.label(screen, fmt.Sprintf("SCORE %d", st.Score), 12, 8, hudText)
	h.label(screen, fmt.Sprintf("LEVEL %d", st.Level), 150, 8, hudText)
	h.label(screen, game.WaveLine(snap.Wave), 260, 8, hudText)
	h.label(screen, fmt.Sprintf("T+%s", clock(snap.Time)), h.ScreenW-90, 8, hudDim)
}

func clock(sec float64) string {
	s := int(sec)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func (h *HUD) meter(screen *ebiten.Image, x, y float32, name string, cur, maxv float64, clr color.RGBA) {
	h.label(screen, name, int(x), int(y), hudDim)
	frac := 0.0
	if maxv > 0 {
		frac = cur / maxv
	}
	bx := x + 56
	vector.DrawFilledRect(screen, bx, y+2, 120, 9, color.RGBA{30, 30, 40, 220}, false)
	vector.DrawFilledRect(screen, bx, y+2, 120*float32(max(0, min(1, frac))), 9, clr, false)
	h.label(screen, fmt.Sprintf("%4.0f", cur), int(bx)+126, int(y), hudText)
}

func (h *HUD) label(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	DrawText(screen, s, x, y, clr)
}

// face is the fixed-width bitmap font shared by the HUD and menus
var face = text.NewGoXFace(basicfont.Face7x13)

// DrawText draws s with its top-left corner at x, y
func DrawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

// TextWidth returns the pixel width of s
func TextWidth(s string) int {
	w, _ := text.Measure(s, face, 0)
	return int(w)
}
