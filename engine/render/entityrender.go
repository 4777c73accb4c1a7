package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

func (r *Renderer) drawEntity(screen *ebiten.Image, e game.EntityView) {
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	radius := r.radiusFor(e.Kind) * scale
	if !r.Camera.Visible(e.Pos, radius+4) {
		return
	}
	x, y := r.Camera.WorldToScreen(e.Pos)
	pr := max(r.Camera.Length(radius), 2)

	switch e.Kind {
	case core.RenderStructure:
		vector.DrawFilledCircle(screen, x, y, pr, structureCore, true)
		vector.StrokeCircle(screen, x, y, pr*1.15, 2, structureRing, true)
		if e.Shield > 0 {
			vector.StrokeCircle(screen, x, y, pr*1.4, 3, fade(shieldColor, uint8(40+160*e.Shield)), true)
		}
		drawBar(screen, x-pr, y+pr*1.6, pr*2, e.Health, structureCore)

	case core.RenderPlayer:
		r.drawCraft(screen, x, y, pr, e.Rot.Y, playerColor)
		drawBar(screen, x-pr, y+pr+4, pr*2, e.Health, playerColor)

	case core.RenderEnemy:
		if e.AI == core.AIExploding {
			c := fade(blastColor, uint8(255*(1-e.Blast)))
			vector.DrawFilledCircle(screen, x, y, pr*(1+2*float32(e.Blast)), c, true)
			return
		}
		clr := enemyColor
		if e.AI == core.AISiege {
			clr = siegeColor
		}
		r.drawCraft(screen, x, y, pr, e.Rot.Y, clr)
		if e.Health < 1 {
			drawBar(screen, x-pr, y+pr+3, pr*2, e.Health, clr)
		}

	case core.RenderPlayerShot:
		vector.DrawFilledCircle(screen, x, y, max(pr, 1.5), playerShot, true)

	case core.RenderEnemyShot:
		vector.DrawFilledCircle(screen, x, y, max(pr, 1.5), enemyShot, true)
	}
}

func (r *Renderer) radiusFor(k core.RenderKind) float64 {
	switch k {
	case core.RenderStructure:
		return r.StructureRadius
	case core.RenderPlayer:
		return r.PlayerRadius
	case core.RenderEnemy:
		return r.EnemyRadius
	}
	return 0.5
}

// drawCraft draws a triangle pointing along yaw. Yaw 0 faces +Z, which
// is screen up.
func (r *Renderer) drawCraft(screen *ebiten.Image, x, y, size float32, yaw float64, clr color.RGBA) {
	pt := func(a float64, l float32) (float32, float32) {
		return x + l*float32(math.Sin(a)), y - l*float32(math.Cos(a))
	}
	nx, ny := pt(yaw, size*1.4)
	lx, ly := pt(yaw+2.5, size)
	rx, ry := pt(yaw-2.5, size)

	var path vector.Path
	path.MoveTo(nx, ny)
	path.LineTo(lx, ly)
	path.LineTo(x, y)
	path.LineTo(rx, ry)
	path.Close()
	fillPath(screen, &path, clr)
}

// fillPath fills a vector path with a solid color
func fillPath(screen *ebiten.Image, path *vector.Path, clr color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	screen.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var white *ebiten.Image

func whitePixel() *ebiten.Image {
	if white == nil {
		white = ebiten.NewImage(3, 3)
		white.Fill(color.White)
	}
	return white
}

// drawBar draws a small health bar with frac in [0,1]
func drawBar(screen *ebiten.Image, x, y, w float32, frac float64, clr color.RGBA) {
	frac = math.Max(0, math.Min(1, frac))
	vector.DrawFilledRect(screen, x, y, w, 3, color.RGBA{30, 30, 40, 200}, false)
	vector.DrawFilledRect(screen, x, y, w*float32(frac), 3, clr, false)
}
