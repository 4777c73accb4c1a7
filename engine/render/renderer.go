package render

import (
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

var (
	spaceColor    = color.RGBA{4, 4, 12, 255}
	starColor     = color.RGBA{180, 190, 220, 255}
	shellColor    = color.RGBA{40, 60, 110, 120}
	gridColor     = color.RGBA{20, 30, 55, 90}
	structureCore = color.RGBA{255, 190, 60, 255}
	structureRing = color.RGBA{255, 230, 140, 255}
	shieldColor   = color.RGBA{80, 180, 255, 255}
	playerColor   = color.RGBA{90, 255, 160, 255}
	enemyColor    = color.RGBA{230, 70, 70, 255}
	siegeColor    = color.RGBA{255, 120, 40, 255}
	playerShot    = color.RGBA{120, 255, 220, 255}
	enemyShot     = color.RGBA{255, 90, 150, 255}
	beamColor     = color.RGBA{200, 120, 255, 255}
	blastColor    = color.RGBA{255, 200, 80, 255}
)

// flashLife is how long a hit flash stays on screen, in seconds
const flashLife = 0.25

type star struct {
	x, z float64
	size float32
}

type flash struct {
	pos core.Vec3
	age float64
	clr color.RGBA
}

// Renderer draws snapshots from above
type Renderer struct {
	Camera          *Camera
	Arena           config.Arena
	StructureRadius float64
	PlayerRadius    float64
	EnemyRadius     float64

	Particles *ParticleSystem

	stars   []star
	flashes []flash
}

// NewRenderer sizes the camera so the whole arena shell is visible
func NewRenderer(screenW, screenH int, cfg config.Config) *Renderer {
	r := &Renderer{
		Camera:          NewCamera(screenW, screenH, cfg.Arena.MaxDistance*0.6),
		Arena:           cfg.Arena,
		StructureRadius: cfg.Structure.Radius,
		PlayerRadius:    cfg.Player.ColliderRadius,
		EnemyRadius:     cfg.Enemy.ColliderRadius,
		Particles:       NewParticleSystem(),
	}
	// Fixed seed so the backdrop never shimmers between restarts
	rng := rand.New(rand.NewSource(7))
	extent := cfg.Arena.MaxDistance * 1.5
	for range 400 {
		r.stars = append(r.stars, star{
			x:    (rng.Float64()*2 - 1) * extent,
			z:    (rng.Float64()*2 - 1) * extent,
			size: float32(0.5 + rng.Float64()),
		})
	}
	return r
}

// Attach subscribes hit flashes and particle effects to simulation events
func (r *Renderer) Attach(subscribe func(core.EventType, core.EventHandler)) {
	hit := func(clr color.RGBA) core.EventHandler {
		return func(e core.Event) {
			r.flashes = append(r.flashes, flash{pos: e.Pos, clr: clr})
		}
	}
	subscribe(core.EvtEnemyHit, hit(playerShot))
	subscribe(core.EvtStructureHit, hit(shieldColor))
	subscribe(core.EvtPlayerHit, hit(enemyShot))
	subscribe(core.EvtEnemyDestroyed, func(e core.Event) {
		size := r.EnemyRadius
		if p, ok := e.Payload.(core.DestroyedPayload); ok && p.Crashed {
			size *= 1.5
		}
		r.Particles.AddExplosion(e.Pos, size)
	})
	subscribe(core.EvtShotFired, func(e core.Event) {
		r.Particles.AddMuzzleFlash(e.Pos)
	})
}

// Update follows the player and ages transient effects
func (r *Renderer) Update(snap game.Snapshot, dt float64) {
	for _, e := range snap.Entities {
		if e.ID == snap.Player {
			r.Camera.Track(e.Pos, dt)
			break
		}
	}
	live := r.flashes[:0]
	for _, f := range r.flashes {
		f.age += dt
		if f.age < flashLife {
			live = append(live, f)
		}
	}
	r.flashes = live
	r.Particles.Update(dt)
}

// Reset clears transient effects, e.g. after a restart
func (r *Renderer) Reset() {
	r.flashes = nil
	r.Particles.Particles = nil
	r.Camera.CenterOn(core.Vec3{})
}

// Draw renders the arena, entities, beams and flashes
func (r *Renderer) Draw(screen *ebiten.Image, snap game.Snapshot) {
	screen.Fill(spaceColor)
	r.drawBackdrop(screen)

	for _, b := range snap.Beams {
		r.drawBeam(screen, b)
	}
	for _, e := range snap.Entities {
		r.drawEntity(screen, e)
	}
	r.Particles.Draw(screen, r.Camera)
	for _, f := range r.flashes {
		x, y := r.Camera.WorldToScreen(f.pos)
		t := f.age / flashLife
		vector.StrokeCircle(screen, x, y, float32(4+10*t), 1.5, fade(f.clr, uint8(255*(1-t))), true)
	}
}

func (r *Renderer) drawBackdrop(screen *ebiten.Image) {
	// Parallax: stars drift at a fraction of camera motion
	const depth = 0.3
	for _, s := range r.stars {
		p := core.V3(s.x+r.Camera.X*(1-depth), 0, s.z+r.Camera.Z*(1-depth))
		x, y := r.Camera.WorldToScreen(p)
		if x < 0 || y < 0 || x > float32(r.Camera.ScreenW) || y > float32(r.Camera.ScreenH) {
			continue
		}
		vector.DrawFilledRect(screen, x, y, s.size, s.size, starColor, false)
	}

	cx, cy := r.Camera.WorldToScreen(core.Vec3{})
	for d := 100.0; d < r.Arena.MaxDistance; d += 100 {
		vector.StrokeCircle(screen, cx, cy, r.Camera.Length(d), 1, gridColor, true)
	}
	vector.StrokeCircle(screen, cx, cy, r.Camera.Length(r.Arena.MaxDistance), 2, shellColor, true)
	vector.StrokeCircle(screen, cx, cy, r.Camera.Length(r.Arena.MinDistance), 1, shellColor, true)
}

func (r *Renderer) drawBeam(screen *ebiten.Image, b game.BeamView) {
	for i := 1; i < len(b.Points); i++ {
		x0, y0 := r.Camera.WorldToScreen(b.Points[i-1])
		x1, y1 := r.Camera.WorldToScreen(b.Points[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, 5, fade(beamColor, 70), true)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, beamColor, true)
	}
}

// fade returns clr with straight alpha a
func fade(clr color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{clr.R, clr.G, clr.B, a}
}
