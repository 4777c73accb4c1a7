package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// drag bleeds particle speed per second; there is no gravity in orbit
const drag = 1.8

// Particle is a single spark or puff of debris
type Particle struct {
	Pos     core.Vec3
	Vel     core.Vec3
	Color   color.RGBA
	Alpha   float64
	Size    float64
	Life    float64
	MaxLife float64
}

// ParticleSystem manages short-lived visual particles. It has no effect
// on the simulation.
type ParticleSystem struct {
	Particles []Particle
	// Max bounds the live particle count; the oldest are dropped first
	Max int
}

func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{Max: 2000}
}

// AddExplosion spawns a ring of sparks and smoke at pos. size scales the
// spread in world units.
func (ps *ParticleSystem) AddExplosion(pos core.Vec3, size float64) {
	for i := 0; i < 20; i++ {
		angle := float64(i) / 20.0 * 2 * math.Pi
		speed := size * (2 + float64(i%5)*1.2)
		ps.add(Particle{
			Pos:     pos,
			Vel:     core.V3(math.Cos(angle)*speed, 0, math.Sin(angle)*speed),
			Color:   color.RGBA{255, uint8(150 + (i%5)*20), 25, 255},
			Alpha:   1.0,
			Size:    size * (0.3 + float64(i%3)*0.1),
			MaxLife: 0.5 + float64(i%4)*0.15,
		})
	}
	// Smoke
	for i := 0; i < 8; i++ {
		angle := float64(i) / 8.0 * 2 * math.Pi
		ps.add(Particle{
			Pos:     pos,
			Vel:     core.V3(math.Cos(angle)*size, 0, math.Sin(angle)*size),
			Color:   color.RGBA{80, 80, 90, 255},
			Alpha:   0.7,
			Size:    size * 0.6,
			MaxLife: 1.0 + float64(i%3)*0.3,
		})
	}
}

// AddMuzzleFlash spawns a brief flash at pos
func (ps *ParticleSystem) AddMuzzleFlash(pos core.Vec3) {
	ps.add(Particle{
		Pos:     pos,
		Color:   color.RGBA{255, 230, 80, 255},
		Alpha:   1.0,
		Size:    0.8,
		MaxLife: 0.1,
	})
}

func (ps *ParticleSystem) add(p Particle) {
	if ps.Max > 0 && len(ps.Particles) >= ps.Max {
		ps.Particles = ps.Particles[1:]
	}
	ps.Particles = append(ps.Particles, p)
}

// Update advances particles
func (ps *ParticleSystem) Update(dt float64) {
	alive := ps.Particles[:0]
	damp := math.Exp(-drag * dt)
	for i := range ps.Particles {
		p := &ps.Particles[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel = p.Vel.Scale(damp)
		// Fade
		p.Alpha = 1.0 - p.Life/p.MaxLife
		alive = append(alive, *p)
	}
	ps.Particles = alive
}

// Draw renders every live particle as a fading dot
func (ps *ParticleSystem) Draw(screen *ebiten.Image, cam *Camera) {
	for _, p := range ps.Particles {
		if p.Alpha < 0.01 || !cam.Visible(p.Pos, p.Size) {
			continue
		}
		x, y := cam.WorldToScreen(p.Pos)
		r := max(cam.Length(p.Size), 1)
		vector.DrawFilledCircle(screen, x, y, r, fade(p.Color, uint8(255*p.Alpha)), true)
	}
}
