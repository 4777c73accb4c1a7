package systems

import (
	"math"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

// MovementSystem integrates velocity and keeps bodies inside the arena
// shell around the structure.
type MovementSystem struct {
	MaxDeltaTime    float64
	Friction        float64
	VelocityEpsilon float64
	MinDistance     float64
	MaxDistance     float64
}

// NewMovementSystem builds the system from config sections
func NewMovementSystem(sim config.Simulation, arena config.Arena, player config.Player) *MovementSystem {
	return &MovementSystem{
		MaxDeltaTime:    sim.MaxDeltaTime,
		Friction:        player.Friction,
		VelocityEpsilon: player.VelocityEpsilon,
		MinDistance:     arena.MinDistance,
		MaxDistance:     arena.MaxDistance,
	}
}

func (s *MovementSystem) Priority() int { return 10 }

func (s *MovementSystem) Update(w *core.World, dt float64) {
	if s.MaxDeltaTime > 0 && dt > s.MaxDeltaTime {
		dt = s.MaxDeltaTime
	}
	for _, id := range w.Query(core.CompPosition, core.CompVelocity) {
		pos, _ := core.Get[*core.Position](w, id)
		vel, _ := core.Get[*core.Velocity](w, id)

		pos.Vec3 = pos.Add(vel.Scale(dt))

		if w.HasComponent(id, core.CompInputReceiver) {
			vel.Vec3 = vel.Scale(s.Friction)
			vel.X = s.settle(vel.X)
			vel.Y = s.settle(vel.Y)
			vel.Z = s.settle(vel.Z)
		}

		pos.Vec3 = s.ClampRadial(pos.Vec3)
	}
}

func (s *MovementSystem) settle(v float64) float64 {
	if math.Abs(v) < s.VelocityEpsilon {
		return 0
	}
	return v
}

// ClampRadial rescales p so its distance from the origin lies within
// [MinDistance, MaxDistance]. A point at the origin is pushed out along +X.
func (s *MovementSystem) ClampRadial(p core.Vec3) core.Vec3 {
	d := p.Len()
	switch {
	case d < 1e-9:
		if s.MinDistance > 0 {
			return core.V3(s.MinDistance, 0, 0)
		}
		return p
	case d < s.MinDistance:
		return p.Scale(s.MinDistance / d)
	case s.MaxDistance > 0 && d > s.MaxDistance:
		return p.Scale(s.MaxDistance / d)
	}
	return p
}
