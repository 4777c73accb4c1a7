package systems

import (
	"math"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

// maxPitch keeps the camera just short of vertical
const maxPitch = math.Pi/2 - 0.01

// InputSystem turns the frame's intent into rotation and acceleration
// for every input-driven entity.
type InputSystem struct {
	Config config.Player
}

func (s *InputSystem) Priority() int { return 5 }

func (s *InputSystem) Update(w *core.World, dt float64) {
	in := w.Input.Normalized()
	for _, id := range w.Query(core.CompInputReceiver, core.CompVelocity) {
		vel, _ := core.Get[*core.Velocity](w, id)

		yaw := 0.0
		if rot, ok := core.Get[*core.Rotation](w, id); ok {
			rot.Y += in.Look.X * s.Config.LookSensitivity
			rot.X = max(-maxPitch, min(maxPitch, rot.X+in.Look.Y*s.Config.LookSensitivity))
			yaw = rot.Y
		}

		// Movement stays in the horizontal plane regardless of pitch
		forward := core.V3(math.Sin(yaw), 0, math.Cos(yaw))
		right := core.V3(math.Cos(yaw), 0, -math.Sin(yaw))
		dir := right.Scale(in.MoveAxis.X).
			Add(forward.Scale(in.MoveAxis.Y)).
			Add(core.V3(0, float64(in.VerticalAxis), 0))
		if dir.Len() > 1 {
			dir = dir.Normalize()
		}

		accel, limit := s.Config.Acceleration, s.Config.MaxSpeed
		if in.Boost && s.Config.BoostMultiplier > 0 {
			accel *= s.Config.BoostMultiplier
			limit *= s.Config.BoostMultiplier
		}

		vel.Vec3 = vel.Add(dir.Scale(accel * dt))
		if sp := vel.Len(); limit > 0 && sp > limit {
			vel.Vec3 = vel.Scale(limit / sp)
		}
	}
}
