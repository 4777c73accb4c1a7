package ai

import (
	"math"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// Steer computes a velocity for an enemy seeking target at speed while
// keeping apart from neighbors closer than radius.
func Steer(pos, target core.Vec3, speed float64, neighbors []core.Vec3, radius float64) core.Vec3 {
	to := target.Sub(pos)
	dist := to.Len()
	if dist < 0.01 {
		return core.Vec3{}
	}
	seek := to.Scale(speed / dist)

	// Separation from other enemies
	var sep core.Vec3
	for _, o := range neighbors {
		away := pos.Sub(o)
		d := away.Len()
		if d < radius && d > 0.001 {
			force := (radius - d) / radius
			sep = sep.Add(away.Scale(force * speed * 0.5 / d))
		}
	}

	v := seek.Add(sep)
	if l := v.Len(); l > speed {
		v = v.Scale(speed / l)
	}
	return v
}

// FaceToward returns the pitch and yaw that point along dir
func FaceToward(dir core.Vec3) (pitch, yaw float64) {
	d := dir.Normalize()
	if d.Len() == 0 {
		return 0, 0
	}
	return math.Asin(max(-1, min(1, d.Y))), math.Atan2(d.X, d.Z)
}
