package core

import "math"

// Vec3 is a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-10 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

// DistanceTo returns euclidean distance to another point
func (v Vec3) DistanceTo(o Vec3) float64 { return v.Sub(o).Len() }

// Vec2 is a 2D axis pair used by input intents
type Vec2 struct {
	X, Y float64
}

// Forward returns the unit facing vector for a pitch/yaw pair.
// Yaw 0 faces +Z, positive pitch tilts toward +Y.
func Forward(pitch, yaw float64) Vec3 {
	cp := math.Cos(pitch)
	return Vec3{cp * math.Sin(yaw), math.Sin(pitch), cp * math.Cos(yaw)}
}

// RandomUnit returns a uniformly distributed direction
func RandomUnit(r interface{ NormFloat64() float64 }) Vec3 {
	for {
		v := Vec3{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}
		if v.Len() > 1e-6 {
			return v.Normalize()
		}
	}
}
