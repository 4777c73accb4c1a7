package render

import (
	"math"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// Camera looks straight down the world Y axis. World X maps to screen
// right and world Z to screen up.
type Camera struct {
	X, Z    float64 // camera center (world coords)
	Zoom    float64 // pixels per world unit
	MinZoom float64
	MaxZoom float64
	ScreenW int // viewport width in pixels
	ScreenH int // viewport height in pixels

	// Follow eases the center toward a target, in 1/s. Zero snaps.
	Follow float64
}

// NewCamera creates a camera that fits radius world units into the
// shorter screen side
func NewCamera(screenW, screenH int, radius float64) *Camera {
	c := &Camera{
		MinZoom: 0.1,
		MaxZoom: 8,
		ScreenW: screenW,
		ScreenH: screenH,
		Follow:  4,
	}
	c.Fit(radius)
	return c
}

// Fit picks the zoom at which a circle of radius around the center
// just fits on screen
func (c *Camera) Fit(radius float64) {
	if radius <= 0 {
		c.SetZoom(1)
		return
	}
	side := math.Min(float64(c.ScreenW), float64(c.ScreenH))
	c.SetZoom(side / (2 * radius))
}

// Resize updates the viewport
func (c *Camera) Resize(w, h int) {
	c.ScreenW, c.ScreenH = w, h
}

// SetZoom sets zoom level with clamping
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt scales the zoom by factor while keeping the world point under
// the screen pixel fixed
func (c *Camera) ZoomAt(factor float64, screenX, screenY int) {
	wx, wz := c.ScreenToWorld(screenX, screenY)
	c.SetZoom(c.Zoom * factor)
	wx2, wz2 := c.ScreenToWorld(screenX, screenY)
	c.X += wx - wx2
	c.Z += wz - wz2
}

// CenterOn centers the camera on a world position
func (c *Camera) CenterOn(p core.Vec3) {
	c.X, c.Z = p.X, p.Z
}

// Track moves the center toward p over dt seconds
func (c *Camera) Track(p core.Vec3, dt float64) {
	if c.Follow <= 0 || dt <= 0 {
		c.CenterOn(p)
		return
	}
	k := 1 - math.Exp(-c.Follow*dt)
	c.X += (p.X - c.X) * k
	c.Z += (p.Z - c.Z) * k
}

// WorldToScreen projects a world position to screen pixels
func (c *Camera) WorldToScreen(p core.Vec3) (float32, float32) {
	sx := (p.X-c.X)*c.Zoom + float64(c.ScreenW)/2
	sy := -(p.Z-c.Z)*c.Zoom + float64(c.ScreenH)/2
	return float32(sx), float32(sy)
}

// ScreenToWorld converts a screen pixel to world X/Z
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	wx := (float64(sx)-float64(c.ScreenW)/2)/c.Zoom + c.X
	wz := -(float64(sy)-float64(c.ScreenH)/2)/c.Zoom + c.Z
	return wx, wz
}

// Length converts a world distance to pixels
func (c *Camera) Length(d float64) float32 {
	return float32(d * c.Zoom)
}

// Visible reports whether a circle of radius r at p touches the viewport
func (c *Camera) Visible(p core.Vec3, r float64) bool {
	sx, sy := c.WorldToScreen(p)
	pr := c.Length(r)
	return sx+pr >= 0 && sy+pr >= 0 &&
		sx-pr <= float32(c.ScreenW) && sy-pr <= float32(c.ScreenH)
}
