package core

// ---- Transform ----

// Position is a world position; the structure sits at the origin
type Position struct {
	Vec3
}

func (p *Position) Type() ComponentType { return CompPosition }

// Velocity is in world units per second
type Velocity struct {
	Vec3
}

func (v *Velocity) Type() ComponentType { return CompVelocity }

// Rotation holds pitch (X), yaw (Y) and roll (Z) in radians
type Rotation struct {
	Vec3
}

func (r *Rotation) Type() ComponentType { return CompRotation }

// Forward returns the facing direction
func (r *Rotation) Forward() Vec3 { return Forward(r.X, r.Y) }

// ---- Health & Shield ----

// Health represents hit points, clamped to [0, Max]
type Health struct {
	Current float64
	Max     float64
}

func (h *Health) Type() ComponentType { return CompHealth }

func (h *Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// Clamp pulls Current back into [0, Max]
func (h *Health) Clamp() {
	h.Current = clamp(h.Current, 0, h.Max)
}

// Alive reports whether any hit points remain
func (h *Health) Alive() bool { return h.Current > 0 }

// Shield absorbs damage before Health. It regenerates only once
// RegenDelay seconds have passed since LastHitTime.
type Shield struct {
	Current        float64
	Max            float64
	LastHitTime    float64
	IsRegenerating bool
	RegenDelay     float64
	RegenRate      float64 // points per second
}

func (s *Shield) Type() ComponentType { return CompShield }

// Clamp pulls Current back into [0, Max]
func (s *Shield) Clamp() {
	s.Current = clamp(s.Current, 0, s.Max)
}

// ---- Combat ----

// Faction decides which targets a projectile can hit
type Faction uint8

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// Projectile is a discrete shot travelling in a straight line
type Projectile struct {
	Direction Vec3 // normalized
	Speed     float64
	Lifetime  float64
	TimeAlive float64
	Damage    float64
	Owner     EntityID
	Faction   Faction
	Origin    Vec3
	MaxRange  float64
	HitRadius float64
}

func (p *Projectile) Type() ComponentType { return CompProjectile }

// LaserCooldown gates the fire rate of one shooter
type LaserCooldown struct {
	Current float64
	Max     float64
	CanFire bool
}

func (l *LaserCooldown) Type() ComponentType { return CompLaserCooldown }

// Reset starts a new cooldown period after a shot
func (l *LaserCooldown) Reset() {
	l.Current = l.Max
	l.CanFire = false
}

// Tick counts the cooldown down and re-arms at zero
func (l *LaserCooldown) Tick(dt float64) {
	if l.CanFire {
		return
	}
	l.Current -= dt
	if l.Current <= 0 {
		l.Current = 0
		l.CanFire = true
	}
}

// Beam is a continuous damage link between an owner and its target.
// Points is the jittered polyline read by renderers.
type Beam struct {
	Owner            EntityID
	Target           EntityID
	Interval         float64
	Timer            float64
	DamagePerTick    float64
	ShieldMultiplier float64
	HullMultiplier   float64
	Segments         int
	Jitter           float64
	Points           []Vec3
}

func (b *Beam) Type() ComponentType { return CompBeam }

// Collider is a hit sphere
type Collider struct {
	Radius float64
}

func (c *Collider) Type() ComponentType { return CompCollider }

// ---- Enemy ----

// AIState is the enemy behavior state. Values only ever increase.
type AIState uint8

const (
	AIApproaching AIState = iota
	AISiege
	AIExploding
)

func (s AIState) String() string {
	switch s {
	case AIApproaching:
		return "approaching"
	case AISiege:
		return "siege"
	case AIExploding:
		return "exploding"
	}
	return "unknown"
}

// Countdown is a timed effect advanced by the frame delta
type Countdown struct {
	Elapsed  float64
	Duration float64
}

// Done reports whether the countdown has run out
func (c Countdown) Done() bool { return c.Elapsed >= c.Duration }

// Enemy holds per-hostile AI data. Target and Beam are weak ids and may
// point at entities that no longer exist.
type Enemy struct {
	State          AIState
	Target         EntityID
	Speed          float64
	AttackDistance float64
	FiringRange    float64
	FireTimer      float64
	SpawnTime      float64
	Beam           EntityID
	Explosion      Countdown
	Crashed        bool
}

func (e *Enemy) Type() ComponentType { return CompEnemy }

// Advance moves to next if it is later in the state order.
// Returns false for any backwards or repeated transition.
func (e *Enemy) Advance(next AIState) bool {
	if next <= e.State {
		return false
	}
	e.State = next
	return true
}

// ---- Rendering & tags ----

// RenderKind tells renderers how to draw an entity
type RenderKind uint8

const (
	RenderNone RenderKind = iota
	RenderStructure
	RenderPlayer
	RenderEnemy
	RenderPlayerShot
	RenderEnemyShot
	RenderBeam
)

// Renderable marks an entity as visible
type Renderable struct {
	Kind  RenderKind
	Scale float64
}

func (r *Renderable) Type() ComponentType { return CompRenderable }

// Player tags the player craft
type Player struct{}

func (p *Player) Type() ComponentType { return CompPlayer }

// Structure tags the defended structure
type Structure struct{}

func (s *Structure) Type() ComponentType { return CompStructure }

// InputReceiver marks an entity as driven by the frame intent
type InputReceiver struct{}

func (i *InputReceiver) Type() ComponentType { return CompInputReceiver }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
