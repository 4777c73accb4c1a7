package systems

import (
	"math/rand"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

// DamageModifier scales incoming damage per pool
type DamageModifier struct {
	Shield float64
	Hull   float64
}

// Direct applies damage unscaled
var Direct = DamageModifier{Shield: 1, Hull: 1}

// DamageResult reports how much each pool actually lost
type DamageResult struct {
	Shield float64
	Hull   float64
	Killed bool // health reached zero in this application
}

// ApplyDamage hits the shield first; whatever the shield cannot absorb
// carries through to health in the same call. Missing components are
// skipped.
func ApplyDamage(w *core.World, id core.EntityID, amount float64, mod DamageModifier) DamageResult {
	var res DamageResult
	if amount <= 0 {
		return res
	}
	if mod.Shield <= 0 {
		mod.Shield = 1
	}

	remaining := amount
	if sh, ok := core.Get[*core.Shield](w, id); ok {
		sh.LastHitTime = w.Time
		sh.IsRegenerating = false
		if sh.Current > 0 {
			scaled := remaining * mod.Shield
			if scaled <= sh.Current {
				sh.Current -= scaled
				res.Shield = scaled
				remaining = 0
			} else {
				res.Shield = sh.Current
				// Convert the unabsorbed part back to raw damage
				remaining = (scaled - sh.Current) / mod.Shield
				sh.Current = 0
			}
			sh.Clamp()
		}
	}

	if remaining <= 0 {
		return res
	}
	hp, ok := core.Get[*core.Health](w, id)
	if !ok {
		return res
	}
	before := hp.Current
	hp.Current -= remaining * mod.Hull
	hp.Clamp()
	res.Hull = before - hp.Current
	res.Killed = before > 0 && hp.Current <= 0
	return res
}

// ProjectileSpec describes one discrete shot
type ProjectileSpec struct {
	Origin    core.Vec3
	Direction core.Vec3
	Speed     float64
	Lifetime  float64
	Damage    float64
	MaxRange  float64
	HitRadius float64
	Owner     core.EntityID
	Faction   core.Faction
}

// SpawnProjectile creates a projectile entity
func SpawnProjectile(w *core.World, spec ProjectileSpec) core.EntityID {
	id := w.CreateEntity()
	w.AddComponent(id, &core.Position{Vec3: spec.Origin})
	w.AddComponent(id, &core.Projectile{
		Direction: spec.Direction.Normalize(),
		Speed:     spec.Speed,
		Lifetime:  spec.Lifetime,
		Damage:    spec.Damage,
		Owner:     spec.Owner,
		Faction:   spec.Faction,
		Origin:    spec.Origin,
		MaxRange:  spec.MaxRange,
		HitRadius: spec.HitRadius,
	})
	kind := core.RenderPlayerShot
	if spec.Faction == core.FactionEnemy {
		kind = core.RenderEnemyShot
	}
	w.AddComponent(id, &core.Renderable{Kind: kind, Scale: 1})
	return id
}

// Scatter tilts dir by a random angle of at most about spread radians
func Scatter(dir core.Vec3, spread float64, r *rand.Rand) core.Vec3 {
	if spread <= 0 {
		return dir.Normalize()
	}
	offset := core.RandomUnit(r).Scale(spread * r.Float64())
	return dir.Normalize().Add(offset).Normalize()
}

// WeaponSystem processes laser cooldowns and player fire intents
type WeaponSystem struct {
	Config  config.Weapon
	Metrics *telemetry.Metrics
}

func (s *WeaponSystem) Priority() int { return 20 }

func (s *WeaponSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompLaserCooldown) {
		if cd, ok := core.Get[*core.LaserCooldown](w, id); ok {
			cd.Tick(dt)
		}
	}

	if !w.Input.Fire {
		return
	}
	for _, id := range w.Query(core.CompPlayer, core.CompPosition) {
		cd, ok := core.Get[*core.LaserCooldown](w, id)
		if !ok {
			// First trigger pull arms the weapon
			cd = &core.LaserCooldown{Max: s.Config.Cooldown, CanFire: true}
			w.AddComponent(id, cd)
		}
		if !cd.CanFire {
			continue
		}
		s.fire(w, id)
		cd.Reset()
	}
}

func (s *WeaponSystem) fire(w *core.World, id core.EntityID) {
	pos, ok := core.Get[*core.Position](w, id)
	if !ok {
		return
	}
	forward := core.V3(0, 0, 1)
	if rot, ok := core.Get[*core.Rotation](w, id); ok {
		forward = rot.Forward()
	}
	right := forward.Cross(core.V3(0, 1, 0)).Normalize()
	if right.Len() == 0 {
		right = core.V3(1, 0, 0)
	}

	n := max(s.Config.ProjectilesPerShot, 1)
	for i := 0; i < n; i++ {
		lateral := 0.0
		if n > 1 {
			lateral = -s.Config.MuzzleOffset + 2*s.Config.MuzzleOffset*float64(i)/float64(n-1)
		}
		SpawnProjectile(w, ProjectileSpec{
			Origin:    pos.Add(right.Scale(lateral)),
			Direction: Scatter(forward, s.Config.Spread, w.Rand),
			Speed:     s.Config.ProjectileSpeed,
			Lifetime:  s.Config.Lifetime,
			Damage:    s.Config.Damage,
			MaxRange:  s.Config.MaxRange,
			HitRadius: s.Config.HitRadius,
			Owner:     id,
			Faction:   core.FactionPlayer,
		})
		s.Metrics.ShotFired("player")
	}
	w.Emit(core.EvtShotFired, id, pos.Vec3)
}
