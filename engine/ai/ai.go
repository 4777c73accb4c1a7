package ai

import (
	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/systems"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

const enemyShotHitRadius = 1.0

// KillReporter is told about every enemy removed after its explosion
type KillReporter interface {
	ReportKill(w *core.World, id core.EntityID)
}

// EnemySystem drives every hostile through
// Approaching -> Siege -> Exploding -> removed.
type EnemySystem struct {
	Enemy   config.Enemy
	Beam    config.Beam
	Kills   KillReporter
	Metrics *telemetry.Metrics
}

func (s *EnemySystem) Priority() int { return 40 }

func (s *EnemySystem) Update(w *core.World, dt float64) {
	ids := w.Query(core.CompEnemy, core.CompPosition)

	// Positions of enemies still flying, for separation
	flying := make(map[core.EntityID]core.Vec3, len(ids))
	for _, id := range ids {
		e, _ := core.Get[*core.Enemy](w, id)
		if e.State != core.AIExploding {
			pos, _ := core.Get[*core.Position](w, id)
			flying[id] = pos.Vec3
		}
	}

	for _, id := range ids {
		e, _ := core.Get[*core.Enemy](w, id)
		pos, _ := core.Get[*core.Position](w, id)

		if e.State != core.AIExploding {
			if hp, ok := core.Get[*core.Health](w, id); ok && !hp.Alive() {
				s.explode(w, id, e, pos.Vec3, false)
				continue
			}
		}

		switch e.State {
		case core.AIApproaching:
			s.approach(w, id, e, pos, dt, ids, flying)
		case core.AISiege:
			s.siege(w, id, e, pos, dt)
		case core.AIExploding:
			e.Explosion.Elapsed += dt
			if e.Explosion.Done() {
				s.remove(w, id, e)
			}
		}
	}
}

func (s *EnemySystem) approach(w *core.World, id core.EntityID, e *core.Enemy, pos *core.Position, dt float64, order []core.EntityID, flying map[core.EntityID]core.Vec3) {
	target, ok := s.resolveTarget(w, id, e)
	if !ok {
		return
	}
	to := target.Sub(pos.Vec3)
	dist := to.Len()
	s.face(w, id, to)

	if dist <= e.AttackDistance {
		if e.Advance(core.AISiege) {
			e.Beam = systems.AttachBeam(w, id, e.Target, s.Beam)
			w.Log.Debug().Uint64("enemy", uint64(id)).Uint64("target", uint64(e.Target)).Msg("siege engaged")
		}
		return
	}

	e.FireTimer -= dt
	if e.FireTimer <= 0 && dist <= e.FiringRange {
		s.fire(w, id, pos.Vec3, to)
		e.FireTimer = s.Enemy.FireInterval
	}

	var neighbors []core.Vec3
	for _, oid := range order {
		p, ok := flying[oid]
		if ok && oid != id && p.DistanceTo(pos.Vec3) < s.Enemy.SeparationRadius {
			neighbors = append(neighbors, p)
		}
	}
	v := Steer(pos.Vec3, target, e.Speed, neighbors, s.Enemy.SeparationRadius)
	pos.Vec3 = pos.Add(v.Scale(dt))
	flying[id] = pos.Vec3
}

func (s *EnemySystem) siege(w *core.World, id core.EntityID, e *core.Enemy, pos *core.Position, dt float64) {
	target, ok := s.resolveTarget(w, id, e)
	if !ok {
		return
	}
	to := target.Sub(pos.Vec3)
	dist := to.Len()
	s.face(w, id, to)

	if dist < s.Enemy.ContactRadius {
		res := systems.ApplyDamage(w, e.Target, s.Enemy.CrashDamage, systems.Direct)
		s.Metrics.DamageDealt(res.Shield, res.Hull)
		w.Emit(systems.HitEvent(w, e.Target), e.Target, target)
		s.explode(w, id, e, pos.Vec3, true)
		return
	}

	if s.Enemy.SiegeDriftSpeed > 0 && dist > 0 {
		step := min(s.Enemy.SiegeDriftSpeed*dt, dist)
		pos.Vec3 = pos.Add(to.Scale(step / dist))
	}

	if !ownsBeam(w, id, e) {
		e.Beam = systems.AttachBeam(w, id, e.Target, s.Beam)
	}
}

// resolveTarget dereferences the enemy's weak target. A target that no
// longer exists releases the beam and falls back to the structure.
func (s *EnemySystem) resolveTarget(w *core.World, id core.EntityID, e *core.Enemy) (core.Vec3, bool) {
	if targetable(w, e.Target) {
		pos, _ := core.Get[*core.Position](w, e.Target)
		return pos.Vec3, true
	}
	s.releaseBeam(w, id, e)
	e.Target = w.First(core.CompStructure, core.CompPosition)
	if e.Target == 0 {
		return core.Vec3{}, false
	}
	pos, _ := core.Get[*core.Position](w, e.Target)
	return pos.Vec3, true
}

func targetable(w *core.World, id core.EntityID) bool {
	if !w.HasComponent(id, core.CompPosition) {
		return false
	}
	return w.HasComponent(id, core.CompStructure) || w.HasComponent(id, core.CompPlayer)
}

func (s *EnemySystem) fire(w *core.World, id core.EntityID, from, to core.Vec3) {
	systems.SpawnProjectile(w, systems.ProjectileSpec{
		Origin:    from,
		Direction: to,
		Speed:     s.Enemy.ShotSpeed,
		Lifetime:  s.Enemy.ShotLifetime,
		Damage:    s.Enemy.ShotDamage,
		HitRadius: enemyShotHitRadius,
		Owner:     id,
		Faction:   core.FactionEnemy,
	})
	s.Metrics.ShotFired("enemy")
	w.Emit(core.EvtShotFired, id, from)
}

// explode starts the explosion countdown. Kills by weapon fire score.
func (s *EnemySystem) explode(w *core.World, id core.EntityID, e *core.Enemy, at core.Vec3, crashed bool) {
	if !e.Advance(core.AIExploding) {
		return
	}
	e.Crashed = crashed
	e.Explosion = core.Countdown{Duration: s.Enemy.KilledExplosion}
	if crashed {
		e.Explosion.Duration = s.Enemy.CrashExplosion
	} else {
		w.State.AddScore(s.Enemy.ScoreValue)
	}
	s.releaseBeam(w, id, e)
	if r, ok := core.Get[*core.Renderable](w, id); ok {
		r.Scale = 2
	}
	w.Events.Emit(core.Event{
		Type:    core.EvtEnemyDestroyed,
		Tick:    w.TickCount,
		Entity:  id,
		Pos:     at,
		Payload: core.DestroyedPayload{Crashed: crashed},
	})
}

func (s *EnemySystem) remove(w *core.World, id core.EntityID, e *core.Enemy) {
	s.releaseBeam(w, id, e)
	crashed := e.Crashed
	w.DestroyEntity(id)
	s.Metrics.EnemyKilled(crashed)
	if s.Kills != nil {
		s.Kills.ReportKill(w, id)
	}
}

// ownsBeam reports whether e.Beam still refers to a beam fired by id.
// Beam ids are weak and may have been recycled.
func ownsBeam(w *core.World, id core.EntityID, e *core.Enemy) bool {
	b, ok := core.Get[*core.Beam](w, e.Beam)
	return ok && b.Owner == id
}

func (s *EnemySystem) releaseBeam(w *core.World, id core.EntityID, e *core.Enemy) {
	if ownsBeam(w, id, e) {
		w.DestroyEntity(e.Beam)
	}
	e.Beam = 0
}

func (s *EnemySystem) face(w *core.World, id core.EntityID, dir core.Vec3) {
	rot, ok := core.Get[*core.Rotation](w, id)
	if !ok {
		return
	}
	rot.X, rot.Y = FaceToward(dir)
}

// SpawnEnemy creates an enemy in the Approaching state
func SpawnEnemy(w *core.World, cfg config.Enemy, at core.Vec3, target core.EntityID) core.EntityID {
	id := w.CreateEntity()
	w.AddComponent(id, &core.Position{Vec3: at})
	w.AddComponent(id, &core.Rotation{})
	w.AddComponent(id, &core.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth})
	w.AddComponent(id, &core.Collider{Radius: cfg.ColliderRadius})
	w.AddComponent(id, &core.Renderable{Kind: core.RenderEnemy, Scale: 1})
	w.AddComponent(id, &core.Enemy{
		State:          core.AIApproaching,
		Target:         target,
		Speed:          cfg.Speed,
		AttackDistance: cfg.AttackDistance,
		FiringRange:    cfg.FiringRange,
		FireTimer:      cfg.FireInterval,
		SpawnTime:      w.Time,
	})
	if r, ok := core.Get[*core.Rotation](w, id); ok {
		if tpos, ok := core.Get[*core.Position](w, target); ok {
			r.X, r.Y = FaceToward(tpos.Sub(at))
		}
	}
	return id
}

// ThreatNear sums the remaining health of flying enemies within radius
// of p, weighted by proximity.
func ThreatNear(w *core.World, p core.Vec3, radius float64) float64 {
	threat := 0.0
	for _, id := range w.Query(core.CompEnemy, core.CompPosition, core.CompHealth) {
		e, _ := core.Get[*core.Enemy](w, id)
		if e.State == core.AIExploding {
			continue
		}
		pos, _ := core.Get[*core.Position](w, id)
		d := pos.Vec3.DistanceTo(p)
		if d <= radius {
			hp, _ := core.Get[*core.Health](w, id)
			threat += hp.Current * (1.0 - d/radius)
		}
	}
	return threat
}

