package systems

import (
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

// ProjectileSystem moves projectiles and handles impact
type ProjectileSystem struct {
	Metrics *telemetry.Metrics
}

func (s *ProjectileSystem) Priority() int { return 25 }

func (s *ProjectileSystem) Update(w *core.World, dt float64) {
	ids := w.Query(core.CompPosition, core.CompProjectile)
	if len(ids) == 0 {
		return
	}
	enemies := w.Query(core.CompEnemy, core.CompPosition, core.CompHealth)
	defenders := append(w.Query(core.CompStructure, core.CompPosition), w.Query(core.CompPlayer, core.CompPosition)...)

	for _, id := range ids {
		pos, _ := core.Get[*core.Position](w, id)
		proj, _ := core.Get[*core.Projectile](w, id)

		prev := pos.Vec3
		pos.Vec3 = pos.Add(proj.Direction.Scale(proj.Speed * dt))
		proj.TimeAlive += dt

		if proj.TimeAlive >= proj.Lifetime ||
			(proj.MaxRange > 0 && pos.Vec3.DistanceTo(proj.Origin) > proj.MaxRange) {
			w.DestroyEntity(id)
			continue
		}

		candidates := defenders
		if proj.Faction == core.FactionPlayer {
			candidates = enemies
		}
		target := s.firstHit(w, proj, prev, pos.Vec3, candidates)
		if target == 0 {
			continue
		}

		res := ApplyDamage(w, target, proj.Damage, Direct)
		s.Metrics.DamageDealt(res.Shield, res.Hull)
		w.Emit(HitEvent(w, target), target, pos.Vec3)
		w.DestroyEntity(id)
	}
}

// firstHit returns the candidate whose hit sphere the segment a-b enters
// earliest, or 0.
func (s *ProjectileSystem) firstHit(w *core.World, proj *core.Projectile, a, b core.Vec3, candidates []core.EntityID) core.EntityID {
	var best core.EntityID
	bestT := 2.0
	for _, tid := range candidates {
		if tid == proj.Owner || !w.Alive(tid) {
			continue
		}
		if e, ok := core.Get[*core.Enemy](w, tid); ok && e.State == core.AIExploding {
			continue
		}
		if hp, ok := core.Get[*core.Health](w, tid); ok && !hp.Alive() {
			continue
		}
		tpos, ok := core.Get[*core.Position](w, tid)
		if !ok {
			continue
		}
		radius := proj.HitRadius
		if col, ok := core.Get[*core.Collider](w, tid); ok {
			radius += col.Radius
		}
		t, d := closestOnSegment(a, b, tpos.Vec3)
		if d <= radius && t < bestT {
			best, bestT = tid, t
		}
	}
	return best
}

// HitEvent picks the event type for damage landing on id
func HitEvent(w *core.World, id core.EntityID) core.EventType {
	switch {
	case w.HasComponent(id, core.CompStructure):
		return core.EvtStructureHit
	case w.HasComponent(id, core.CompPlayer):
		return core.EvtPlayerHit
	default:
		return core.EvtEnemyHit
	}
}

// closestOnSegment returns the segment parameter in [0,1] nearest to p
// and the distance at that point.
func closestOnSegment(a, b, p core.Vec3) (float64, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return 0, p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = max(0, min(1, t))
	return t, p.DistanceTo(a.Add(ab.Scale(t)))
}
