package systems

import (
	"math/rand"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

// BeamSystem applies periodic damage along active siege beams and
// refreshes their jagged polyline.
type BeamSystem struct {
	Metrics *telemetry.Metrics
}

func (s *BeamSystem) Priority() int { return 27 }

func (s *BeamSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompBeam) {
		b, _ := core.Get[*core.Beam](w, id)

		from, ok := core.Get[*core.Position](w, b.Owner)
		if !ok {
			w.DestroyEntity(id)
			continue
		}
		if e, ok := core.Get[*core.Enemy](w, b.Owner); ok && (e.State != core.AISiege || e.Beam != id) {
			w.DestroyEntity(id)
			continue
		}
		to, ok := core.Get[*core.Position](w, b.Target)
		if !ok {
			w.DestroyEntity(id)
			continue
		}
		if len(b.Points) == 0 {
			b.Points = Polyline(from.Vec3, to.Vec3, b.Segments, b.Jitter, w.Rand)
		}
		if b.Interval <= 0 {
			continue
		}

		b.Timer += dt
		for b.Timer >= b.Interval {
			b.Timer -= b.Interval
			b.Points = Polyline(from.Vec3, to.Vec3, b.Segments, b.Jitter, w.Rand)
			res := ApplyDamage(w, b.Target, b.DamagePerTick, DamageModifier{
				Shield: b.ShieldMultiplier,
				Hull:   b.HullMultiplier,
			})
			s.Metrics.DamageDealt(res.Shield, res.Hull)
			w.Emit(HitEvent(w, b.Target), b.Target, to.Vec3)
		}
	}
}

// AttachBeam creates a beam from owner to target using cfg
func AttachBeam(w *core.World, owner, target core.EntityID, cfg config.Beam) core.EntityID {
	id := w.CreateEntity()
	w.AddComponent(id, &core.Beam{
		Owner:            owner,
		Target:           target,
		Interval:         cfg.TickInterval,
		DamagePerTick:    cfg.DamagePerTick,
		ShieldMultiplier: cfg.ShieldMultiplier,
		HullMultiplier:   cfg.HullMultiplier,
		Segments:         cfg.Segments,
		Jitter:           cfg.Jitter,
	})
	w.AddComponent(id, &core.Renderable{Kind: core.RenderBeam, Scale: 1})
	if b, ok := core.Get[*core.Beam](w, id); ok {
		from, ok1 := core.Get[*core.Position](w, owner)
		to, ok2 := core.Get[*core.Position](w, target)
		if ok1 && ok2 {
			// Straight until the first damage tick adds jitter
			b.Points = Polyline(from.Vec3, to.Vec3, b.Segments, 0, nil)
		}
	}
	return id
}

// Polyline splits from-to into segments pieces and displaces the interior
// points by up to jitter on each axis. Endpoints are exact.
func Polyline(from, to core.Vec3, segments int, jitter float64, r *rand.Rand) []core.Vec3 {
	segments = max(segments, 1)
	pts := make([]core.Vec3, segments+1)
	pts[0], pts[segments] = from, to
	for i := 1; i < segments; i++ {
		p := from.Lerp(to, float64(i)/float64(segments))
		if jitter > 0 {
			p = p.Add(core.V3(
				(r.Float64()*2-1)*jitter,
				(r.Float64()*2-1)*jitter,
				(r.Float64()*2-1)*jitter,
			))
		}
		pts[i] = p
	}
	return pts
}
