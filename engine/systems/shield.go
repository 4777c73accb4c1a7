package systems

import "github.com/1siamBot/dyson-siege/engine/core"

// ShieldSystem regenerates shields once they have gone unhit for their
// regen delay.
type ShieldSystem struct{}

func (s *ShieldSystem) Priority() int { return 22 }

func (s *ShieldSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompShield) {
		sh, _ := core.Get[*core.Shield](w, id)
		if sh.Current >= sh.Max {
			sh.Current = sh.Max
			sh.IsRegenerating = false
			continue
		}
		if w.Time-sh.LastHitTime < sh.RegenDelay {
			sh.IsRegenerating = false
			continue
		}
		sh.IsRegenerating = true
		sh.Current += sh.RegenRate * dt
		sh.Clamp()
	}
}
