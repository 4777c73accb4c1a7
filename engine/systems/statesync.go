package systems

import (
	"github.com/1siamBot/dyson-siege/engine/core"
)

// StateSyncSystem mirrors structure and player vitals into the state
// store and ends the game when either is destroyed. Runs last.
type StateSyncSystem struct{}

func (s *StateSyncSystem) Priority() int { return 100 }

func (s *StateSyncSystem) Update(w *core.World, _ float64) {
	var patch core.StatePatch
	lost := false
	var at core.Vec3

	structure := w.First(core.CompStructure)
	if hp, ok := core.Get[*core.Health](w, structure); ok {
		patch.DysonHealth = core.Ptr(hp.Current)
		patch.DysonMaxHealth = core.Ptr(hp.Max)
		if !hp.Alive() {
			lost = true
		}
	}
	if sh, ok := core.Get[*core.Shield](w, structure); ok {
		patch.DysonShield = core.Ptr(sh.Current)
		patch.DysonMaxShield = core.Ptr(sh.Max)
	}

	player := w.First(core.CompPlayer)
	if hp, ok := core.Get[*core.Health](w, player); ok {
		patch.PlayerHealth = core.Ptr(hp.Current)
		patch.PlayerMaxHealth = core.Ptr(hp.Max)
		if !hp.Alive() {
			lost = true
			if pos, ok := core.Get[*core.Position](w, player); ok {
				at = pos.Vec3
			}
		}
	}

	w.State.Update(patch)

	if lost && w.State.SetGameOver() {
		st := w.State.Get()
		w.Log.Info().
			Int("score", st.Score).
			Int("wave", st.Wave).
			Float64("time", w.Time).
			Msg("game over")
		w.Emit(core.EvtGameOver, 0, at)
	}
}
