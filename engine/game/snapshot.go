package game

import (
	"slices"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// EntityView is a read-only copy of one visible entity
type EntityView struct {
	ID     core.EntityID   `json:"id"`
	Kind   core.RenderKind `json:"kind"`
	Pos    core.Vec3       `json:"pos"`
	Rot    core.Vec3       `json:"rot"`
	Scale  float64         `json:"scale"`
	Health float64         `json:"health"` // fraction of max, 1 without a Health component
	Shield float64         `json:"shield"`
	AI     core.AIState    `json:"ai"`
	Blast  float64         `json:"blast"` // explosion progress in [0,1]
}

// BeamView is the polyline of one active beam
type BeamView struct {
	Owner  core.EntityID `json:"owner"`
	Target core.EntityID `json:"target"`
	Points []core.Vec3   `json:"points"`
}

// Snapshot is everything a renderer or HUD needs for one frame
type Snapshot struct {
	Tick     uint64         `json:"tick"`
	Time     float64        `json:"time"`
	Loop     core.LoopState `json:"loop"`
	State    core.GameState `json:"state"`
	Wave     core.WaveInfo  `json:"wave"`
	Player   core.EntityID  `json:"player"`
	Entities []EntityView   `json:"entities"`
	Beams    []BeamView     `json:"beams"`
}

// Snapshot copies the visible world. Nothing in it aliases simulation
// memory.
func (s *Session) Snapshot() Snapshot {
	w := s.loop.World
	snap := Snapshot{
		Tick:   w.TickCount,
		Time:   w.Time,
		Loop:   s.loop.State,
		State:  w.State.Get(),
		Wave:   s.director.Info(),
		Player: s.player,
	}

	for _, id := range w.Query(core.CompRenderable, core.CompPosition) {
		r, _ := core.Get[*core.Renderable](w, id)
		pos, _ := core.Get[*core.Position](w, id)
		v := EntityView{ID: id, Kind: r.Kind, Pos: pos.Vec3, Scale: r.Scale, Health: 1}
		if rot, ok := core.Get[*core.Rotation](w, id); ok {
			v.Rot = rot.Vec3
		}
		if hp, ok := core.Get[*core.Health](w, id); ok {
			v.Health = hp.Ratio()
		}
		if sh, ok := core.Get[*core.Shield](w, id); ok && sh.Max > 0 {
			v.Shield = sh.Current / sh.Max
		}
		if e, ok := core.Get[*core.Enemy](w, id); ok {
			v.AI = e.State
			if e.State == core.AIExploding && e.Explosion.Duration > 0 {
				v.Blast = min(1, e.Explosion.Elapsed/e.Explosion.Duration)
			}
		}
		snap.Entities = append(snap.Entities, v)
	}

	for _, id := range w.Query(core.CompBeam) {
		b, _ := core.Get[*core.Beam](w, id)
		snap.Beams = append(snap.Beams, BeamView{
			Owner:  b.Owner,
			Target: b.Target,
			Points: slices.Clone(b.Points),
		})
	}
	return snap
}
