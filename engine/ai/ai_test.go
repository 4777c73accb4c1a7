package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

type killLog struct {
	ids []core.EntityID
}

func (k *killLog) ReportKill(_ *core.World, id core.EntityID) {
	k.ids = append(k.ids, id)
}

func setup(t *testing.T) (*core.World, core.EntityID, *EnemySystem, *killLog) {
	t.Helper()
	cfg := config.Default()
	w := core.NewWorld(1)

	structure := w.CreateEntity()
	w.AddComponent(structure, &core.Position{})
	w.AddComponent(structure, &core.Health{Current: cfg.Structure.MaxHealth, Max: cfg.Structure.MaxHealth})
	w.AddComponent(structure, &core.Shield{Current: cfg.Structure.MaxShield, Max: cfg.Structure.MaxShield})
	w.AddComponent(structure, &core.Structure{})

	kills := &killLog{}
	sys := &EnemySystem{Enemy: cfg.Enemy, Beam: cfg.Beam, Kills: kills}
	return w, structure, sys, kills
}

func enemyOf(t *testing.T, w *core.World, id core.EntityID) *core.Enemy {
	t.Helper()
	e, ok := core.Get[*core.Enemy](w, id)
	require.True(t, ok)
	return e
}

func TestEnemySystem_ApproachesTarget(t *testing.T) {
	w, structure, sys, _ := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 300), structure)

	sys.Update(w, 0.1)

	pos, _ := core.Get[*core.Position](w, id)
	assert.InDelta(t, 298, pos.Z, 1e-9)
	assert.Equal(t, core.AIApproaching, enemyOf(t, w, id).State)
}

func TestEnemySystem_EntersSiegeWithBeam(t *testing.T) {
	w, structure, sys, _ := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 59), structure)

	sys.Update(w, 0.016)

	e := enemyOf(t, w, id)
	assert.Equal(t, core.AISiege, e.State)
	b, ok := core.Get[*core.Beam](w, e.Beam)
	require.True(t, ok)
	assert.Equal(t, id, b.Owner)
	assert.Equal(t, structure, b.Target)

	// Stationary while sieging
	sys.Update(w, 1)
	pos, _ := core.Get[*core.Position](w, id)
	assert.Equal(t, 59.0, pos.Z)
	assert.Len(t, w.Query(core.CompBeam), 1)
}

func TestEnemySystem_FiresWithinRange(t *testing.T) {
	w, structure, sys, _ := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 100), structure)
	enemyOf(t, w, id).FireTimer = 0

	sys.Update(w, 0.016)

	shots := w.Query(core.CompProjectile)
	require.Len(t, shots, 1)
	p, _ := core.Get[*core.Projectile](w, shots[0])
	assert.Equal(t, core.FactionEnemy, p.Faction)
	assert.InDelta(t, -1, p.Direction.Z, 1e-9)
	assert.Equal(t, sys.Enemy.FireInterval, enemyOf(t, w, id).FireTimer)
}

func TestEnemySystem_HoldsFireOutOfRange(t *testing.T) {
	w, structure, sys, _ := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 300), structure)
	enemyOf(t, w, id).FireTimer = 0

	sys.Update(w, 0.016)

	assert.Empty(t, w.Query(core.CompProjectile))
}

func TestEnemySystem_KilledExplodesThenReportsOnce(t *testing.T) {
	w, structure, sys, kills := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 59), structure)
	sys.Update(w, 0.016)
	beam := enemyOf(t, w, id).Beam

	hp, _ := core.Get[*core.Health](w, id)
	hp.Current = 0
	sys.Update(w, 0.016)

	e := enemyOf(t, w, id)
	assert.Equal(t, core.AIExploding, e.State)
	assert.False(t, e.Crashed)
	assert.False(t, w.Alive(beam), "beam released on explosion")
	assert.Equal(t, sys.Enemy.ScoreValue, w.State.Get().Score)
	assert.Empty(t, kills.ids, "kill is reported after the countdown")

	for i := 0; i < 20; i++ {
		sys.Update(w, 0.1)
	}

	assert.Equal(t, []core.EntityID{id}, kills.ids)
	assert.False(t, w.Alive(id))
	_, ok := core.Get[*core.Enemy](w, id)
	assert.False(t, ok)
	assert.Nil(t, w.GetComponent(id, core.CompPosition))
}

func TestEnemySystem_CrashDamagesStructure(t *testing.T) {
	w, structure, sys, kills := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 10), structure)

	sys.Update(w, 0.016) // siege
	sys.Update(w, 0.016) // crash

	e := enemyOf(t, w, id)
	assert.Equal(t, core.AIExploding, e.State)
	assert.True(t, e.Crashed)
	assert.Equal(t, sys.Enemy.CrashExplosion, e.Explosion.Duration)
	sh, _ := core.Get[*core.Shield](w, structure)
	assert.Equal(t, 450.0, sh.Current)
	assert.Zero(t, w.State.Get().Score, "crashes do not score")

	sys.Update(w, sys.Enemy.CrashExplosion)
	assert.Len(t, kills.ids, 1)
}

func TestEnemySystem_ExplodingNeverGoesBack(t *testing.T) {
	w, structure, sys, _ := setup(t)
	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 40), structure)
	hp, _ := core.Get[*core.Health](w, id)
	hp.Current = 0

	sys.Update(w, 0.016)
	e := enemyOf(t, w, id)
	require.Equal(t, core.AIExploding, e.State)

	// Within attack distance and healed, still exploding
	hp.Current = 50
	sys.Update(w, 0.016)
	assert.Equal(t, core.AIExploding, e.State)
	assert.Zero(t, e.Beam)
}

func TestEnemySystem_DanglingTargetFallsBackToStructure(t *testing.T) {
	w, structure, sys, _ := setup(t)
	player := w.CreateEntity()
	w.AddComponent(player, &core.Position{Vec3: core.V3(0, 0, 80)})
	w.AddComponent(player, &core.Player{})

	id := SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 100), player)
	sys.Update(w, 0.016)
	e := enemyOf(t, w, id)
	require.Equal(t, core.AISiege, e.State)
	oldBeam := e.Beam

	w.DestroyEntity(player)
	sys.Update(w, 0.016)

	assert.Equal(t, structure, e.Target)
	assert.NotEqual(t, oldBeam, e.Beam)
	b, ok := core.Get[*core.Beam](w, e.Beam)
	require.True(t, ok)
	assert.Equal(t, structure, b.Target)
	assert.Len(t, w.Query(core.CompBeam), 1)
}

func TestEnemySystem_NoTargetHoldsPosition(t *testing.T) {
	w := core.NewWorld(1)
	cfg := config.Default()
	sys := &EnemySystem{Enemy: cfg.Enemy, Beam: cfg.Beam}
	id := SpawnEnemy(w, cfg.Enemy, core.V3(0, 0, 200), 0)

	assert.NotPanics(t, func() { sys.Update(w, 0.1) })

	pos, _ := core.Get[*core.Position](w, id)
	assert.Equal(t, 200.0, pos.Z)
}

func TestSteer_SeparatesNeighbors(t *testing.T) {
	v := Steer(core.V3(0, 0, 100), core.V3(0, 0, 0), 20, []core.Vec3{core.V3(2, 0, 100)}, 10)
	assert.Less(t, v.X, 0.0, "pushed away from the neighbor")
	assert.Less(t, v.Z, 0.0, "still heading for the target")
	assert.LessOrEqual(t, v.Len(), 20.0+1e-9)

	assert.Equal(t, core.Vec3{}, Steer(core.V3(1, 1, 1), core.V3(1, 1, 1), 20, nil, 10))
}

func TestThreatNear(t *testing.T) {
	w, structure, sys, _ := setup(t)
	SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 50), structure)
	SpawnEnemy(w, sys.Enemy, core.V3(0, 0, 500), structure)

	assert.InDelta(t, 25, ThreatNear(w, core.Vec3{}, 100), 1e-9)
}
