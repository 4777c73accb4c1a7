package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

func newTarget(w *core.World, health, shield float64) core.EntityID {
	id := w.CreateEntity()
	w.AddComponent(id, &core.Position{})
	w.AddComponent(id, &core.Health{Current: health, Max: health})
	if shield > 0 {
		w.AddComponent(id, &core.Shield{Current: shield, Max: shield, RegenDelay: 3, RegenRate: 25})
	}
	return id
}

func TestApplyDamage_ShieldAbsorbsFirst(t *testing.T) {
	w := core.NewWorld(1)
	id := newTarget(w, 100, 10)

	res := ApplyDamage(w, id, 15, Direct)

	sh, _ := core.Get[*core.Shield](w, id)
	hp, _ := core.Get[*core.Health](w, id)
	assert.Zero(t, sh.Current)
	assert.Equal(t, 95.0, hp.Current)
	assert.Equal(t, 10.0, res.Shield)
	assert.Equal(t, 5.0, res.Hull)
	assert.False(t, res.Killed)
}

func TestApplyDamage_MultipliersScalePerPool(t *testing.T) {
	w := core.NewWorld(1)
	id := newTarget(w, 100, 10)

	// 10 raw at 2x shield is 20 against the shield: 10 absorbed by
	// 5 raw, the other 5 raw land on hull at 0.5x.
	ApplyDamage(w, id, 10, DamageModifier{Shield: 2, Hull: 0.5})

	sh, _ := core.Get[*core.Shield](w, id)
	hp, _ := core.Get[*core.Health](w, id)
	assert.Zero(t, sh.Current)
	assert.InDelta(t, 97.5, hp.Current, 1e-9)
}

func TestApplyDamage_KillsOnce(t *testing.T) {
	w := core.NewWorld(1)
	id := newTarget(w, 20, 0)

	first := ApplyDamage(w, id, 50, Direct)
	second := ApplyDamage(w, id, 50, Direct)

	hp, _ := core.Get[*core.Health](w, id)
	assert.Zero(t, hp.Current)
	assert.True(t, first.Killed)
	assert.Equal(t, 20.0, first.Hull)
	assert.False(t, second.Killed)
	assert.Zero(t, second.Hull)
}

func TestApplyDamage_StaysInBounds(t *testing.T) {
	w := core.NewWorld(7)
	id := newTarget(w, 500, 200)
	sh, _ := core.Get[*core.Shield](w, id)
	hp, _ := core.Get[*core.Health](w, id)

	for i := 0; i < 200; i++ {
		ApplyDamage(w, id, w.Rand.Float64()*40, DamageModifier{Shield: 1.5, Hull: 1})
		require.GreaterOrEqual(t, sh.Current, 0.0)
		require.LessOrEqual(t, sh.Current, sh.Max)
		require.GreaterOrEqual(t, hp.Current, 0.0)
		require.LessOrEqual(t, hp.Current, hp.Max)
	}
}

func TestApplyDamage_StampsLastHitTime(t *testing.T) {
	w := core.NewWorld(1)
	id := newTarget(w, 100, 50)
	w.Time = 12.5

	ApplyDamage(w, id, 1, Direct)

	sh, _ := core.Get[*core.Shield](w, id)
	assert.Equal(t, 12.5, sh.LastHitTime)
}

func TestApplyDamage_MissingEntity(t *testing.T) {
	w := core.NewWorld(1)
	assert.Equal(t, DamageResult{}, ApplyDamage(w, 99, 10, Direct))
}

func weaponWorld() (*core.World, core.EntityID, *WeaponSystem) {
	w := core.NewWorld(3)
	player := w.CreateEntity()
	w.AddComponent(player, &core.Position{Vec3: core.V3(0, 0, -80)})
	w.AddComponent(player, &core.Rotation{})
	w.AddComponent(player, &core.Player{})
	cfg := config.Default().Weapon
	cfg.Spread = 0
	return w, player, &WeaponSystem{Config: cfg}
}

func TestWeaponSystem_FiresTwinShotAndCoolsDown(t *testing.T) {
	w, player, ws := weaponWorld()
	w.Input.Fire = true

	ws.Update(w, 0.016)

	shots := w.Query(core.CompProjectile)
	require.Len(t, shots, 2)
	for _, id := range shots {
		p, _ := core.Get[*core.Projectile](w, id)
		assert.Equal(t, player, p.Owner)
		assert.Equal(t, core.FactionPlayer, p.Faction)
		assert.InDelta(t, 1, p.Direction.Z, 1e-9)
	}
	a, _ := core.Get[*core.Position](w, shots[0])
	b, _ := core.Get[*core.Position](w, shots[1])
	assert.InDelta(t, 2*ws.Config.MuzzleOffset, a.Vec3.DistanceTo(b.Vec3), 1e-9)
	assert.Equal(t, 1, w.Events.Pending())

	cd, ok := core.Get[*core.LaserCooldown](w, player)
	require.True(t, ok)
	assert.False(t, cd.CanFire)

	// Still cooling down
	ws.Update(w, 0.05)
	assert.Len(t, w.Query(core.CompProjectile), 2)

	ws.Update(w, 0.2)
	assert.Len(t, w.Query(core.CompProjectile), 4)
}

func TestWeaponSystem_NoFireIntent(t *testing.T) {
	w, _, ws := weaponWorld()
	ws.Update(w, 0.016)
	assert.Empty(t, w.Query(core.CompProjectile))
}

func TestScatter_StaysNearDirection(t *testing.T) {
	w := core.NewWorld(5)
	dir := core.V3(0, 0, 1)
	for i := 0; i < 100; i++ {
		d := Scatter(dir, 0.02, w.Rand)
		assert.InDelta(t, 1, d.Len(), 1e-9)
		assert.Greater(t, d.Dot(dir), 0.999)
	}
}
