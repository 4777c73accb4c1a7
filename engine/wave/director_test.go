package wave

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

func newDirector(t *testing.T, mutate func(*config.Config)) (*core.World, *Director) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	w := core.NewWorld(1)
	structure := w.CreateEntity()
	w.AddComponent(structure, &core.Position{})
	w.AddComponent(structure, &core.Structure{})
	return w, NewDirector(cfg.Wave, cfg.Enemy, zerolog.Nop(), nil)
}

func liveEnemies(w *core.World) []core.EntityID {
	return w.Query(core.CompEnemy)
}

func killAll(w *core.World, d *Director) {
	for _, id := range liveEnemies(w) {
		w.DestroyEntity(id)
		d.ReportKill(w, id)
	}
}

func TestDirector_WaveOneToWaveTwo(t *testing.T) {
	w, d := newDirector(t, nil)
	var completed, started []core.WavePayload
	w.Events.On(core.EvtWaveCompleted, func(e core.Event) { completed = append(completed, e.Payload.(core.WavePayload)) })
	w.Events.On(core.EvtWaveStarted, func(e core.Event) { started = append(started, e.Payload.(core.WavePayload)) })

	d.Start(w)
	info := d.Info()
	assert.Equal(t, 1, info.CurrentWave)
	assert.Equal(t, 5, info.EnemiesRemaining)
	assert.True(t, info.WaveActive)

	for i := 0; i < 200 && len(liveEnemies(w)) < 5; i++ {
		d.Update(w, 0.1)
	}
	require.Len(t, liveEnemies(w), 5)
	assert.Equal(t, 5, d.Info().ActiveEnemyCount)

	killAll(w, d)
	info = d.Info()
	assert.False(t, info.WaveActive)
	assert.True(t, info.CooldownActive)
	assert.Equal(t, 3.0, info.CooldownRemaining)
	assert.Equal(t, 0, info.EnemiesRemaining)
	assert.Equal(t, 2, w.State.Get().Level)

	for i := 0; i < 31; i++ {
		d.Update(w, 0.1)
	}
	info = d.Info()
	assert.Equal(t, 2, info.CurrentWave)
	assert.Equal(t, 8, info.TotalEnemiesInWave)
	assert.Equal(t, 8, info.EnemiesRemaining)
	assert.True(t, info.WaveActive)
	assert.False(t, info.CooldownActive)
	assert.Equal(t, 2, w.State.Get().Wave)

	w.Events.Dispatch()
	assert.Equal(t, []core.WavePayload{{Wave: 1, Enemies: 5}}, completed)
	assert.Equal(t, []core.WavePayload{{Wave: 1, Enemies: 5}, {Wave: 2, Enemies: 8}}, started)
}

func TestDirector_RespectsConcurrencyCap(t *testing.T) {
	w, d := newDirector(t, func(c *config.Config) {
		c.Wave.BaseEnemies = 20
		c.Wave.ConcurrencyCap = 5
		c.Wave.InitialSpawnInterval = 0.01
		c.Wave.MinSpawnInterval = 0.01
	})
	d.Start(w)

	for i := 0; i < 500; i++ {
		d.Update(w, 0.1)
		require.LessOrEqual(t, d.Info().ActiveEnemyCount, 5)
		require.LessOrEqual(t, len(liveEnemies(w)), 5)
		if i%7 == 0 {
			// Kill one to free a slot now and then
			if ids := liveEnemies(w); len(ids) > 0 {
				w.DestroyEntity(ids[0])
				d.ReportKill(w, ids[0])
			}
		}
	}
}

func TestDirector_NeverSpawnsPastQuota(t *testing.T) {
	w, d := newDirector(t, func(c *config.Config) {
		c.Wave.BaseEnemies = 3
		c.Wave.ConcurrencyCap = 10
	})
	d.Start(w)

	for i := 0; i < 100; i++ {
		d.Update(w, 0.5)
	}
	assert.Len(t, liveEnemies(w), 3)
}

func TestDirector_CompletionFiresOnce(t *testing.T) {
	w, d := newDirector(t, func(c *config.Config) {
		c.Wave.BaseEnemies = 2
	})
	var completions int
	w.Events.On(core.EvtWaveCompleted, func(core.Event) { completions++ })
	d.Start(w)
	for i := 0; i < 50; i++ {
		d.Update(w, 0.1)
	}
	ids := liveEnemies(w)
	require.Len(t, ids, 2)

	for _, id := range ids {
		w.DestroyEntity(id)
		d.ReportKill(w, id)
	}
	// Duplicate and unknown reports change nothing
	d.ReportKill(w, ids[0])
	d.ReportKill(w, ids[1])
	d.ReportKill(w, 999)
	w.Events.Dispatch()

	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, d.Info().EnemiesRemaining)
	assert.Equal(t, 0, d.Info().ActiveEnemyCount)
	assert.True(t, d.Info().CooldownActive)
}

func TestDirector_FirstSpawnImmediate(t *testing.T) {
	w, d := newDirector(t, nil)
	d.Start(w)
	d.Update(w, 0.016)
	assert.Len(t, liveEnemies(w), 1)

	d.Update(w, 0.016)
	assert.Len(t, liveEnemies(w), 1, "next spawn waits for the interval")
}

func TestDirector_SpawnIntervalFloor(t *testing.T) {
	_, d := newDirector(t, nil)

	tests := []struct {
		wave int
		want float64
	}{
		{0, 2.0},
		{1, 2.0},
		{2, 1.8},
		{5, 1.2},
		{8, 0.6},
		{9, 0.5},
		{40, 0.5},
	}
	for _, tt := range tests {
		d.info.CurrentWave = tt.wave
		assert.InDelta(t, tt.want, d.SpawnInterval(), 1e-9, "wave %d", tt.wave)
	}
}

func TestDirector_SpawnPlacement(t *testing.T) {
	w, d := newDirector(t, func(c *config.Config) {
		c.Enemy.PlayerTargetChance = 1
	})
	player := w.CreateEntity()
	w.AddComponent(player, &core.Position{Vec3: core.V3(0, 0, 80)})
	w.AddComponent(player, &core.Player{})
	d.Start(w)

	d.Update(w, 0.1)

	ids := liveEnemies(w)
	require.Len(t, ids, 1)
	pos, _ := core.Get[*core.Position](w, ids[0])
	assert.InDelta(t, 350, pos.Len(), 1e-9)
	e, _ := core.Get[*core.Enemy](w, ids[0])
	assert.Equal(t, player, e.Target)
}

func TestDirector_ResetGoesIdle(t *testing.T) {
	w, d := newDirector(t, nil)
	d.Start(w)
	d.Update(w, 0.1)

	d.Reset()
	d.Update(w, 10)

	assert.Equal(t, core.WaveInfo{}, d.Info())
	assert.Len(t, liveEnemies(w), 1)
}
