package wave

import (
	"github.com/rs/zerolog"

	"github.com/1siamBot/dyson-siege/engine/ai"
	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

// Director tracks wave quotas, spawns enemies under the concurrency cap
// and runs the cooldown between waves.
type Director struct {
	cfg     config.Wave
	enemy   config.Enemy
	log     zerolog.Logger
	metrics *telemetry.Metrics

	info       core.WaveInfo
	spawnTimer float64
	members    map[core.EntityID]struct{} // live enemies spawned this wave
}

// NewDirector creates an idle director. Call Start to begin wave 1.
func NewDirector(cfg config.Wave, enemy config.Enemy, log zerolog.Logger, metrics *telemetry.Metrics) *Director {
	return &Director{
		cfg:     cfg,
		enemy:   enemy,
		log:     log,
		metrics: metrics,
		members: make(map[core.EntityID]struct{}),
	}
}

func (d *Director) Priority() int { return 50 }

// Info returns a copy of the public wave state
func (d *Director) Info() core.WaveInfo {
	return d.info
}

// Reset returns the director to its idle state
func (d *Director) Reset() {
	d.info = core.WaveInfo{}
	d.spawnTimer = 0
	clear(d.members)
}

// Start begins wave 1
func (d *Director) Start(w *core.World) {
	d.Reset()
	d.startWave(w, 1)
}

// SpawnInterval is the delay between spawns for the current wave. It
// shrinks each wave down to MinSpawnInterval.
func (d *Director) SpawnInterval() float64 {
	wave := max(d.info.CurrentWave, 1)
	interval := d.cfg.InitialSpawnInterval - float64(wave-1)*d.cfg.SpawnIntervalDecrement
	return max(d.cfg.MinSpawnInterval, interval)
}

// Quota returns the number of enemies in wave n
func (d *Director) Quota(n int) int {
	return d.cfg.BaseEnemies + (max(n, 1)-1)*d.cfg.EnemiesPerWave
}

func (d *Director) Update(w *core.World, dt float64) {
	if d.info.CooldownActive {
		d.info.CooldownRemaining -= dt
		if d.info.CooldownRemaining <= 0 {
			d.startWave(w, d.info.CurrentWave+1)
		}
		return
	}
	if !d.info.WaveActive {
		return
	}

	d.spawnTimer -= dt
	for d.canSpawn() && d.spawnTimer <= 0 {
		d.spawn(w)
		d.spawnTimer += d.SpawnInterval()
	}
	// At the cap the next spawn waits for a free slot, not the timer
	if !d.canSpawn() && d.spawnTimer < 0 {
		d.spawnTimer = 0
	}
}

func (d *Director) canSpawn() bool {
	return d.info.WaveActive &&
		d.info.ActiveEnemyCount < d.cfg.ConcurrencyCap &&
		d.info.EnemiesRemaining > d.info.ActiveEnemyCount
}

// ReportKill confirms that an enemy finished exploding. Ids that were not
// spawned by this wave, or were already reported, are ignored.
func (d *Director) ReportKill(w *core.World, id core.EntityID) {
	if _, ok := d.members[id]; !ok {
		return
	}
	delete(d.members, id)
	if d.info.ActiveEnemyCount > 0 {
		d.info.ActiveEnemyCount--
	}
	if !d.info.WaveActive {
		return
	}
	if d.info.EnemiesRemaining > 0 {
		d.info.EnemiesRemaining--
	}
	if d.info.EnemiesRemaining == 0 {
		d.complete(w)
	}
}

func (d *Director) startWave(w *core.World, n int) {
	total := d.Quota(n)
	d.info = core.WaveInfo{
		CurrentWave:        n,
		TotalEnemiesInWave: total,
		EnemiesRemaining:   total,
		ActiveEnemyCount:   d.info.ActiveEnemyCount,
		WaveActive:         true,
	}
	d.spawnTimer = 0
	w.State.Update(core.StatePatch{Wave: core.Ptr(n)})

	d.log.Info().
		Int("wave", n).
		Int("enemies", total).
		Float64("spawnInterval", d.SpawnInterval()).
		Msg("wave started")
	w.Events.Emit(core.Event{
		Type:    core.EvtWaveStarted,
		Tick:    w.TickCount,
		Payload: core.WavePayload{Wave: n, Enemies: total},
	})
}

func (d *Director) complete(w *core.World) {
	d.info.WaveActive = false
	d.info.CooldownActive = true
	d.info.CooldownRemaining = d.cfg.CooldownDuration

	level := w.State.Get().Level + 1
	w.State.Update(core.StatePatch{Level: core.Ptr(level)})
	d.metrics.WaveCompleted(d.info.CurrentWave)

	d.log.Info().
		Int("wave", d.info.CurrentWave).
		Int("level", level).
		Float64("cooldown", d.cfg.CooldownDuration).
		Msg("wave completed")
	w.Events.Emit(core.Event{
		Type:    core.EvtWaveCompleted,
		Tick:    w.TickCount,
		Payload: core.WavePayload{Wave: d.info.CurrentWave, Enemies: d.info.TotalEnemiesInWave},
	})
}

func (d *Director) spawn(w *core.World) {
	at := core.RandomUnit(w.Rand).Scale(d.enemy.SpawnRadius)

	target := w.First(core.CompStructure)
	if player := w.First(core.CompPlayer); player != 0 && w.Rand.Float64() < d.enemy.PlayerTargetChance {
		target = player
	}

	id := ai.SpawnEnemy(w, d.enemy, at, target)
	d.members[id] = struct{}{}
	d.info.ActiveEnemyCount++
	d.metrics.EnemySpawned(d.info.CurrentWave)

	d.log.Debug().
		Uint64("enemy", uint64(id)).
		Uint64("target", uint64(target)).
		Int("active", d.info.ActiveEnemyCount).
		Msg("enemy spawned")
}
