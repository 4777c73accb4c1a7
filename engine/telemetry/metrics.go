package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/1siamBot/dyson-siege/engine/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the simulation's counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	enemiesSpawned metric.Int64Counter
	enemiesKilled  metric.Int64Counter
	wavesCompleted metric.Int64Counter
	shotsFired     metric.Int64Counter
	damageDealt    metric.Float64Counter
}

// New creates the instruments on the global meter provider
func New() (*Metrics, error) {
	return NewWithMeter(meter())
}

// NewWithMeter creates the instruments on m
func NewWithMeter(m metric.Meter) (*Metrics, error) {
	var errs []error
	record := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var ms Metrics
	var err error
	ms.enemiesSpawned, err = m.Int64Counter("dyson.enemies.spawned",
		metric.WithDescription("Enemies created by the wave director"))
	record(err)
	ms.enemiesKilled, err = m.Int64Counter("dyson.enemies.killed",
		metric.WithDescription("Enemies removed after exploding"))
	record(err)
	ms.wavesCompleted, err = m.Int64Counter("dyson.waves.completed",
		metric.WithDescription("Waves fully eliminated"))
	record(err)
	ms.shotsFired, err = m.Int64Counter("dyson.shots.fired",
		metric.WithDescription("Discrete projectiles spawned"))
	record(err)
	ms.damageDealt, err = m.Float64Counter("dyson.damage.dealt",
		metric.WithDescription("Damage absorbed by shields and hulls"))
	record(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &ms, nil
}

func (m *Metrics) EnemySpawned(wave int) {
	if m == nil {
		return
	}
	m.enemiesSpawned.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("wave", wave)))
}

func (m *Metrics) EnemyKilled(crashed bool) {
	if m == nil {
		return
	}
	m.enemiesKilled.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("crashed", crashed)))
}

func (m *Metrics) WaveCompleted(wave int) {
	if m == nil {
		return
	}
	m.wavesCompleted.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("wave", wave)))
}

func (m *Metrics) ShotFired(faction string) {
	if m == nil {
		return
	}
	m.shotsFired.Add(context.Background(), 1, metric.WithAttributes(attribute.String("faction", faction)))
}

// DamageDealt records damage split by which pool absorbed it
func (m *Metrics) DamageDealt(shield, hull float64) {
	if m == nil {
		return
	}
	ctx := context.Background()
	if shield > 0 {
		m.damageDealt.Add(ctx, shield, metric.WithAttributes(attribute.String("pool", "shield")))
	}
	if hull > 0 {
		m.damageDealt.Add(ctx, hull, metric.WithAttributes(attribute.String("pool", "hull")))
	}
}
