package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 42
	return NewSession(cfg, opts...)
}

func TestSession_StartsInMenu(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, core.LoopMenu, s.Loop())
	assert.Zero(t, s.Step(0.016, core.Intent{}))

	st := s.State()
	assert.Equal(t, 1000.0, st.DysonHealth)
	assert.Equal(t, 500.0, st.DysonShield)
	assert.Equal(t, 100.0, st.PlayerHealth)
	assert.Equal(t, 1, st.Level)
}

func TestSession_StartSpawnsFirstEnemy(t *testing.T) {
	s := newSession(t)
	var started int
	s.Subscribe(core.EvtGameStart, func(core.Event) { started++ })
	require.NoError(t, s.Handle(CmdStart))

	s.Step(0.016, core.Intent{})

	assert.Equal(t, core.LoopPlaying, s.Loop())
	assert.Equal(t, 1, s.WaveInfo().CurrentWave)
	assert.Equal(t, 1, s.WaveInfo().ActiveEnemyCount)
	assert.Equal(t, 1, s.State().Wave)
	assert.Equal(t, 1, started)

	var enemies int
	for _, e := range s.Snapshot().Entities {
		if e.Kind == core.RenderEnemy {
			enemies++
		}
	}
	assert.Equal(t, 1, enemies)
}

func TestSession_UnknownCommand(t *testing.T) {
	s := newSession(t)
	err := s.Handle(Command("selfDestruct"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "selfDestruct")
}

func TestSession_PauseResume(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Handle(CmdStart))
	require.NoError(t, s.Handle(CmdPause))

	assert.Equal(t, core.LoopPaused, s.Loop())
	assert.True(t, s.State().IsPaused)
	assert.Zero(t, s.Step(0.016, core.Intent{}))

	require.NoError(t, s.Handle(CmdResume))
	assert.Equal(t, core.LoopPlaying, s.Loop())
	assert.NotZero(t, s.Step(0.016, core.Intent{}))
}

func TestSession_FireScoresAndRestartResets(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Handle(CmdStart))
	fire := core.Intent{Fire: true}
	for i := 0; i < 10; i++ {
		s.Step(0.016, fire)
	}
	snap := s.Snapshot()
	var shots int
	for _, e := range snap.Entities {
		if e.Kind == core.RenderPlayerShot {
			shots++
		}
	}
	assert.Positive(t, shots)

	require.NoError(t, s.Handle(CmdRestart))
	assert.Equal(t, core.LoopPlaying, s.Loop())
	assert.Zero(t, s.Tick())
	assert.Equal(t, 0, s.State().Score)
	for _, e := range s.Snapshot().Entities {
		assert.NotEqual(t, core.RenderPlayerShot, e.Kind)
	}
}

func TestSession_SubscriptionsSurviveRestart(t *testing.T) {
	s := newSession(t)
	var waves int
	s.Subscribe(core.EvtWaveStarted, func(core.Event) { waves++ })

	require.NoError(t, s.Handle(CmdStart))
	s.Step(0.016, core.Intent{})
	require.NoError(t, s.Handle(CmdRestart))
	s.Step(0.016, core.Intent{})

	assert.Equal(t, 2, waves)
}

func TestSession_StructureDestroyedEndsGame(t *testing.T) {
	s := newSession(t)
	var overs int
	s.Subscribe(core.EvtGameOver, func(core.Event) { overs++ })
	require.NoError(t, s.Handle(CmdStart))

	hp, ok := core.Get[*core.Health](s.loop.World, s.structure)
	require.True(t, ok)
	hp.Current = 0

	s.Step(0.016, core.Intent{})
	s.Step(0.016, core.Intent{})

	assert.Equal(t, core.LoopGameOver, s.Loop())
	assert.True(t, s.State().IsGameOver)
	assert.Equal(t, 1, overs)

	require.NoError(t, s.Handle(CmdStart), "start is ignored outside the menu")
	assert.Equal(t, core.LoopGameOver, s.Loop())
}

func TestSession_UpdateUsesClock(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newSession(t, WithClock(func() time.Time { return now }))
	require.NoError(t, s.Handle(CmdStart))

	now = now.Add(50 * time.Millisecond)
	assert.InDelta(t, 0.05, s.Update(core.Intent{}), 1e-9)

	now = now.Add(time.Hour)
	assert.Equal(t, 0.1, s.Update(core.Intent{}))
}

func TestSession_DeterministicForSeed(t *testing.T) {
	run := func() Snapshot {
		s := newSession(t)
		require.NoError(t, s.Handle(CmdStart))
		for i := 0; i < 600; i++ {
			in := core.Intent{
				Fire:     i%3 == 0,
				MoveAxis: core.Vec2{X: float64(i%5-2) / 2, Y: 1},
				Look:     core.Vec2{X: float64(i % 7)},
			}
			s.Step(1.0/60, in)
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Positive(t, a.Tick)
}

func TestSession_SnapshotDoesNotAlias(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Handle(CmdStart))

	// Fast-forward until a beam exists
	for i := 0; i < 3000 && len(s.Snapshot().Beams) == 0; i++ {
		s.Step(0.1, core.Intent{})
	}
	snap := s.Snapshot()
	require.NotEmpty(t, snap.Beams)
	require.NotEmpty(t, snap.Beams[0].Points)

	snap.Beams[0].Points[0] = core.V3(1e9, 0, 0)
	assert.NotEqual(t, core.V3(1e9, 0, 0), s.Snapshot().Beams[0].Points[0])
}
