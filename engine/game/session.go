package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/1siamBot/dyson-siege/engine/ai"
	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/logging"
	"github.com/1siamBot/dyson-siege/engine/systems"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
	"github.com/1siamBot/dyson-siege/engine/wave"
)

// ErrUnknownCommand is returned by Handle for commands it does not know
var ErrUnknownCommand = errors.New("unknown command")

// Command is a discrete request from the UI
type Command string

const (
	CmdStart   Command = "startGame"
	CmdRestart Command = "restartGame"
	CmdPause   Command = "pause"
	CmdResume  Command = "resume"
)

// Option configures a Session
type Option func(*Session)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithClock replaces the wall clock used by Update
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type subscription struct {
	t core.EventType
	h core.EventHandler
}

// Session owns one simulation: the world, its systems, the wave director
// and the loop driving them. Restarting rebuilds all of it from config.
type Session struct {
	cfg     config.Config
	log     zerolog.Logger
	metrics *telemetry.Metrics
	now     func() time.Time

	loop      *core.GameLoop
	director  *wave.Director
	subs      []subscription
	player    core.EntityID
	structure core.EntityID
}

// NewSession builds a session in the menu state
func NewSession(cfg config.Config, opts ...Option) *Session {
	s := &Session{
		cfg: cfg,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.build()
	return s
}

func (s *Session) build() {
	w := core.NewWorld(s.cfg.Seed)
	w.Log = logging.Component(s.log, "sim")

	s.director = wave.NewDirector(s.cfg.Wave, s.cfg.Enemy, logging.Component(s.log, "wave"), s.metrics)

	w.AddSystem(&systems.InputSystem{Config: s.cfg.Player})
	w.AddSystem(systems.NewMovementSystem(s.cfg.Simulation, s.cfg.Arena, s.cfg.Player))
	w.AddSystem(&systems.WeaponSystem{Config: s.cfg.Weapon, Metrics: s.metrics})
	w.AddSystem(&systems.ShieldSystem{})
	w.AddSystem(&systems.ProjectileSystem{Metrics: s.metrics})
	w.AddSystem(&systems.BeamSystem{Metrics: s.metrics})
	w.AddSystem(&ai.EnemySystem{Enemy: s.cfg.Enemy, Beam: s.cfg.Beam, Kills: s.director, Metrics: s.metrics})
	w.AddSystem(s.director)
	w.AddSystem(&systems.StateSyncSystem{})

	s.structure = spawnStructure(w, s.cfg.Structure)
	s.player = spawnPlayer(w, s.cfg.Player)

	w.State.SetInitial(core.GameState{
		DysonHealth:     s.cfg.Structure.MaxHealth,
		DysonMaxHealth:  s.cfg.Structure.MaxHealth,
		DysonShield:     s.cfg.Structure.MaxShield,
		DysonMaxShield:  s.cfg.Structure.MaxShield,
		PlayerHealth:    s.cfg.Player.MaxHealth,
		PlayerMaxHealth: s.cfg.Player.MaxHealth,
		Level:           1,
	})
	w.State.Reset()

	for _, sub := range s.subs {
		w.Events.On(sub.t, sub.h)
	}

	s.loop = core.NewGameLoop(w)
	s.loop.MaxDelta = s.cfg.Simulation.MaxDeltaTime
	s.loop.Now = s.now
}

func spawnStructure(w *core.World, cfg config.Structure) core.EntityID {
	id := w.CreateEntity()
	w.AddComponent(id, &core.Position{})
	w.AddComponent(id, &core.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth})
	w.AddComponent(id, &core.Shield{
		Current:    cfg.MaxShield,
		Max:        cfg.MaxShield,
		RegenDelay: cfg.RegenDelay,
		RegenRate:  cfg.RegenRate,
	})
	w.AddComponent(id, &core.Collider{Radius: cfg.Radius})
	w.AddComponent(id, &core.Renderable{Kind: core.RenderStructure, Scale: 1})
	w.AddComponent(id, &core.Structure{})
	return id
}

func spawnPlayer(w *core.World, cfg config.Player) core.EntityID {
	id := w.CreateEntity()
	// Start behind the structure, facing it
	w.AddComponent(id, &core.Position{Vec3: core.V3(0, 0, -cfg.StartDistance)})
	w.AddComponent(id, &core.Velocity{})
	w.AddComponent(id, &core.Rotation{})
	w.AddComponent(id, &core.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth})
	w.AddComponent(id, &core.Collider{Radius: cfg.ColliderRadius})
	w.AddComponent(id, &core.Renderable{Kind: core.RenderPlayer, Scale: 1})
	w.AddComponent(id, &core.Player{})
	w.AddComponent(id, &core.InputReceiver{})
	return id
}

// Handle applies a UI command
func (s *Session) Handle(cmd Command) error {
	switch cmd {
	case CmdStart:
		if s.loop.State != core.LoopMenu {
			return nil
		}
		s.start()
	case CmdRestart:
		s.build()
		s.start()
	case CmdPause:
		s.loop.Pause()
	case CmdResume:
		s.loop.Resume()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	s.log.Info().Str("command", string(cmd)).Str("loop", s.loop.State.String()).Msg("command handled")
	return nil
}

func (s *Session) start() {
	w := s.loop.World
	s.director.Start(w)
	s.loop.Play()
	w.Emit(core.EvtGameStart, s.player, core.Vec3{})
}

// Step advances the simulation by dt with the given intent. It returns
// the delta actually simulated, zero when not playing.
func (s *Session) Step(dt float64, in core.Intent) float64 {
	s.loop.World.Input = in
	return s.loop.Step(dt)
}

// Update advances by the wall time elapsed since the last call
func (s *Session) Update(in core.Intent) float64 {
	s.loop.World.Input = in
	return s.loop.Update()
}

// Subscribe registers h for events of type t. Subscriptions survive
// restarts.
func (s *Session) Subscribe(t core.EventType, h core.EventHandler) {
	s.subs = append(s.subs, subscription{t: t, h: h})
	s.loop.World.Events.On(t, h)
}

func (s *Session) State() core.GameState {
	return s.loop.World.State.Get()
}

func (s *Session) WaveInfo() core.WaveInfo {
	return s.director.Info()
}

func (s *Session) Loop() core.LoopState {
	return s.loop.State
}

func (s *Session) Tick() uint64 {
	return s.loop.CurrentTick()
}

func (s *Session) Config() config.Config {
	return s.cfg
}

// Threat weighs the enemies around the player for the HUD
func (s *Session) Threat(radius float64) float64 {
	w := s.loop.World
	pos, ok := core.Get[*core.Position](w, s.player)
	if !ok {
		return 0
	}
	return ai.ThreatNear(w, pos.Vec3, radius)
}
