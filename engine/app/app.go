// Package app wires configuration, logging, metrics, a session and
// optional replay recording or playback for the game hosts.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/1siamBot/dyson-siege/engine/config"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
	"github.com/1siamBot/dyson-siege/engine/logging"
	"github.com/1siamBot/dyson-siege/engine/replay"
	"github.com/1siamBot/dyson-siege/engine/telemetry"
)

// ErrReplayAndRecord is returned when both a replay and a recording
// are requested
var ErrReplayAndRecord = errors.New("cannot record while replaying")

// Options are the host command line settings
type Options struct {
	ConfigPath string
	LogLevel   string
	Record     string
	Replay     string
	Seed       int64
}

// RegisterFlags binds Options to fs
func RegisterFlags(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.StringVar(&o.ConfigPath, "config", "", "config file (json, yaml or toml)")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level override")
	fs.StringVar(&o.Record, "record", "", "record a replay to this file")
	fs.StringVar(&o.Replay, "replay", "", "play back a replay file")
	fs.Int64Var(&o.Seed, "seed", 0, "simulation seed override")
	return o
}

// App is one running host session
type App struct {
	Config  config.Config
	Log     zerolog.Logger
	Metrics *telemetry.Metrics
	Session *game.Session

	recorder *replay.Recorder
	frames   []replay.Frame
	next     int
}

// New loads config and builds the session. Log output goes to logOut;
// console selects human-readable output.
func New(opts Options, logOut io.Writer, console bool) (*App, error) {
	if opts.Record != "" && opts.Replay != "" {
		return nil, ErrReplayAndRecord
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}

	a := &App{Log: logging.New(logOut, cfg.LogLevel, console)}

	if opts.Replay != "" {
		rep, err := replay.LoadReplay(opts.Replay)
		if err != nil {
			return nil, fmt.Errorf("loading replay %s: %w", opts.Replay, err)
		}
		cfg.Seed = rep.Seed
		a.frames = rep.Frames
		a.Log.Info().Str("file", opts.Replay).Int("frames", len(rep.Frames)).Int64("seed", rep.Seed).Msg("replay loaded")
	}

	a.Metrics, err = telemetry.New()
	if err != nil {
		// Metrics are optional; the nil collector is a no-op
		a.Log.Warn().Err(err).Msg("metrics disabled")
	}

	a.Config = cfg
	a.Session = game.NewSession(cfg, game.WithLogger(a.Log), game.WithMetrics(a.Metrics))

	if opts.Record != "" {
		rep, err := replay.NewReplayRecorder(opts.Record, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("creating replay %s: %w", opts.Record, err)
		}
		a.recorder = &replay.Recorder{Session: a.Session, Replay: rep}
		a.Log.Info().Str("file", opts.Record).Int64("seed", cfg.Seed).Msg("recording replay")
	}

	a.Log.Info().
		Int64("seed", cfg.Seed).
		Str("config", opts.ConfigPath).
		Msg("session ready")
	return a, nil
}

// Replaying reports whether input comes from a replay file
func (a *App) Replaying() bool {
	return a.frames != nil
}

// ReplayDone reports whether every replay frame has been applied
func (a *App) ReplayDone() bool {
	return a.Replaying() && a.next >= len(a.frames)
}

// Handle applies a command from the player. Commands are ignored while
// a replay drives the session.
func (a *App) Handle(cmd game.Command) error {
	if a.Replaying() {
		return nil
	}
	if a.recorder != nil {
		return a.recorder.Handle(cmd)
	}
	return a.Session.Handle(cmd)
}

// Frame advances the session by one host frame. During playback the
// next recorded step, and any commands before it, replace in.
func (a *App) Frame(in core.Intent) error {
	if a.Replaying() {
		return a.playback()
	}
	if a.recorder != nil {
		_, err := a.recorder.Update(in)
		return err
	}
	a.Session.Update(in)
	return nil
}

func (a *App) playback() error {
	for a.next < len(a.frames) {
		f := a.frames[a.next]
		a.next++
		if err := replay.Run(a.Session, []replay.Frame{f}); err != nil {
			return err
		}
		if f.Kind == replay.FrameStep {
			return nil
		}
	}
	return nil
}

// Close flushes the recording, if any
func (a *App) Close() error {
	if a.recorder == nil {
		return nil
	}
	if err := a.recorder.Replay.Close(); err != nil {
		return fmt.Errorf("closing replay: %w", err)
	}
	a.Log.Info().Int("frames", len(a.recorder.Replay.Frames)).Msg("replay saved")
	return nil
}
