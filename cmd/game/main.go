package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/dyson-siege/engine/app"
	"github.com/1siamBot/dyson-siege/engine/audio"
	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
	"github.com/1siamBot/dyson-siege/engine/input"
	"github.com/1siamBot/dyson-siege/engine/render"
	"github.com/1siamBot/dyson-siege/engine/ui"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720

	// threatRadius is the HUD's proximity window around the player
	threatRadius = 60
)

// errExit ends RunGame cleanly
var errExit = errors.New("exit")

// Game implements ebiten.Game
type Game struct {
	app      *app.App
	input    *input.InputState
	renderer *render.Renderer
	hud      *render.HUD
	menu     *ui.MenuSystem
	audio    *audio.AudioManager

	snap     game.Snapshot
	lastTick uint64
	quit     bool
}

func NewGame(a *app.App) *Game {
	g := &Game{
		app:      a,
		input:    input.NewInputState(),
		renderer: render.NewRenderer(ScreenWidth, ScreenHeight, a.Config),
		hud:      render.NewHUD(ScreenWidth, ScreenHeight),
		menu:     ui.NewMenuSystem(ScreenWidth, ScreenHeight),
		audio:    audio.NewAudioManager(),
	}
	g.menu.OnExit = func() { g.quit = true }

	if err := g.audio.Init(); err != nil {
		// Non-fatal, the game runs without sound
		a.Log.Warn().Err(err).Msg("audio disabled")
	}
	g.audio.Attach(a.Session.Subscribe)
	g.renderer.Attach(a.Session.Subscribe)
	a.Session.Subscribe(core.EvtGameStart, func(core.Event) { g.renderer.Reset() })

	g.snap = a.Session.Snapshot()
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return errExit
	}
	g.input.Update()
	s := g.app.Session
	loop := s.Loop()

	// Keyboard and overlay commands
	cmds := g.input.Commands(loop)
	if cmd, ok := g.menu.Update(1.0/60, loop, g.input.MouseX, g.input.MouseY, g.input.LeftJustPressed); ok {
		cmds = append(cmds, cmd)
	}
	for _, cmd := range cmds {
		if err := g.app.Handle(cmd); err != nil {
			return err
		}
	}
	if g.input.ToggleMute() {
		g.app.Log.Info().Bool("muted", g.audio.ToggleMute()).Msg("audio")
	}

	g.input.Capture(s.Loop() == core.LoopPlaying && !g.app.Replaying())
	if g.input.ScrollY != 0 {
		g.renderer.Camera.ZoomAt(1+0.1*g.input.ScrollY, g.input.MouseX, g.input.MouseY)
	}

	if err := g.app.Frame(g.input.Intent()); err != nil {
		return err
	}

	g.snap = s.Snapshot()
	dt := 0.0
	if g.snap.Tick != g.lastTick {
		dt = 1.0 / 60
		g.lastTick = g.snap.Tick
	}
	g.renderer.Update(g.snap, dt)
	g.hud.Threat = s.Threat(threatRadius)

	for _, e := range g.snap.Entities {
		if e.ID == g.snap.Player {
			g.audio.SetListener(e.Pos)
			break
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.snap.Loop != core.LoopMenu {
		g.renderer.Draw(screen, g.snap)
		g.hud.Draw(screen, g.snap)
	}
	g.menu.Draw(screen, g.snap)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	opts := app.RegisterFlags(flag.CommandLine)
	fps := flag.Bool("fps", false, "show frame rate")
	flag.Parse()

	a, err := app.New(*opts, os.Stderr, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Dyson Siege v" + ui.Version)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	g := NewGame(a)
	g.hud.ShowFPS = *fps
	defer g.audio.Close()

	err = ebiten.RunGame(g)
	if cerr := a.Close(); cerr != nil {
		a.Log.Error().Err(cerr).Msg("shutdown")
	}
	if err != nil && !errors.Is(err, errExit) {
		a.Log.Error().Err(err).Msg("game stopped")
		os.Exit(1)
	}
	a.Log.Info().Msg("bye")
}
