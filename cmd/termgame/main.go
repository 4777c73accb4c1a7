package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/dyson-siege/engine/app"
	"github.com/1siamBot/dyson-siege/engine/audio"
	"github.com/1siamBot/dyson-siege/engine/termview"
)

// frameTime paces the loop at about 60 FPS
const frameTime = 16 * time.Millisecond

// Game runs a session in the terminal
type Game struct {
	app    *app.App
	screen tcell.Screen
	view   *termview.View
	keys   *termview.Keys
	audio  *audio.AudioManager
}

func NewGame(a *app.App, scale float64, sound bool) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	g := &Game{
		app:    a,
		screen: screen,
		view:   termview.New(screen, scale, a.Config.Arena.MaxDistance),
		keys:   termview.NewKeys(),
		audio:  audio.NewAudioManager(),
	}

	if sound {
		if err := g.audio.Init(); err != nil {
			// Non-fatal, game can run without sound
			a.Log.Warn().Err(err).Msg("audio disabled")
		}
	}
	g.audio.Attach(a.Session.Subscribe)
	return g, nil
}

// handleInput returns false when the player quits
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd, action := termview.Command(ev, g.app.Session.Loop())
		switch action {
		case termview.ActionQuit:
			return false
		case termview.ActionMute:
			g.app.Log.Info().Bool("muted", g.audio.ToggleMute()).Msg("audio")
		}
		if cmd != "" {
			if err := g.app.Handle(cmd); err != nil {
				g.app.Log.Error().Err(err).Msg("command failed")
			}
			return true
		}
		g.keys.Press(ev, time.Now())

	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) run() error {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go termview.Pump(g.screen.PollEvent, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return nil
			}

		case now := <-ticker.C:
			if err := g.app.Frame(g.keys.Intent(now)); err != nil {
				return err
			}
			snap := g.app.Session.Snapshot()
			for _, e := range snap.Entities {
				if e.ID == snap.Player {
					g.audio.SetListener(e.Pos)
					break
				}
			}
			g.view.Draw(snap)
		}
	}
}

func (g *Game) cleanup() {
	g.audio.Close()
	g.screen.Fini()
}

func main() {
	opts := app.RegisterFlags(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file")
	scale := flag.Float64("scale", 4, "world units per terminal column")
	sound := flag.Bool("sound", true, "enable audio")
	flag.Parse()

	// The terminal belongs to tcell, so logs only go to a file
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	a, err := app.New(*opts, logOut, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	g, err := NewGame(a, *scale, *sound)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	runErr := g.run()
	g.cleanup()
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Game stopped: %v\n", runErr)
		os.Exit(1)
	}
	a.Log.Info().Msg("bye")
}
