package termview

import "github.com/gdamore/tcell/v2"

// Pump forwards events from poll to out until poll returns nil, which
// tcell does once the screen is finalized, or done is closed.
func Pump(poll func() tcell.Event, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}
