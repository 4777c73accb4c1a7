package termview

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPumpStopsAtNilEvent(t *testing.T) {
	evs := []tcell.Event{key('a'), key('b'), nil}
	out := make(chan tcell.Event, 4)
	Pump(func() tcell.Event {
		ev := evs[0]
		evs = evs[1:]
		return ev
	}, out, make(chan struct{}))

	require.Len(t, out, 2)
	assert.Equal(t, 'a', (<-out).(*tcell.EventKey).Rune())
}

func TestPumpExitsWhenNobodyReads(t *testing.T) {
	// Full buffer and an endless event source: only done can stop it
	out := make(chan tcell.Event, 1)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		Pump(func() tcell.Event { return key('x') }, out, done)
		close(finished)
	}()

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("pump still blocked after done was closed")
	}
}
