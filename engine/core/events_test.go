package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_DeliversToMatchingListeners(t *testing.T) {
	eb := NewEventBus()
	var hits, waves int
	eb.On(EvtEnemyHit, func(Event) { hits++ })
	eb.On(EvtEnemyHit, func(Event) { hits++ })
	eb.On(EvtWaveStarted, func(Event) { waves++ })

	eb.Emit(Event{Type: EvtEnemyHit})
	eb.Emit(Event{Type: EvtGameOver})
	assert.Equal(t, 2, eb.Pending())

	eb.Dispatch()

	assert.Equal(t, 2, hits)
	assert.Equal(t, 0, waves)
	assert.Equal(t, 0, eb.Pending())
}

func TestEventBus_HandlerEmitsDeferToNextDispatch(t *testing.T) {
	eb := NewEventBus()
	var completed int
	eb.On(EvtEnemyDestroyed, func(Event) {
		eb.Emit(Event{Type: EvtWaveCompleted})
	})
	eb.On(EvtWaveCompleted, func(Event) { completed++ })

	eb.Emit(Event{Type: EvtEnemyDestroyed})
	eb.Dispatch()
	assert.Equal(t, 0, completed)
	assert.Equal(t, 1, eb.Pending())

	eb.Dispatch()
	assert.Equal(t, 1, completed)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "shotFired", EvtShotFired.String())
	assert.Equal(t, "gameOver", EvtGameOver.String())
	assert.Equal(t, "unknown", EventType(200).String())
}
