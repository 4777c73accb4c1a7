package core

// Event represents a game event
type Event struct {
	Type    EventType
	Tick    uint64
	Entity  EntityID
	Pos     Vec3
	Payload interface{}
}

type EventType uint16

const (
	EvtShotFired EventType = iota
	EvtEnemyHit
	EvtEnemyDestroyed
	EvtStructureHit
	EvtPlayerHit
	EvtWaveStarted
	EvtWaveCompleted
	EvtGameOver
	EvtGameStart
)

var eventNames = [...]string{
	EvtShotFired:      "shotFired",
	EvtEnemyHit:       "enemyHit",
	EvtEnemyDestroyed: "enemyDestroyed",
	EvtStructureHit:   "structureHit",
	EvtPlayerHit:      "playerHit",
	EvtWaveStarted:    "waveStarted",
	EvtWaveCompleted:  "waveCompleted",
	EvtGameOver:       "gameOver",
	EvtGameStart:      "gameStart",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// WavePayload rides on wave events
type WavePayload struct {
	Wave    int
	Enemies int
}

// DestroyedPayload rides on EvtEnemyDestroyed
type DestroyedPayload struct {
	Crashed bool
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events. Events emitted by handlers are
// delivered on the next Dispatch.
func (eb *EventBus) Dispatch() {
	queue := eb.queue
	eb.queue = nil
	for _, e := range queue {
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
}
