package core

import (
	"math/rand"
	"slices"

	"github.com/rs/zerolog"
)

// EntityID is a unique identifier for game entities.
// Zero is never handed out and means "no entity".
type EntityID uint64

// Component is a marker interface for all components
type Component interface {
	Type() ComponentType
}

// ComponentType identifies the type of component
type ComponentType uint32

const (
	CompPosition ComponentType = iota
	CompVelocity
	CompRotation
	CompHealth
	CompShield
	CompEnemy
	CompProjectile
	CompLaserCooldown
	CompBeam
	CompCollider
	CompRenderable
	CompPlayer
	CompStructure
	CompInputReceiver
	CompMax
)

// World holds all entities and their components. It doubles as the
// simulation context handed to every system.
type World struct {
	columns [CompMax]map[EntityID]Component
	alive   map[EntityID]struct{}
	free    []EntityID
	nextID  EntityID
	systems []System

	TickCount uint64
	Time      float64 // simulation seconds since the world was created
	Input     Intent
	Events    *EventBus
	State     *StateStore
	Rand      *rand.Rand
	Log       zerolog.Logger
}

// System processes entities each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// NewWorld creates a new ECS world seeded for deterministic randomness
func NewWorld(seed int64) *World {
	w := &World{
		alive:  make(map[EntityID]struct{}),
		nextID: 1,
		Events: NewEventBus(),
		State:  NewStateStore(),
		Rand:   rand.New(rand.NewSource(seed)),
		Log:    zerolog.Nop(),
	}
	for i := range w.columns {
		w.columns[i] = make(map[EntityID]Component)
	}
	return w
}

// CreateEntity allocates an id, recycling purged ids oldest first
func (w *World) CreateEntity() EntityID {
	var id EntityID
	if len(w.free) > 0 {
		id = w.free[0]
		w.free = w.free[1:]
	} else {
		id = w.nextID
		w.nextID++
	}
	w.alive[id] = struct{}{}
	return id
}

// DestroyEntity purges every component of id. Unknown ids are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if _, ok := w.alive[id]; !ok {
		return
	}
	for _, col := range w.columns {
		delete(col, id)
	}
	delete(w.alive, id)
	w.free = append(w.free, id)
}

// Alive reports whether id refers to a live entity
func (w *World) Alive(id EntityID) bool {
	_, ok := w.alive[id]
	return ok
}

// AddComponent adds or replaces a component on a live entity
func (w *World) AddComponent(id EntityID, c Component) {
	if !w.Alive(id) {
		return
	}
	w.columns[c.Type()][id] = c
}

// RemoveComponent removes a component from an entity
func (w *World) RemoveComponent(id EntityID, ct ComponentType) {
	if ct >= CompMax {
		return
	}
	delete(w.columns[ct], id)
}

// GetComponent returns a component for an entity, or nil
func (w *World) GetComponent(id EntityID, ct ComponentType) Component {
	if ct >= CompMax {
		return nil
	}
	return w.columns[ct][id]
}

// HasComponent checks if an entity has a component
func (w *World) HasComponent(id EntityID, ct ComponentType) bool {
	if ct >= CompMax {
		return false
	}
	_, ok := w.columns[ct][id]
	return ok
}

// Get is the typed form of GetComponent. The kind is taken from T.
func Get[T Component](w *World, id EntityID) (T, bool) {
	var zero T
	c := w.GetComponent(id, zero.Type())
	if c == nil {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

// Query returns all entity IDs that have ALL specified component types.
// The result is a sorted copy, so callers may destroy entities while
// ranging over it.
func (w *World) Query(types ...ComponentType) []EntityID {
	var result []EntityID
	if len(types) == 0 {
		for id := range w.alive {
			result = append(result, id)
		}
		slices.Sort(result)
		return result
	}

	for _, t := range types {
		if t >= CompMax {
			return nil
		}
	}

	// Walk the smallest column
	base := types[0]
	for _, t := range types[1:] {
		if len(w.columns[t]) < len(w.columns[base]) {
			base = t
		}
	}
	for id := range w.columns[base] {
		match := true
		for _, t := range types {
			if !w.HasComponent(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// First returns the lowest id holding all types, or 0
func (w *World) First(types ...ComponentType) EntityID {
	ids := w.Query(types...)
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Systems returns the registered systems in run order
func (w *World) Systems() []System {
	return slices.Clone(w.systems)
}

// Tick runs all systems once, then delivers the events they queued
func (w *World) Tick(dt float64) {
	w.Time += dt
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	w.Events.Dispatch()
	w.TickCount++
}

// Emit queues an event stamped with the current tick
func (w *World) Emit(t EventType, id EntityID, pos Vec3) {
	w.Events.Emit(Event{Type: t, Tick: w.TickCount, Entity: id, Pos: pos})
}

// EntityCount returns the number of alive entities
func (w *World) EntityCount() int {
	return len(w.alive)
}
