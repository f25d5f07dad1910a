package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"

	"github.com/phanxgames/replay"
)

// LifecycleEventType is the Donburi event type for replay lifecycle events.
// Subscribe to it and call ProcessEvents from a system to receive them.
var LifecycleEventType = events.NewEventType[replay.LifecycleEvent]()

// SpriteData describes the sprite instance an entity mirrors.
type SpriteData struct {
	GlobalID     string
	Kind         replay.SpriteKind
	Definition   string
	CreatedFrame int
}

// Sprite is the component attached to every mirrored instance.
var Sprite = donburi.NewComponentType[SpriteData]()

// Sprites matches every mirrored instance.
var Sprites = query.NewQuery(filter.Contains(Sprite))

// DonburiSink is a replay.EventSink backed by a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

// NewDonburiSink creates a sink publishing into world.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: map[string]donburi.Entity{}}
}

// EmitLifecycle implements replay.EventSink.
func (s *DonburiSink) EmitLifecycle(ev replay.LifecycleEvent) {
	switch ev.Type {
	case replay.LifecycleCreated:
		if old, ok := s.entities[ev.GlobalID]; ok && s.world.Valid(old) {
			s.world.Remove(old)
		}
		entity := s.world.Create(Sprite)
		Sprite.SetValue(s.world.Entry(entity), SpriteData{
			GlobalID:     ev.GlobalID,
			Kind:         ev.Kind,
			Definition:   ev.Definition,
			CreatedFrame: ev.Frame,
		})
		s.entities[ev.GlobalID] = entity
	case replay.LifecycleRemoved:
		if entity, ok := s.entities[ev.GlobalID]; ok {
			if s.world.Valid(entity) {
				s.world.Remove(entity)
			}
			delete(s.entities, ev.GlobalID)
		}
	}
	LifecycleEventType.Publish(s.world, ev)
}

// Entity returns the entity mirroring the instance with globalID.
func (s *DonburiSink) Entity(globalID string) (donburi.Entity, bool) {
	e, ok := s.entities[globalID]
	return e, ok
}

// Len returns the number of live mirrored instances.
func (s *DonburiSink) Len() int { return len(s.entities) }
