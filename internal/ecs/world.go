package ecs

import (
	"sort"

	"github.com/younwookim/framehost/internal/domain/geom"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// World holds all component maps and the next entity ID.
//
// A World is never cleared in place. Resetting a scene replaces it with
// NewWorld so the id counter and the maps start over.
type World struct {
	nextID EntityID
	alive  map[EntityID]struct{}

	// Components
	Transform        map[EntityID]Transform
	Velocity         map[EntityID]Velocity
	DirectionalLight map[EntityID]DirectionalLight
	PointLight       map[EntityID]PointLight
	SpotLight        map[EntityID]SpotLight
	Sprite           map[EntityID]Sprite
	Name             map[EntityID]string
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID:           1, // 0 is "nil"
		alive:            make(map[EntityID]struct{}),
		Transform:        make(map[EntityID]Transform),
		Velocity:         make(map[EntityID]Velocity),
		DirectionalLight: make(map[EntityID]DirectionalLight),
		PointLight:       make(map[EntityID]PointLight),
		SpotLight:        make(map[EntityID]SpotLight),
		Sprite:           make(map[EntityID]Sprite),
		Name:             make(map[EntityID]string),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = struct{}{}
	return id
}

// DestroyEntity removes all components for an entity
func (w *World) DestroyEntity(id EntityID) {
	delete(w.alive, id)
	delete(w.Transform, id)
	delete(w.Velocity, id)
	delete(w.DirectionalLight, id)
	delete(w.PointLight, id)
	delete(w.SpotLight, id)
	delete(w.Sprite, id)
	delete(w.Name, id)
}

// Exists checks if an entity is alive
func (w *World) Exists(id EntityID) bool {
	_, ok := w.alive[id]
	return ok
}

// Len returns the number of live entities
func (w *World) Len() int {
	return len(w.alive)
}

// Entities returns live entity IDs in ascending order.
// buf is reused when it has capacity.
func (w *World) Entities(buf []EntityID) []EntityID {
	ids := buf[:0]
	for id := range w.alive {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CreateDirectionalLight creates a directional light entity
func (w *World) CreateDirectionalLight(light DirectionalLight) EntityID {
	id := w.NewEntity()
	w.DirectionalLight[id] = light
	return id
}

// CreatePointLight creates a point light at position
func (w *World) CreatePointLight(position geom.Vec3, light PointLight) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Translation: position, Scale: 1}
	w.PointLight[id] = light
	return id
}

// CreateSpotLight creates a spot light at position
func (w *World) CreateSpotLight(position geom.Vec3, light SpotLight) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Translation: position, Scale: 1}
	w.SpotLight[id] = light
	return id
}

// CreateSprite creates a sprite entity with a velocity
func (w *World) CreateSprite(position geom.Vec3, sprite Sprite, vel Velocity) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Translation: position, Scale: 1}
	w.Sprite[id] = sprite
	w.Velocity[id] = vel
	return id
}

// SetPosition moves an entity that has a Transform.
// Returns false if the entity has none.
func (w *World) SetPosition(id EntityID, position geom.Vec3) bool {
	tr, ok := w.Transform[id]
	if !ok {
		return false
	}
	tr.Translation = position
	w.Transform[id] = tr
	return true
}

// CountLights returns the number of light entities of all kinds
func (w *World) CountLights() int {
	return len(w.DirectionalLight) + len(w.PointLight) + len(w.SpotLight)
}
