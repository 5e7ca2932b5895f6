package scene

import (
	"fmt"

	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/ecs"
)

// Manager owns the current scene and an optional pending next scene.
// At most one scene is current at a time.
type Manager struct {
	current Scene
	next    Scene
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{}
}

// SetScene installs s as the current scene. The previous scene, if any,
// is dropped without cleanup; that is the caller's responsibility.
func (m *Manager) SetScene(s Scene) {
	m.current = s
}

// RequestChange sets s as the pending next scene. The swap happens at
// the next frame boundary. A nil s cancels a pending change.
func (m *Manager) RequestChange(s Scene) {
	m.next = s
}

// Current returns the current scene or nil
func (m *Manager) Current() Scene {
	return m.current
}

// HasCurrentScene reports whether a scene is installed
func (m *Manager) HasCurrentScene() bool {
	return m.current != nil
}

// HasNextScene reports whether a next scene is pending
func (m *Manager) HasNextScene() bool {
	return m.next != nil
}

// State returns the manager's lifecycle state
func (m *Manager) State() state.SceneState {
	switch {
	case m.current == nil:
		return state.SceneEmpty
	case m.next != nil:
		return state.ScenePendingTransition
	default:
		return state.SceneActive
	}
}

// UpdateScene runs the current scene's update. It is a no-op when no
// scene is installed. A non-nil next scene returned by the update
// becomes the pending next scene.
func (m *Manager) UpdateScene(world *ecs.World, res *resource.Registry) error {
	if m.current == nil {
		return nil
	}

	next, err := m.current.Update(world, res)
	if err != nil {
		return fmt.Errorf("scene update: %w", err)
	}
	if next != nil {
		m.next = next
	}
	return nil
}

// ProcessInput forwards ev to the current scene, if it takes input
func (m *Manager) ProcessInput(world *ecs.World, res *resource.Registry, ev input.Event) {
	if p, ok := m.current.(InputProcessor); ok {
		p.ProcessInput(world, res, ev)
	}
}

// TryCleanupCurrentScene runs the current scene's cleanup hook, drops
// the scene, and returns a fresh empty world to replace world. The
// pending next scene is left in place.
func (m *Manager) TryCleanupCurrentScene(world *ecs.World, res *resource.Registry) *ecs.World {
	if c, ok := m.current.(Cleaner); ok {
		c.Cleanup(world, res)
	}
	m.current = nil

	return ecs.NewWorld()
}

// ActivateNext moves the pending scene into the current slot and calls its
// Enter hook with world. It is a no-op when nothing is pending. If Enter
// fails the manager is left empty.
func (m *Manager) ActivateNext(world *ecs.World, res *resource.Registry) error {
	if m.next == nil {
		return nil
	}

	m.current, m.next = m.next, nil
	if err := Enter(m.current, world, res); err != nil {
		m.current = nil
		return fmt.Errorf("scene enter: %w", err)
	}
	return nil
}
