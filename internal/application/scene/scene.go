// Package scene defines the Scene capability and the Manager that owns the
// active scene.
//
// Each scene implements Update to advance its simulation over the entity
// world and the shared resources. Optional hooks (Enter, Cleanup,
// ProcessInput) are separate interfaces a scene may also implement.
package scene

import (
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/ecs"
)

// Scene is a replaceable unit of per-frame simulation.
//
// The manager calls Update once per frame while the scene is current.
// Returns the next scene if a transition is needed, nil to stay on the
// current scene. The transition happens at the next frame boundary.
// Returns an error to terminate the application.
type Scene interface {
	Update(world *ecs.World, res *resource.Registry) (next Scene, err error)
}

// Enterer is implemented by scenes that populate the world when installed.
// Enter is called with the fresh world the scene will run in.
type Enterer interface {
	Enter(world *ecs.World, res *resource.Registry) error
}

// Cleaner is implemented by scenes that release state before being dropped.
// The world is discarded right after Cleanup returns.
type Cleaner interface {
	Cleanup(world *ecs.World, res *resource.Registry)
}

// InputProcessor is implemented by scenes that react to raw input events
type InputProcessor interface {
	ProcessInput(world *ecs.World, res *resource.Registry, ev input.Event)
}

// Enter calls s.Enter if the scene implements Enterer
func Enter(s Scene, world *ecs.World, res *resource.Registry) error {
	if e, ok := s.(Enterer); ok {
		return e.Enter(world, res)
	}
	return nil
}
