// Package app is the per-frame orchestrator. A host calls ProcessInput for
// each raw event and Update once per redraw tick; Update is the only place
// time advances, scenes change and the render snapshot is built.
package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/extract"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/overlay"
	"github.com/younwookim/framehost/internal/application/replay"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/ecs"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

// HintText is drawn every frame
const HintText = "Use Left/Right arrow keys to switch demos"

// fpsLogInterval is how often the smoothed update rate is logged
const fpsLogInterval = time.Second

// Window is the host window
type Window interface {
	Size() (width, height int)
	RequestRedraw()
}

// Renderer consumes one snapshot per frame. StartFrame must copy what it
// needs before returning; the snapshot is released right after.
type Renderer interface {
	StartFrame(snap *extract.Snapshot, dt time.Duration) error
	ClearTemporaryWork()
}

// Deps are the collaborators an App is built from
type Deps struct {
	Window   Window
	Renderer Renderer
	Assets   *asset.Service
	// Overlay is optional
	Overlay overlay.Overlay
	// Clock defaults to the system clock
	Clock   clock.Clock
	Log     *zap.Logger
	Options render.RenderOptions
	Initial scene.Scene
	// Recorder is optional
	Recorder *replay.Recorder
}

// App owns the resource registry, the entity world and the scene manager
type App struct {
	res      *resource.Registry
	scenes   *scene.Manager
	world    *ecs.World
	extract  *extract.List
	window   Window
	renderer Renderer
	overlay  overlay.Overlay
	clock    clock.Clock
	log      *zap.Logger
	recorder *replay.Recorder

	fps      clock.PeriodicEvent
	lastTick time.Time
	shutdown bool
}

// New builds the registry, installs the initial scene and returns the app
func New(d Deps) (*App, error) {
	if d.Window == nil {
		return nil, errors.New("app: window is required")
	}
	if d.Renderer == nil {
		return nil, errors.New("app: renderer is required")
	}
	if d.Assets == nil {
		return nil, errors.New("app: asset service is required")
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	now := d.Clock.Now()
	a := &App{
		res:      resource.NewRegistry(),
		scenes:   scene.NewManager(),
		world:    ecs.NewWorld(),
		extract:  newExtractList(),
		window:   d.Window,
		renderer: d.Renderer,
		overlay:  d.Overlay,
		clock:    d.Clock,
		log:      d.Log,
		recorder: d.Recorder,
		lastTick: now,
	}

	// registry close order follows insertion order: renderer first
	renderer := d.Renderer
	resource.Insert(a.res, &renderer)
	resource.Insert(a.res, d.Assets)
	resource.Insert(a.res, clock.NewTimeState(now))
	resource.Insert(a.res, input.NewState())

	w, h := d.Window.Size()
	resource.Insert(a.res, &render.Viewports{MainWindowSize: render.Extents2D{Width: uint32(w), Height: uint32(h)}})

	opts := d.Options
	resource.Insert(a.res, &opts)
	resource.Insert(a.res, &render.DebugUIState{})
	pipeline, mesh := &render.PipelineOptions{}, &render.MeshOptions{}
	opts.SyncTo(pipeline, mesh)
	resource.Insert(a.res, pipeline)
	resource.Insert(a.res, mesh)
	resource.Insert(a.res, &render.RendererConfig{VisibilityUpdate: opts.EnableVisibilityUpdate})
	resource.Insert(a.res, &render.DebugDraw{})
	resource.Insert(a.res, &render.TextBatch{})

	if d.Initial != nil {
		a.scenes.RequestChange(d.Initial)
		if err := a.scenes.ActivateNext(a.world, a.res); err != nil {
			return nil, multierr.Append(err, a.res.Close())
		}
	}

	a.log.Info("app initialized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("resources", a.res.Len()),
	)
	return a, nil
}

// newExtractList is the fixed set of resources handed to the renderer
func newExtractList() *extract.List {
	l := extract.NewList()
	extract.Add[asset.Service](l)
	extract.Add[clock.TimeState](l)
	extract.Add[render.Viewports](l)
	extract.Add[render.RenderOptions](l)
	extract.Add[render.PipelineOptions](l)
	extract.Add[render.MeshOptions](l)
	extract.Add[render.RendererConfig](l)
	extract.Add[render.DebugDraw](l)
	extract.Add[render.TextBatch](l)
	return l
}

// Resources returns the registry
func (a *App) Resources() *resource.Registry {
	return a.res
}

// World returns the current entity world. It is replaced on scene change.
func (a *App) World() *ecs.World {
	return a.world
}

// Scenes returns the scene manager
func (a *App) Scenes() *scene.Manager {
	return a.scenes
}

// Shutdown cleans up the current scene and releases every resource. Safe
// to call twice.
func (a *App) Shutdown() error {
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	if a.scenes.HasCurrentScene() {
		a.world = a.scenes.TryCleanupCurrentScene(a.world, a.res)
	}
	err := a.res.Close()
	if err != nil {
		a.log.Error("shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info("shutdown complete")
	return nil
}
