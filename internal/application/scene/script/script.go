// Package script runs a scene whose behavior is a Lua script loaded
// through the asset service.
//
// A script may define init(), update(dt) and cleanup(). The host API is:
//
//	spawn_point_light(x, y, range [, r, g, b]) -> id
//	spawn_sprite(x, y, w, h [, vx, vy, r, g, b]) -> id
//	set_position(id, x, y) -> bool
//	entity_count() -> n
//	text(s, x, y)
//	line(x1, y1, x2, y2)
//	frame() -> update count
package script

import (
	"fmt"
	"path"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/ecs"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

// Register adds one catalog entry per script name. Each entry loads
// <dir>/<name>.lua.
func Register(c *scene.Catalog, dir string, log *zap.Logger, names ...string) {
	for _, name := range names {
		p := path.Join(dir, name+".lua")
		c.Register(name, func() scene.Scene { return New(c, name, p, log) })
	}
}

// Scene is a Lua-driven scene
type Scene struct {
	*scene.Navigator

	path   string
	log    *zap.Logger
	handle asset.Handle
	vm     *lua.LState

	// valid only while a Lua function is running
	world *ecs.World
	res   *resource.Registry
}

// New creates a script scene registered in c as name
func New(c *scene.Catalog, name, scriptPath string, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		Navigator: scene.NewNavigator(c, name),
		path:      scriptPath,
		log:       log,
	}
}

// Enter requests the script source
func (s *Scene) Enter(_ *ecs.World, res *resource.Registry) error {
	ref, err := resource.Get[asset.Service](res)
	if err != nil {
		return fmt.Errorf("script %s: %w", s.path, err)
	}
	defer ref.Release()

	s.handle = ref.Get().Load(s.path)
	return nil
}

// Update starts the script once its source is ready, then calls update(dt)
func (s *Scene) Update(world *ecs.World, res *resource.Registry) (scene.Scene, error) {
	if s.vm == nil {
		ready, err := s.start(world, res)
		if err != nil {
			return nil, err
		}
		if !ready {
			resource.Write(res, func(tb *render.TextBatch) {
				tb.Add("loading "+s.path, geom.V3(10, 40, 0), 14, geom.White)
			})
			return s.Next()
		}
	}

	dt := 0.0
	if ref, err := resource.Get[clock.TimeState](res); err == nil {
		dt = ref.Get().PreviousUpdateSeconds()
		ref.Release()
	}
	if err := s.call(world, res, "update", lua.LNumber(dt)); err != nil {
		return nil, err
	}
	return s.Next()
}

// ProcessInput handles demo switching
func (s *Scene) ProcessInput(_ *ecs.World, _ *resource.Registry, ev input.Event) {
	s.HandleInput(ev)
}

// Cleanup calls the script's cleanup() and closes the VM
func (s *Scene) Cleanup(world *ecs.World, res *resource.Registry) {
	if s.vm == nil {
		return
	}
	if err := s.call(world, res, "cleanup"); err != nil {
		s.log.Warn("lua cleanup error", zap.String("script", s.path), zap.Error(err))
	}
	s.vm.Close()
	s.vm = nil
}

// start returns false while the source is still loading
func (s *Scene) start(world *ecs.World, res *resource.Registry) (bool, error) {
	ref, err := resource.Get[asset.Service](res)
	if err != nil {
		return false, fmt.Errorf("script %s: %w", s.path, err)
	}
	svc := ref.Get()
	st, err := svc.State(s.handle)
	if err != nil {
		ref.Release()
		return false, fmt.Errorf("script %s: %w", s.path, err)
	}
	src, ok := svc.Get(s.handle)
	loadErr := svc.Err(s.handle)
	ref.Release()

	if st == asset.StateFailed {
		return false, fmt.Errorf("script %s: %w", s.path, loadErr)
	}
	if !ok {
		return false, nil
	}

	vm := lua.NewState()
	s.vm = vm
	s.registerAPI()

	if err := vm.DoString(string(src)); err != nil {
		vm.Close()
		s.vm = nil
		return false, fmt.Errorf("load %s: %w", s.path, err)
	}
	s.log.Debug("loaded lua script", zap.String("file", s.path))

	if err := s.call(world, res, "init"); err != nil {
		return false, err
	}
	return true, nil
}

// call runs a global Lua function if the script defines it
func (s *Scene) call(world *ecs.World, res *resource.Registry, name string, args ...lua.LValue) error {
	fn := s.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}

	s.world, s.res = world, res
	defer func() { s.world, s.res = nil, nil }()

	if err := s.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("lua %s in %s: %w", name, s.path, err)
	}
	return nil
}

func (s *Scene) registerAPI() {
	api := map[string]lua.LGFunction{
		"spawn_point_light": s.luaSpawnPointLight,
		"spawn_sprite":      s.luaSpawnSprite,
		"set_position":      s.luaSetPosition,
		"entity_count":      s.luaEntityCount,
		"text":              s.luaText,
		"line":              s.luaLine,
		"frame":             s.luaFrame,
	}
	for name, fn := range api {
		s.vm.SetGlobal(name, s.vm.NewFunction(fn))
	}
}

func optColor(L *lua.LState, first int) geom.Color {
	return geom.RGB(
		float64(L.OptNumber(first, 1)),
		float64(L.OptNumber(first+1, 1)),
		float64(L.OptNumber(first+2, 1)),
	)
}

func (s *Scene) luaSpawnPointLight(L *lua.LState) int {
	pos := geom.V3(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), 0)
	id := s.world.CreatePointLight(pos, ecs.PointLight{
		Color:     optColor(L, 4),
		Range:     float64(L.CheckNumber(3)),
		Intensity: 1,
	})
	L.Push(lua.LNumber(id))
	return 1
}

func (s *Scene) luaSpawnSprite(L *lua.LState) int {
	pos := geom.V3(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), 0)
	id := s.world.CreateSprite(pos, ecs.Sprite{
		Width:  float64(L.CheckNumber(3)),
		Height: float64(L.CheckNumber(4)),
		Color:  optColor(L, 7),
	}, ecs.Velocity{
		X: float64(L.OptNumber(5, 0)),
		Y: float64(L.OptNumber(6, 0)),
	})
	L.Push(lua.LNumber(id))
	return 1
}

func (s *Scene) luaSetPosition(L *lua.LState) int {
	id := ecs.EntityID(L.CheckNumber(1))
	pos := geom.V3(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), 0)
	L.Push(lua.LBool(s.world.SetPosition(id, pos)))
	return 1
}

func (s *Scene) luaEntityCount(L *lua.LState) int {
	L.Push(lua.LNumber(s.world.Len()))
	return 1
}

func (s *Scene) luaText(L *lua.LState) int {
	text := L.CheckString(1)
	pos := geom.V3(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), 0)
	resource.Write(s.res, func(tb *render.TextBatch) {
		tb.Add(text, pos, 14, geom.White)
	})
	return 0
}

func (s *Scene) luaLine(L *lua.LState) int {
	from := geom.V3(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), 0)
	to := geom.V3(float64(L.CheckNumber(3)), float64(L.CheckNumber(4)), 0)
	resource.Write(s.res, func(dd *render.DebugDraw) {
		dd.AddLine(from, to, geom.White)
	})
	return 0
}

func (s *Scene) luaFrame(L *lua.LState) int {
	var n uint64
	if ref, err := resource.Get[clock.TimeState](s.res); err == nil {
		n = ref.Get().UpdateCount()
		ref.Release()
	}
	L.Push(lua.LNumber(n))
	return 1
}
