package demo

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/ecs"
)

const (
	spriteCount = 24
	spriteSize  = 12.0
	spriteSpeed = 120.0
)

// Sprites bounces colored quads inside the window
type Sprites struct {
	*scene.Navigator
	noise *perlin.Perlin
}

// NewSprites creates the sprites demo
func NewSprites(c *scene.Catalog) *Sprites {
	return &Sprites{
		Navigator: scene.NewNavigator(c, NameSprites),
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseN, noiseSeed+1),
	}
}

// Enter spawns the sprites
func (s *Sprites) Enter(world *ecs.World, res *resource.Registry) error {
	w, h := viewportSize(res)
	for i := 0; i < spriteCount; i++ {
		f := float64(i) * 0.13
		pos := geom.V3(
			clamp(w/2+s.noise.Noise2D(f, 1.5)*w/2, w),
			clamp(h/2+s.noise.Noise2D(1.5, f)*h/2, h),
			float64(i%3),
		)
		vel := ecs.Velocity{
			X: s.noise.Noise2D(f, 3.7) * spriteSpeed * 2,
			Y: s.noise.Noise2D(3.7, f) * spriteSpeed * 2,
		}
		world.CreateSprite(pos, ecs.Sprite{
			Color:  lightPalette[i%len(lightPalette)],
			Width:  spriteSize,
			Height: spriteSize,
		}, vel)
	}
	return nil
}

// Update moves every sprite and reflects it off the window edges
func (s *Sprites) Update(world *ecs.World, res *resource.Registry) (scene.Scene, error) {
	dt := frameSeconds(res)
	w, h := viewportSize(res)

	for id, vel := range world.Velocity {
		tr, ok := world.Transform[id]
		if !ok {
			continue
		}
		p := tr.Translation.Add(geom.V3(vel.X*dt, vel.Y*dt, 0))
		p.X, vel.X = bounce(p.X, vel.X, w)
		p.Y, vel.Y = bounce(p.Y, vel.Y, h)
		tr.Translation = p
		world.Transform[id] = tr
		world.Velocity[id] = vel
	}

	resource.Write(res, func(tb *render.TextBatch) {
		tb.Add(fmt.Sprintf("sprites: %d", len(world.Sprite)), geom.V3(10, 40, 0), 14, geom.White)
	})

	return s.Next()
}

// ProcessInput handles demo switching
func (s *Sprites) ProcessInput(_ *ecs.World, _ *resource.Registry, ev input.Event) {
	s.HandleInput(ev)
}

// bounce keeps x inside [0, limit], flipping v when it crosses an edge
func bounce(x, v, limit float64) (float64, float64) {
	switch {
	case x < 0:
		return -x, -v
	case x > limit:
		return 2*limit - x, -v
	default:
		return x, v
	}
}

func clamp(x, limit float64) float64 {
	return math.Max(0, math.Min(limit, x))
}
