// Package demo holds the built-in demo scenes.
package demo

import (
	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/domain/render"
)

const (
	NameLights  = "lights"
	NameSprites = "sprites"

	fallbackWidth  = 1280
	fallbackHeight = 720
)

// Register adds the built-in demos to c
func Register(c *scene.Catalog) {
	c.Register(NameLights, func() scene.Scene { return NewLights(c) })
	c.Register(NameSprites, func() scene.Scene { return NewSprites(c) })
}

func viewportSize(res *resource.Registry) (w, h float64) {
	ref, err := resource.Get[render.Viewports](res)
	if err != nil {
		return fallbackWidth, fallbackHeight
	}
	defer ref.Release()

	ext := ref.Get().MainWindowSize
	if ext.Width == 0 || ext.Height == 0 {
		return fallbackWidth, fallbackHeight
	}
	return float64(ext.Width), float64(ext.Height)
}

func frameSeconds(res *resource.Registry) float64 {
	ref, err := resource.Get[clock.TimeState](res)
	if err != nil {
		return 0
	}
	defer ref.Release()
	return ref.Get().PreviousUpdateSeconds()
}
