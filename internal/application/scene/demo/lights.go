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
	pointLightCount = 8
	spotLightCount  = 2
	driftAmplitude  = 60.0
	driftSpeed      = 0.4
	debugSegments   = 16
)

// Noise parameters follow the usual perlin defaults
const (
	noiseAlpha = 2.0
	noiseBeta  = 2.0
	noiseN     = 3
	noiseSeed  = 7
)

var lightPalette = []geom.Color{
	geom.RGB(1, 0.3, 0.3),
	geom.RGB(0.3, 1, 0.3),
	geom.RGB(0.3, 0.3, 1),
	geom.RGB(1, 1, 0.3),
}

// Lights places directional, point and spot lights and drifts the point
// lights along a perlin field. Every frame it draws each light's shape as
// debug lines.
type Lights struct {
	*scene.Navigator

	noise  *perlin.Perlin
	points []ecs.EntityID
	anchor []geom.Vec3
	t      float64
}

// NewLights creates the lights demo
func NewLights(c *scene.Catalog) *Lights {
	return &Lights{
		Navigator: scene.NewNavigator(c, NameLights),
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseN, noiseSeed),
	}
}

// Enter populates world with the demo lights
func (l *Lights) Enter(world *ecs.World, res *resource.Registry) error {
	w, h := viewportSize(res)

	world.CreateDirectionalLight(ecs.DirectionalLight{
		Direction: geom.V3(1, 1, -1).Normalize(),
		Color:     geom.White,
		Intensity: 0.3,
	})

	l.points = l.points[:0]
	l.anchor = l.anchor[:0]
	for i := 0; i < pointLightCount; i++ {
		// spread anchors on a grid, jittered by noise
		col, row := float64(i%4), float64(i/4)
		jx := l.noise.Noise2D(float64(i)*0.37, 0) * driftAmplitude
		jy := l.noise.Noise2D(0, float64(i)*0.37) * driftAmplitude
		pos := geom.V3(w*(col+0.5)/4+jx, h*(row+0.5)/2+jy, 0)

		id := world.CreatePointLight(pos, ecs.PointLight{
			Color:     lightPalette[i%len(lightPalette)],
			Range:     40,
			Intensity: 1,
		})
		world.Name[id] = fmt.Sprintf("point-%d", i)
		l.points = append(l.points, id)
		l.anchor = append(l.anchor, pos)
	}

	for i := 0; i < spotLightCount; i++ {
		x := w * float64(i+1) / float64(spotLightCount+1)
		id := world.CreateSpotLight(geom.V3(x, 20, 0), ecs.SpotLight{
			Direction:          geom.V3(0, 1, 0),
			Color:              geom.RGB(1, 0.9, 0.7),
			Range:              h / 2,
			SpotlightHalfAngle: math.Pi / 8,
			Intensity:          2,
		})
		world.Name[id] = fmt.Sprintf("spot-%d", i)
	}
	return nil
}

// Update drifts the point lights and draws every light
func (l *Lights) Update(world *ecs.World, res *resource.Registry) (scene.Scene, error) {
	l.t += frameSeconds(res) * driftSpeed

	for i, id := range l.points {
		dx := l.noise.Noise2D(float64(i)*0.37, l.t) * driftAmplitude
		dy := l.noise.Noise2D(l.t, float64(i)*0.37) * driftAmplitude
		world.SetPosition(id, l.anchor[i].Add(geom.V3(dx, dy, 0)))
	}

	resource.Write(res, func(dd *render.DebugDraw) {
		drawLights(dd, world)
	})
	resource.Write(res, func(tb *render.TextBatch) {
		tb.Add(fmt.Sprintf("lights: %d", world.CountLights()), geom.V3(10, 40, 0), 14, geom.White)
	})

	return l.Next()
}

// ProcessInput handles demo switching
func (l *Lights) ProcessInput(_ *ecs.World, _ *resource.Registry, ev input.Event) {
	l.HandleInput(ev)
}

// Cleanup forgets the entity ids of the discarded world
func (l *Lights) Cleanup(_ *ecs.World, _ *resource.Registry) {
	l.points = nil
	l.anchor = nil
}

func drawLights(dd *render.DebugDraw, world *ecs.World) {
	for _, id := range world.Entities(nil) {
		if d, ok := world.DirectionalLight[id]; ok {
			origin := geom.V3(40, 80, 0)
			dd.AddLine(origin, origin.Add(d.Direction.Scale(30)), d.Color)
		}
		pos := world.Transform[id].Translation
		if p, ok := world.PointLight[id]; ok {
			dd.AddSphere(pos, p.Range/4, p.Color, debugSegments)
		}
		if s, ok := world.SpotLight[id]; ok {
			radius := s.Range * math.Tan(s.SpotlightHalfAngle)
			dd.AddCone(pos, pos.Add(s.Direction.Normalize().Scale(s.Range)), radius, s.Color, debugSegments)
		}
	}
}
