package pipeline

import (
	"time"

	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
)

// LightKind distinguishes light instances
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// SpriteInstance is a sprite copied out of the world
type SpriteInstance struct {
	Position      geom.Vec3
	Width, Height float64
	Color         geom.Color
}

// LightInstance is a light copied out of the world
type LightInstance struct {
	Kind      LightKind
	Position  geom.Vec3
	Direction geom.Vec3
	Color     geom.Color
	Range     float64
	Intensity float64
	HalfAngle float64
}

// Frame is everything the worker needs to prepare one frame. Once
// published through Latest it is never mutated.
type Frame struct {
	Number           uint64
	DT               time.Duration
	Viewport         render.Extents2D
	Options          render.PipelineOptions
	Mesh             render.MeshOptions
	VisibilityUpdate bool

	Sprites []SpriteInstance
	Lights  []LightInstance
	Lines   []render.Line
	Texts   []render.Text

	// Culled counts sprites dropped by the visibility pass
	Culled int
}

// Stats are pipeline counters
type Stats struct {
	Started   uint64
	Completed uint64
	Cleared   uint64
}
