package ecs

import "github.com/younwookim/framehost/internal/domain/geom"

// Transform places an entity in the scene
type Transform struct {
	Translation geom.Vec3
	Scale       float64
}

// Velocity is movement in units per second
type Velocity struct {
	X, Y, Z float64
}

// DirectionalLight lights the whole scene from one direction
type DirectionalLight struct {
	Direction geom.Vec3
	Color     geom.Color
	Intensity float64
}

// PointLight radiates from the entity's Transform up to Range
type PointLight struct {
	Color     geom.Color
	Range     float64
	Intensity float64
}

// SpotLight is a cone of light from the entity's Transform
type SpotLight struct {
	Direction          geom.Vec3
	Color              geom.Color
	Range              float64
	SpotlightHalfAngle float64 // radians
	Intensity          float64
}

// Sprite is a flat colored rectangle centered on the Transform
type Sprite struct {
	Color         geom.Color
	Width, Height float64
}
