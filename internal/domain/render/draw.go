package render

import (
	"math"

	"github.com/younwookim/framehost/internal/domain/geom"
)

// Line is a debug line segment
type Line struct {
	From, To geom.Vec3
	Color    geom.Color
}

// DebugDraw collects debug primitives for one frame. Everything is
// flattened into line segments; the renderer takes the batch on extract.
type DebugDraw struct {
	lines []Line
}

// AddLine adds a single segment
func (d *DebugDraw) AddLine(from, to geom.Vec3, c geom.Color) {
	d.lines = append(d.lines, Line{From: from, To: to, Color: c})
}

// AddCircle adds a circle in the XY plane
func (d *DebugDraw) AddCircle(center geom.Vec3, radius float64, c geom.Color, segments int) {
	if segments < 3 {
		segments = 3
	}
	step := 2 * math.Pi / float64(segments)
	prev := center.Add(geom.V3(radius, 0, 0))
	for i := 1; i <= segments; i++ {
		a := step * float64(i)
		next := center.Add(geom.V3(radius*math.Cos(a), radius*math.Sin(a), 0))
		d.AddLine(prev, next, c)
		prev = next
	}
}

// AddSphere adds a sphere outline, drawn as its XY silhouette
func (d *DebugDraw) AddSphere(center geom.Vec3, radius float64, c geom.Color, segments int) {
	d.AddCircle(center, radius, c, segments)
}

// AddCone adds a cone from vertex to the center of its base
func (d *DebugDraw) AddCone(vertex, baseCenter geom.Vec3, radius float64, c geom.Color, segments int) {
	axis := baseCenter.Sub(vertex).Normalize()
	// perpendicular in the XY plane
	side := geom.V3(-axis.Y, axis.X, 0).Normalize()
	if side == (geom.Vec3{}) {
		side = geom.V3(1, 0, 0)
	}

	left := baseCenter.Add(side.Scale(radius))
	right := baseCenter.Sub(side.Scale(radius))
	d.AddLine(vertex, left, c)
	d.AddLine(vertex, right, c)
	d.AddLine(left, right, c)
	d.AddCircle(baseCenter, radius, c, segments)
}

// Len returns the number of queued segments
func (d *DebugDraw) Len() int {
	return len(d.lines)
}

// Take returns the queued segments and empties the batch
func (d *DebugDraw) Take() []Line {
	lines := d.lines
	d.lines = nil
	return lines
}

// Text is a label drawn in screen space
type Text struct {
	Text     string
	Position geom.Vec3
	Size     float64
	Color    geom.Color
}

// TextBatch collects labels for one frame
type TextBatch struct {
	items []Text
}

// Add queues a label
func (b *TextBatch) Add(text string, position geom.Vec3, size float64, c geom.Color) {
	b.items = append(b.items, Text{Text: text, Position: position, Size: size, Color: c})
}

// Len returns the number of queued labels
func (b *TextBatch) Len() int {
	return len(b.items)
}

// Take returns the queued labels and empties the batch
func (b *TextBatch) Take() []Text {
	items := b.items
	b.items = nil
	return items
}
