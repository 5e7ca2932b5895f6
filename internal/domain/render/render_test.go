package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/framehost/internal/domain/geom"
)

func TestPresets(t *testing.T) {
	d2 := Default2D()
	d3 := Default3D()

	assert.False(t, d2.EnableMSAA)
	assert.True(t, d3.EnableMSAA)
	assert.Equal(t, 0, d2.BlurPassCount)
	assert.Equal(t, 5, d3.BlurPassCount)
	assert.Equal(t, TonemapperAutoExposureOld, d3.TonemapperType)

	assert.Equal(t, d3, Preset("3d"))
	assert.Equal(t, d2, Preset("2d"))
	assert.Equal(t, d2, Preset("unknown"))
}

func TestRenderOptions_SyncTo(t *testing.T) {
	opts := Default3D()
	opts.ShowShadows = false
	opts.EnableLighting = false

	var p PipelineOptions
	var m MeshOptions
	opts.SyncTo(&p, &m)

	assert.True(t, p.EnableMSAA)
	assert.True(t, p.EnableBloom)
	assert.Equal(t, 5, p.BlurPassCount)
	assert.Equal(t, opts.TonemapperType, p.TonemapperType)
	assert.False(t, m.ShowShadows)
	assert.False(t, m.EnableLighting)
	assert.True(t, m.ShowSurfaces)

	// value copy, not aliasing
	opts.EnableMSAA = false
	assert.True(t, p.EnableMSAA)
}

func TestTonemapperType_String(t *testing.T) {
	assert.Equal(t, "None", TonemapperNone.String())
	assert.Equal(t, "Hable", TonemapperHable.String())
	assert.Equal(t, "Unknown", TonemapperMax.String())
}

func TestDebugDraw_TakeEmpties(t *testing.T) {
	var d DebugDraw
	d.AddLine(geom.V3(0, 0, 0), geom.V3(1, 1, 0), geom.White)
	d.AddSphere(geom.V3(0, 0, 0), 2, geom.White, 12)

	assert.Equal(t, 13, d.Len())

	lines := d.Take()
	assert.Len(t, lines, 13)
	assert.Equal(t, 0, d.Len())
}

func TestDebugDraw_CircleCloses(t *testing.T) {
	var d DebugDraw
	d.AddCircle(geom.V3(10, 10, 0), 5, geom.White, 8)

	lines := d.Take()
	require.Len(t, lines, 8)
	first := lines[0].From
	last := lines[len(lines)-1].To
	assert.InDelta(t, first.X, last.X, 1e-9)
	assert.InDelta(t, first.Y, last.Y, 1e-9)
}

func TestDebugDraw_Cone(t *testing.T) {
	var d DebugDraw
	d.AddCone(geom.V3(0, 0, 0), geom.V3(0, 10, 0), 3, geom.White, 6)

	// two sides, base chord, base circle
	assert.Equal(t, 3+6, d.Len())
}

func TestTextBatch(t *testing.T) {
	var b TextBatch
	b.Add("hello", geom.V3(1, 2, 0), 20, geom.White)

	items := b.Take()
	require.Len(t, items, 1)
	assert.Equal(t, "hello", items[0].Text)
	assert.Equal(t, 0, b.Len())
}
