package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Normalize(t *testing.T) {
	v := V3(3, 0, 4).Normalize()

	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.InDelta(t, 0.8, v.Z, 1e-12)
	assert.InDelta(t, 1.0, v.Length(), 1e-12)

	assert.Equal(t, Vec3{}, Vec3{}.Normalize(), "zero vector stays zero")
}

func TestVec3_Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	assert.Equal(t, V3(5, 7, 9), a.Add(b))
	assert.Equal(t, V3(3, 3, 3), b.Sub(a))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
}

func TestColor_RGBA8(t *testing.T) {
	r, g, b, a := Color{R: 1.5, G: 0.5, B: -1, A: 1}.RGBA8()

	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(128), g)
	assert.Equal(t, uint8(0), b)
	assert.Equal(t, uint8(255), a)
}
