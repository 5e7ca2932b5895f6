package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/ecs"
)

type viewport struct{ W, H int }
type options struct{ Wireframe bool }
type notListed struct{}

func newRegistry() *resource.Registry {
	r := resource.NewRegistry()
	resource.Insert(r, &viewport{W: 640, H: 480})
	resource.Insert(r, &options{})
	resource.Insert(r, &notListed{})
	return r
}

func TestBuild_BorrowsListedTypes(t *testing.T) {
	r := newRegistry()
	world := ecs.NewWorld()

	l := NewList()
	Add[viewport](l)
	Add[options](l)

	snap, err := l.Build(r, world)
	require.NoError(t, err)

	vp, ok := Get[viewport](snap)
	require.True(t, ok)
	assert.Equal(t, 640, vp.W)
	assert.Same(t, world, snap.World())
	assert.Equal(t, 2, snap.Len())

	_, ok = Get[notListed](snap)
	assert.False(t, ok)

	// borrows are exclusive while the snapshot is live
	_, err = resource.Get[viewport](r)
	assert.ErrorIs(t, err, resource.ErrBorrowConflict)

	// unlisted resources stay available
	ref, err := resource.GetMut[notListed](r)
	require.NoError(t, err)
	ref.Release()

	snap.Release()

	ref2, err := resource.GetMut[viewport](r)
	require.NoError(t, err, "release must end every borrow")
	ref2.Release()
}

func TestBuild_MutationsVisibleInRegistry(t *testing.T) {
	r := newRegistry()
	l := NewList()
	Add[options](l)

	snap := l.MustBuild(r, ecs.NewWorld())
	o, _ := Get[options](snap)
	o.Wireframe = true
	snap.Release()

	resource.Read(r, func(v *options) { assert.True(t, v.Wireframe) })
}

func TestBuild_MissingReleasesPartial(t *testing.T) {
	r := resource.NewRegistry()
	resource.Insert(r, &viewport{})

	l := NewList()
	Add[viewport](l)
	Add[options](l) // not inserted

	_, err := l.Build(r, ecs.NewWorld())
	require.Error(t, err)
	assert.ErrorIs(t, err, resource.ErrMissing)

	ref, err := resource.GetMut[viewport](r)
	require.NoError(t, err, "partial borrows must be released on failure")
	ref.Release()

	assert.Panics(t, func() { l.MustBuild(r, ecs.NewWorld()) })
}

func TestBuild_ConflictWithOutstandingBorrow(t *testing.T) {
	r := newRegistry()
	l := NewList()
	Add[viewport](l)

	held := resource.MustGet[viewport](r)
	_, err := l.Build(r, ecs.NewWorld())
	assert.ErrorIs(t, err, resource.ErrBorrowConflict)
	held.Release()
}

func TestSnapshot_ReleasedIsEmpty(t *testing.T) {
	r := newRegistry()
	l := NewList()
	Add[viewport](l)

	snap := l.MustBuild(r, ecs.NewWorld())
	snap.Release()
	snap.Release()

	assert.True(t, snap.Released())
	_, ok := Get[viewport](snap)
	assert.False(t, ok)
	assert.Nil(t, snap.World())
}

func TestAdd_DuplicatePanics(t *testing.T) {
	l := NewList()
	Add[viewport](l)

	assert.Panics(t, func() { Add[viewport](l) })
}

func TestTypes_Ordered(t *testing.T) {
	l := NewList()
	Add[options](l)
	Add[viewport](l)

	types := l.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "options", types[0].Name())
	assert.Equal(t, "viewport", types[1].Name())
	assert.Equal(t, 2, l.Len())
}
