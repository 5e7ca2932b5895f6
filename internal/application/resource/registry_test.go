package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N int
}

type settings struct {
	Name string
}

type closable struct {
	name   string
	closed *[]string
	err    error
}

func (c *closable) Close() error {
	*c.closed = append(*c.closed, c.name)
	return c.err
}

type otherClosable struct {
	closable
}

func TestInsertAndGet(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{N: 3})

	ref, err := Get[counter](r)
	require.NoError(t, err)
	assert.Equal(t, 3, ref.Get().N)
	ref.Release()

	assert.True(t, Contains[counter](r))
	assert.False(t, Contains[settings](r))
	assert.Equal(t, 1, r.Len())
}

func TestGet_Missing(t *testing.T) {
	r := NewRegistry()

	_, err := Get[counter](r)
	assert.ErrorIs(t, err, ErrMissing)

	_, err = GetMut[counter](r)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestGetMut_ExclusiveBorrowsConflict(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{})

	first, err := GetMut[counter](r)
	require.NoError(t, err)

	_, err = GetMut[counter](r)
	assert.ErrorIs(t, err, ErrBorrowConflict, "second exclusive borrow must fail while first is live")

	_, err = Get[counter](r)
	assert.ErrorIs(t, err, ErrBorrowConflict, "shared borrow must fail while exclusive is live")

	first.Release()

	second, err := GetMut[counter](r)
	require.NoError(t, err, "exclusive borrow should succeed after release")
	second.Release()
}

func TestGet_SharedBorrowsCoexist(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{N: 1})

	a, err := Get[counter](r)
	require.NoError(t, err)
	b, err := Get[counter](r)
	require.NoError(t, err)

	assert.Same(t, a.Get(), b.Get())

	_, err = GetMut[counter](r)
	assert.ErrorIs(t, err, ErrBorrowConflict)

	a.Release()
	_, err = GetMut[counter](r)
	assert.ErrorIs(t, err, ErrBorrowConflict, "one shared borrow still live")

	b.Release()
	m, err := GetMut[counter](r)
	require.NoError(t, err)
	m.Release()
}

func TestBorrowsArePerType(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{})
	Insert(r, &settings{})

	c := MustGetMut[counter](r)
	s := MustGetMut[settings](r)

	c.Get().N = 7
	s.Get().Name = "x"

	c.Release()
	s.Release()

	Read(r, func(v *counter) { assert.Equal(t, 7, v.N) })
}

func TestRelease_Idempotent(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{})

	a := MustGet[counter](r)
	b := MustGet[counter](r)
	a.Release()
	a.Release()

	// b is still live, so an exclusive borrow must still fail
	_, err := GetMut[counter](r)
	assert.ErrorIs(t, err, ErrBorrowConflict)
	b.Release()

	assert.Nil(t, a.Get())
}

func TestMustGet_Panics(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() { MustGet[counter](r) })
	assert.Panics(t, func() { MustGetMut[counter](r) })

	Insert(r, &counter{})
	m := MustGetMut[counter](r)
	assert.Panics(t, func() { MustGetMut[counter](r) })
	m.Release()
}

func TestInsert_ReplacesValue(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{N: 1})
	Insert(r, &counter{N: 2})

	assert.Equal(t, 1, r.Len())
	Read(r, func(v *counter) { assert.Equal(t, 2, v.N) })
}

func TestInsert_WhileBorrowedPanics(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{N: 1})

	ref := MustGet[counter](r)
	defer ref.Release()

	assert.Panics(t, func() { Insert(r, &counter{N: 2}) })
}

func TestWrite(t *testing.T) {
	r := NewRegistry()
	Insert(r, &counter{})

	Write(r, func(v *counter) { v.N += 5 })
	Write(r, func(v *counter) { v.N += 5 })

	Read(r, func(v *counter) { assert.Equal(t, 10, v.N) })
}

func TestClose_InsertionOrder(t *testing.T) {
	var closed []string
	r := NewRegistry()

	Insert(r, &closable{name: "first", closed: &closed})
	Insert(r, &counter{})
	Insert(r, &otherClosable{closable{name: "second", closed: &closed}})

	require.NoError(t, r.Close())
	assert.Equal(t, []string{"first", "second"}, closed)
	assert.Equal(t, 0, r.Len())
}

func TestClose_CombinesErrors(t *testing.T) {
	var closed []string
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	r := NewRegistry()
	Insert(r, &closable{name: "a", closed: &closed, err: errA})
	Insert(r, &otherClosable{closable{name: "b", closed: &closed, err: errB}})

	err := r.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "b"}, closed, "every entry is attempted")
}

type service interface {
	Close() error
}

func TestClose_StoredInterface(t *testing.T) {
	var closed []string
	r := NewRegistry()

	var svc service = &closable{name: "iface", closed: &closed}
	Insert(r, &svc)

	require.NoError(t, r.Close())
	assert.Equal(t, []string{"iface"}, closed)
}
