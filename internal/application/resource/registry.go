// Package resource provides the process-wide store of singleton values
// shared between frame loop steps.
//
// Each stored type has exactly one instance. Access goes through scoped
// borrows: any number of shared borrows, or a single exclusive borrow, may
// be live per type at a time. Violations are programmer errors; the Must*
// accessors panic on them.
package resource

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"go.uber.org/multierr"
)

var (
	// ErrMissing is returned when no value of the requested type was inserted
	ErrMissing = errors.New("resource not found")

	// ErrBorrowConflict is returned when a borrow would alias an exclusive one
	ErrBorrowConflict = errors.New("resource borrow conflict")
)

// exclusive marks a cell borrowed mutably
const exclusive = -1

type cell struct {
	value   any // always *T
	borrows int // >0 shared count, exclusive, or 0
}

// Registry is a type-indexed singleton store with runtime borrow checking.
// It is meant for a single thread of control; the mutex only protects
// the bookkeeping.
type Registry struct {
	mu    sync.Mutex
	cells map[reflect.Type]*cell
	order []reflect.Type
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		cells: make(map[reflect.Type]*cell),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores v as the singleton for T, replacing any previous value.
// Replacing a value that is currently borrowed panics.
func Insert[T any](r *Registry, v *T) {
	if v == nil {
		panic(fmt.Sprintf("resource: insert nil %s", typeOf[T]()))
	}

	t := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cells[t]; ok {
		if c.borrows != 0 {
			panic(fmt.Errorf("%w: replace %s while borrowed", ErrBorrowConflict, t))
		}
		c.value = v
		return
	}

	r.cells[t] = &cell{value: v}
	r.order = append(r.order, t)
}

// Contains reports whether a value of type T was inserted
func Contains[T any](r *Registry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cells[typeOf[T]()]
	return ok
}

// Len returns the number of stored types
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cells)
}

// Ref is a shared borrow. Callers must treat the value as read-only.
type Ref[T any] struct {
	value   *T
	release func()
}

// Get returns the borrowed value
func (b *Ref[T]) Get() *T {
	return b.value
}

// Release ends the borrow. Calling it more than once is a no-op.
func (b *Ref[T]) Release() {
	if b.release != nil {
		b.release()
		b.release = nil
		b.value = nil
	}
}

// RefMut is an exclusive borrow.
type RefMut[T any] struct {
	value   *T
	release func()
}

// Get returns the borrowed value
func (b *RefMut[T]) Get() *T {
	return b.value
}

// Release ends the borrow. Calling it more than once is a no-op.
func (b *RefMut[T]) Release() {
	if b.release != nil {
		b.release()
		b.release = nil
		b.value = nil
	}
}

// Get takes a shared borrow of T
func Get[T any](r *Registry) (*Ref[T], error) {
	t := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cells[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissing, t)
	}
	if c.borrows == exclusive {
		return nil, fmt.Errorf("%w: %s is borrowed exclusively", ErrBorrowConflict, t)
	}

	c.borrows++
	return &Ref[T]{
		value: c.value.(*T),
		release: func() {
			r.mu.Lock()
			c.borrows--
			r.mu.Unlock()
		},
	}, nil
}

// GetMut takes an exclusive borrow of T
func GetMut[T any](r *Registry) (*RefMut[T], error) {
	t := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cells[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissing, t)
	}
	if c.borrows != 0 {
		return nil, fmt.Errorf("%w: %s is already borrowed", ErrBorrowConflict, t)
	}

	c.borrows = exclusive
	return &RefMut[T]{
		value: c.value.(*T),
		release: func() {
			r.mu.Lock()
			c.borrows = 0
			r.mu.Unlock()
		},
	}, nil
}

// MustGet is Get that panics on a missing resource or borrow conflict
func MustGet[T any](r *Registry) *Ref[T] {
	ref, err := Get[T](r)
	if err != nil {
		panic(err)
	}
	return ref
}

// MustGetMut is GetMut that panics on a missing resource or borrow conflict
func MustGetMut[T any](r *Registry) *RefMut[T] {
	ref, err := GetMut[T](r)
	if err != nil {
		panic(err)
	}
	return ref
}

// Read runs fn with a shared borrow of T, releasing it afterwards
func Read[T any](r *Registry, fn func(v *T)) {
	ref := MustGet[T](r)
	defer ref.Release()
	fn(ref.Get())
}

// Write runs fn with an exclusive borrow of T, releasing it afterwards
func Write[T any](r *Registry, fn func(v *T)) {
	ref := MustGetMut[T](r)
	defer ref.Release()
	fn(ref.Get())
}

// Close releases every stored value that implements io.Closer, in
// insertion order. All values are attempted; errors are combined.
// The registry is empty afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	order := r.order
	cells := r.cells
	r.order = nil
	r.cells = make(map[reflect.Type]*cell)
	r.mu.Unlock()

	var err error
	for _, t := range order {
		c := cells[t]
		if c.borrows != 0 {
			err = multierr.Append(err, fmt.Errorf("%w: close %s while borrowed", ErrBorrowConflict, t))
			continue
		}
		if closer := closerOf(c.value); closer != nil {
			if cerr := closer.Close(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("close %s: %w", t, cerr))
			}
		}
	}
	return err
}

// closerOf finds an io.Closer on the stored pointer or, for stored
// interfaces and pointers, on the value it points to.
func closerOf(v any) io.Closer {
	if c, ok := v.(io.Closer); ok {
		return c
	}

	elem := reflect.ValueOf(v).Elem()
	switch elem.Kind() {
	case reflect.Interface, reflect.Pointer:
		if elem.IsNil() {
			return nil
		}
		if c, ok := elem.Interface().(io.Closer); ok {
			return c
		}
	}
	return nil
}
