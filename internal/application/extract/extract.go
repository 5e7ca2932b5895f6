// Package extract builds the per-frame snapshot handed to the renderer.
//
// The set of extracted resource types is fixed at startup with a List.
// Each frame Build takes an exclusive borrow of every listed type, in
// order, and the resulting Snapshot must be released before the frame
// returns control to the host.
package extract

import (
	"fmt"
	"reflect"

	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/ecs"
)

type borrowFunc func(r *resource.Registry) (value any, release func(), err error)

type entry struct {
	typ    reflect.Type
	borrow borrowFunc
}

// List is the ordered set of resource types to extract
type List struct {
	entries []entry
	index   map[reflect.Type]struct{}
}

// NewList creates an empty extraction list
func NewList() *List {
	return &List{index: make(map[reflect.Type]struct{})}
}

// Add appends T to the list. Adding a type twice panics because the
// second exclusive borrow could never succeed.
func Add[T any](l *List) *List {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, dup := l.index[t]; dup {
		panic(fmt.Sprintf("extract: %s added twice", t))
	}
	l.index[t] = struct{}{}

	l.entries = append(l.entries, entry{
		typ: t,
		borrow: func(r *resource.Registry) (any, func(), error) {
			ref, err := resource.GetMut[T](r)
			if err != nil {
				return nil, nil, err
			}
			return ref.Get(), ref.Release, nil
		},
	})
	return l
}

// Types returns the listed types in order
func (l *List) Types() []reflect.Type {
	types := make([]reflect.Type, len(l.entries))
	for i, e := range l.entries {
		types[i] = e.typ
	}
	return types
}

// Len returns the number of listed types
func (l *List) Len() int {
	return len(l.entries)
}

// Build borrows every listed resource plus the world. On failure the
// borrows taken so far are released and the error is returned.
func (l *List) Build(r *resource.Registry, world *ecs.World) (*Snapshot, error) {
	s := &Snapshot{
		values:   make(map[reflect.Type]any, len(l.entries)),
		releases: make([]func(), 0, len(l.entries)),
		world:    world,
	}

	for _, e := range l.entries {
		v, release, err := e.borrow(r)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("extract %s: %w", e.typ, err)
		}
		s.values[e.typ] = v
		s.releases = append(s.releases, release)
	}

	return s, nil
}

// MustBuild is Build that panics on failure
func (l *List) MustBuild(r *resource.Registry, world *ecs.World) *Snapshot {
	s, err := l.Build(r, world)
	if err != nil {
		panic(err)
	}
	return s
}

// Snapshot holds exclusive references into the registry for one render
// kickoff. It must not be retained after Release.
type Snapshot struct {
	values   map[reflect.Type]any
	releases []func()
	world    *ecs.World
	released bool
}

// Get returns the extracted *T, or false if T was not extracted or the
// snapshot has been released.
func Get[T any](s *Snapshot) (*T, bool) {
	if s.released {
		return nil, false
	}
	v, ok := s.values[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// World returns the entity world, or nil after Release
func (s *Snapshot) World() *ecs.World {
	if s.released {
		return nil
	}
	return s.world
}

// Len returns the number of extracted resources, not counting the world
func (s *Snapshot) Len() int {
	return len(s.values)
}

// Released reports whether Release has been called
func (s *Snapshot) Released() bool {
	return s.released
}

// Release ends every borrow in reverse order. Safe to call twice.
func (s *Snapshot) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
	s.values = nil
	s.world = nil
}
