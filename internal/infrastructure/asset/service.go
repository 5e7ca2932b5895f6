package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownHandle is returned for handles the service never issued
var ErrUnknownHandle = errors.New("unknown asset handle")

// Handle identifies a requested asset
type Handle struct {
	id uuid.UUID
}

// IsZero reports whether h was never issued
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// String returns the handle id
func (h Handle) String() string {
	return h.id.String()
}

// LoadState is the lifecycle of a single asset
type LoadState int

const (
	// StateQueued waits for the next UpdateLoaders call
	StateQueued LoadState = iota
	// StateStaged holds bytes that become visible on the next Update
	StateStaged
	// StateReady is visible through Get
	StateReady
	// StateFailed records the load error
	StateFailed
)

// String returns the state name
func (s LoadState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateStaged:
		return "staged"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metrics are counters reported on demand
type Metrics struct {
	Requested int
	Ready     int
	Failed    int
	Pending   int
	Reloads   int
	Bytes     int64
}

// ModTimer is implemented by file systems that can report change times
type ModTimer interface {
	ModTime(name string) (time.Time, bool)
}

type entry struct {
	path    string
	state   LoadState
	data    []byte
	staged  []byte
	err     error
	modTime time.Time
}

// Service loads assets from a file system in two phases: UpdateLoaders reads
// queued requests, Update publishes what was read.
type Service struct {
	mu      sync.Mutex
	fsys    fs.FS
	closer  io.Closer
	log     *zap.Logger
	entries map[uuid.UUID]*entry
	byPath  map[string]Handle
	reloads int
}

// NewService creates a service over fsys. closer may be nil.
func NewService(fsys fs.FS, closer io.Closer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fsys:    fsys,
		closer:  closer,
		log:     log,
		entries: make(map[uuid.UUID]*entry),
		byPath:  make(map[string]Handle),
	}
}

// Open resolves src and creates a service reading from it
func Open(src Source, log *zap.Logger) (*Service, error) {
	fsys, closer, err := src.Open()
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("asset source opened", zap.Stringer("kind", src.Kind))
	}
	return NewService(fsys, closer, log), nil
}

// Load requests path and returns its handle. Repeated requests for the same
// path return the same handle.
func (s *Service) Load(path string) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.byPath[path]; ok {
		return h
	}
	h := Handle{id: uuid.New()}
	s.entries[h.id] = &entry{path: path, state: StateQueued}
	s.byPath[path] = h
	return h
}

// Update publishes staged data and re-queues watched files that changed
func (s *Service) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, watch := s.fsys.(ModTimer)
	for _, e := range s.entries {
		if e.state == StateStaged {
			e.data = e.staged
			e.staged = nil
			e.state = StateReady
			continue
		}
		if !watch || e.state != StateReady || e.modTime.IsZero() {
			continue
		}
		if t, ok := mt.ModTime(e.path); ok && t.After(e.modTime) {
			e.state = StateQueued
			s.reloads++
			s.log.Debug("asset changed", zap.String("path", e.path))
		}
	}
}

// UpdateLoaders reads every queued asset
func (s *Service) UpdateLoaders() {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, watch := s.fsys.(ModTimer)
	for _, e := range s.entries {
		if e.state != StateQueued {
			continue
		}
		data, err := fs.ReadFile(s.fsys, e.path)
		if err != nil {
			e.state = StateFailed
			e.err = fmt.Errorf("load %s: %w", e.path, err)
			s.log.Warn("asset load failed", zap.String("path", e.path), zap.Error(err))
			continue
		}
		e.staged = data
		e.err = nil
		e.state = StateStaged
		if watch {
			if t, ok := mt.ModTime(e.path); ok {
				e.modTime = t
			}
		}
	}
}

// Get returns the bytes of a ready asset
func (s *Service) Get(h Handle) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h.id]
	if !ok || e.data == nil {
		return nil, false
	}
	return e.data, true
}

// State returns the lifecycle state of h
func (s *Service) State(h Handle) (LoadState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h.id]
	if !ok {
		return 0, ErrUnknownHandle
	}
	return e.state, nil
}

// Err returns the load error of a failed asset
func (s *Service) Err(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h.id]
	if !ok {
		return ErrUnknownHandle
	}
	return e.err
}

// Paths returns every requested path, sorted
func (s *Service) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Metrics returns a snapshot of the service counters
func (s *Service) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Metrics{Requested: len(s.entries), Reloads: s.reloads}
	for _, e := range s.entries {
		switch e.state {
		case StateReady:
			m.Ready++
		case StateFailed:
			m.Failed++
		default:
			m.Pending++
		}
		m.Bytes += int64(len(e.data))
	}
	return m
}

// LogMetrics writes the counters to the log
func (s *Service) LogMetrics() {
	m := s.Metrics()
	s.log.Info("asset metrics",
		zap.Int("requested", m.Requested),
		zap.Int("ready", m.Ready),
		zap.Int("failed", m.Failed),
		zap.Int("pending", m.Pending),
		zap.Int("reloads", m.Reloads),
		zap.Int64("bytes", m.Bytes),
	)
}

// Close releases the underlying source
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
