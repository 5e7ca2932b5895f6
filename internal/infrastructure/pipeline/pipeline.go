// Package pipeline is the renderer side of the frame handoff. StartFrame
// copies what it needs out of an extracted snapshot and queues the copy for
// a worker goroutine. At most MaxFramesInFlight frames are queued or being
// prepared at any time; StartFrame blocks when that limit is reached.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/younwookim/framehost/internal/application/extract"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/ecs"
)

var (
	// ErrClosed is returned by StartFrame after Close
	ErrClosed = errors.New("pipeline closed")
	// ErrMissingResource is returned when the snapshot lacks a resource
	// the pipeline reads
	ErrMissingResource = errors.New("resource not extracted")
)

// DefaultMaxFramesInFlight is used when Options leaves it zero
const DefaultMaxFramesInFlight = 2

// Options configure a Pipeline
type Options struct {
	MaxFramesInFlight int
	Log               *zap.Logger
	// Prepare runs on the worker after the built-in passes. An error stops
	// the worker and is returned by the next StartFrame.
	Prepare func(*Frame) error
}

// Pipeline prepares frames on a worker goroutine
type Pipeline struct {
	log     *zap.Logger
	prepare func(*Frame) error
	max     int64
	sem     *semaphore.Weighted
	queue   chan *Frame
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	latest  *Frame
	next    uint64
	closed  bool
	stats   Stats
	scratch []SpriteInstance
	clear   bool
}

// New starts a pipeline worker
func New(opts Options) *Pipeline {
	n := opts.MaxFramesInFlight
	if n <= 0 {
		n = DefaultMaxFramesInFlight
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	p := &Pipeline{
		log:     log,
		prepare: opts.Prepare,
		max:     int64(n),
		sem:     semaphore.NewWeighted(int64(n)),
		queue:   make(chan *Frame, n),
		group:   g,
		ctx:     gctx,
		cancel:  cancel,
	}
	g.Go(p.run)
	return p
}

// StartFrame copies the frame data out of snap and queues it. It blocks
// only while MaxFramesInFlight frames are pending. A worker failure from an
// earlier frame is returned here.
func (p *Pipeline) StartFrame(snap *extract.Snapshot, dt time.Duration) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := p.ctx.Err(); err != nil {
		return p.workerErr(err)
	}

	f, err := p.collect(snap, dt)
	if err != nil {
		return err
	}

	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		return p.workerErr(err)
	}

	// holding a slot guarantees room in the queue, so the send never blocks
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.sem.Release(1)
		return ErrClosed
	}
	p.next++
	f.Number = p.next
	p.stats.Started++
	p.queue <- f
	return nil
}

// workerErr reports the worker failure if there was one, otherwise err
func (p *Pipeline) workerErr(err error) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if werr := p.group.Wait(); werr != nil {
		return fmt.Errorf("render worker: %w", werr)
	}
	return err
}

func (p *Pipeline) collect(snap *extract.Snapshot, dt time.Duration) (*Frame, error) {
	vp, ok := extract.Get[render.Viewports](snap)
	if !ok {
		return nil, fmt.Errorf("viewports: %w", ErrMissingResource)
	}
	opts, ok := extract.Get[render.PipelineOptions](snap)
	if !ok {
		return nil, fmt.Errorf("pipeline options: %w", ErrMissingResource)
	}
	mesh, ok := extract.Get[render.MeshOptions](snap)
	if !ok {
		return nil, fmt.Errorf("mesh options: %w", ErrMissingResource)
	}
	rc, ok := extract.Get[render.RendererConfig](snap)
	if !ok {
		return nil, fmt.Errorf("renderer config: %w", ErrMissingResource)
	}
	world := snap.World()
	if world == nil {
		return nil, fmt.Errorf("world: %w", ErrMissingResource)
	}

	f := &Frame{
		DT:               dt,
		Viewport:         vp.MainWindowSize,
		Options:          *opts,
		Mesh:             *mesh,
		VisibilityUpdate: rc.VisibilityUpdate,
	}

	// debug lines and text are consumed per frame
	if dd, ok := extract.Get[render.DebugDraw](snap); ok {
		f.Lines = dd.Take()
	}
	if tb, ok := extract.Get[render.TextBatch](snap); ok {
		f.Texts = tb.Take()
	}

	copyWorld(f, world)
	return f, nil
}

func copyWorld(f *Frame, w *ecs.World) {
	for _, id := range w.Entities(nil) {
		tr := w.Transform[id]
		if s, ok := w.Sprite[id]; ok {
			f.Sprites = append(f.Sprites, SpriteInstance{
				Position: tr.Translation,
				Width:    s.Width,
				Height:   s.Height,
				Color:    s.Color,
			})
		}
		if l, ok := w.DirectionalLight[id]; ok {
			f.Lights = append(f.Lights, LightInstance{
				Kind:      LightDirectional,
				Direction: l.Direction,
				Color:     l.Color,
				Intensity: l.Intensity,
			})
		}
		if l, ok := w.PointLight[id]; ok {
			f.Lights = append(f.Lights, LightInstance{
				Kind:      LightPoint,
				Position:  tr.Translation,
				Color:     l.Color,
				Range:     l.Range,
				Intensity: l.Intensity,
			})
		}
		if l, ok := w.SpotLight[id]; ok {
			f.Lights = append(f.Lights, LightInstance{
				Kind:      LightSpot,
				Position:  tr.Translation,
				Direction: l.Direction,
				Color:     l.Color,
				Range:     l.Range,
				Intensity: l.Intensity,
				HalfAngle: l.SpotlightHalfAngle,
			})
		}
	}
}

func (p *Pipeline) run() error {
	var last uint64
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case f, ok := <-p.queue:
			if !ok {
				return nil
			}
			if f.Number != last+1 {
				p.sem.Release(1)
				return fmt.Errorf("frame %d prepared after frame %d", f.Number, last)
			}
			last = f.Number

			if err := p.prepareFrame(f); err != nil {
				p.sem.Release(1)
				p.log.Error("frame preparation failed", zap.Uint64("frame", f.Number), zap.Error(err))
				return fmt.Errorf("frame %d: %w", f.Number, err)
			}

			p.mu.Lock()
			p.latest = f
			p.stats.Completed++
			p.mu.Unlock()
			p.sem.Release(1)
		}
	}
}

func (p *Pipeline) prepareFrame(f *Frame) error {
	p.mu.Lock()
	if p.clear {
		p.scratch = nil
		p.clear = false
	}
	scratch := p.scratch[:0]
	p.mu.Unlock()

	if f.VisibilityUpdate && f.Viewport.Width > 0 && f.Viewport.Height > 0 {
		w, h := float64(f.Viewport.Width), float64(f.Viewport.Height)
		for _, s := range f.Sprites {
			x, y := s.Position.X, s.Position.Y
			if x+s.Width/2 < 0 || x-s.Width/2 > w || y+s.Height/2 < 0 || y-s.Height/2 > h {
				f.Culled++
				continue
			}
			scratch = append(scratch, s)
		}
		f.Sprites = append(f.Sprites[:0:0], scratch...)
	}
	sort.SliceStable(f.Sprites, func(i, j int) bool {
		return f.Sprites[i].Position.Z < f.Sprites[j].Position.Z
	})

	if !f.Options.ShowDebug3D {
		f.Lines = nil
	}
	if !f.Options.ShowText {
		f.Texts = nil
	}
	if !f.Mesh.EnableLighting {
		f.Lights = nil
	}

	p.mu.Lock()
	p.scratch = scratch
	p.mu.Unlock()

	if p.prepare != nil {
		return p.prepare(f)
	}
	return nil
}

// Latest returns the most recently prepared frame, or nil before the first
// frame completes
func (p *Pipeline) Latest() *Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Flush waits until every queued frame has been prepared
func (p *Pipeline) Flush(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.max); err != nil {
		return err
	}
	p.sem.Release(p.max)
	return nil
}

// ClearTemporaryWork drops the worker's reusable per-frame buffers
func (p *Pipeline) ClearTemporaryWork() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear = true
	p.stats.Cleared++
	p.log.Debug("cleared temporary render work")
}

// Stats returns the pipeline counters
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close stops the worker after draining queued frames and returns its
// error, if any. Safe to call twice.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.queue)
	err := p.group.Wait()
	p.cancel()
	return err
}
