package app

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/extract"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/overlay"
	"github.com/younwookim/framehost/internal/application/replay"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/ecs"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

type fakeWindow struct {
	w, h    int
	redraws int
}

func (f *fakeWindow) Size() (int, int) { return f.w, f.h }
func (f *fakeWindow) RequestRedraw()   { f.redraws++ }

type fakeRenderer struct {
	frames   int
	cleared  int
	closed   int
	dts      []time.Duration
	texts    []render.Text
	pipeline render.PipelineOptions
	viewport render.Extents2D
	entities int
	err      error
}

func (f *fakeRenderer) StartFrame(snap *extract.Snapshot, dt time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.frames++
	f.dts = append(f.dts, dt)
	if tb, ok := extract.Get[render.TextBatch](snap); ok {
		f.texts = tb.Take()
	}
	if p, ok := extract.Get[render.PipelineOptions](snap); ok {
		f.pipeline = *p
	}
	if v, ok := extract.Get[render.Viewports](snap); ok {
		f.viewport = v.MainWindowSize
	}
	f.entities = snap.World().Len()
	return nil
}

func (f *fakeRenderer) ClearTemporaryWork() { f.cleared++ }

func (f *fakeRenderer) Close() error {
	f.closed++
	return nil
}

// mockScene counts hook calls and can request a transition once
type mockScene struct {
	updateCalled  int
	enterCalled   int
	cleanupCalled int
	inputEvents   []input.Event
	nextScene     scene.Scene
	updateErr     error
	enterWorld    *ecs.World
	cleanupWorld  *ecs.World
}

func (m *mockScene) Update(world *ecs.World, res *resource.Registry) (scene.Scene, error) {
	m.updateCalled++
	next := m.nextScene
	m.nextScene = nil
	return next, m.updateErr
}

func (m *mockScene) Enter(world *ecs.World, res *resource.Registry) error {
	m.enterCalled++
	m.enterWorld = world
	world.CreateSprite(geom.V3(1, 1, 0), ecs.Sprite{Width: 1, Height: 1}, ecs.Velocity{})
	return nil
}

func (m *mockScene) Cleanup(world *ecs.World, res *resource.Registry) {
	m.cleanupCalled++
	m.cleanupWorld = world
}

func (m *mockScene) ProcessInput(world *ecs.World, res *resource.Registry, ev input.Event) {
	m.inputEvents = append(m.inputEvents, ev)
}

type harness struct {
	app      *App
	clock    *clock.Manual
	window   *fakeWindow
	renderer *fakeRenderer
}

func newHarness(t *testing.T, initial scene.Scene, ov overlay.Overlay) *harness {
	t.Helper()
	h := &harness{
		clock:    clock.NewManual(time.Unix(1000, 0)),
		window:   &fakeWindow{w: 640, h: 480},
		renderer: &fakeRenderer{},
	}
	a, err := New(Deps{
		Window:   h.window,
		Renderer: h.renderer,
		Assets:   asset.NewService(fstest.MapFS{}, nil, nil),
		Overlay:  ov,
		Clock:    h.clock,
		Options:  render.Default3D(),
		Initial:  initial,
	})
	require.NoError(t, err)
	h.app = a
	return h
}

func (h *harness) step(t *testing.T, dt time.Duration) {
	t.Helper()
	h.clock.Advance(dt)
	flow, err := h.app.Update()
	require.NoError(t, err)
	require.Equal(t, state.ControlPoll, flow)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
	_, err = New(Deps{Window: &fakeWindow{}})
	assert.Error(t, err)
	_, err = New(Deps{Window: &fakeWindow{}, Renderer: &fakeRenderer{}})
	assert.Error(t, err)
}

func TestNew_EntersInitialScene(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	assert.Equal(t, 1, s.enterCalled)
	assert.Same(t, h.app.World(), s.enterWorld)
	assert.Equal(t, state.SceneActive, h.app.Scenes().State())
}

func TestUpdate_AdvancesTime(t *testing.T) {
	h := newHarness(t, nil, nil)

	for i := 0; i < 5; i++ {
		h.step(t, 100*time.Millisecond)
		resource.Read(h.app.Resources(), func(ts *clock.TimeState) {
			assert.InDelta(t, 10.0, ts.UpdatesPerSecond(), 1e-9)
		})
	}
	resource.Read(h.app.Resources(), func(ts *clock.TimeState) {
		assert.Equal(t, uint64(5), ts.UpdateCount())
		assert.Equal(t, 500*time.Millisecond, ts.TotalTime())
		assert.Greater(t, ts.UpdatesPerSecondSmoothed(), 0.0)
		assert.Less(t, ts.UpdatesPerSecondSmoothed(), 10.0)
	})
	assert.Equal(t, 5, h.renderer.frames)
	assert.Equal(t, 100*time.Millisecond, h.renderer.dts[4])
	assert.Equal(t, 5, h.window.redraws)
}

func TestUpdate_SceneUpdatedOncePerFrame(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	h.step(t, 16*time.Millisecond)
	assert.Equal(t, 1, s.updateCalled)
	assert.False(t, h.app.Scenes().HasNextScene())
	assert.Equal(t, 1, h.renderer.entities)
	assert.Equal(t, render.Extents2D{Width: 640, Height: 480}, h.renderer.viewport)
}

func TestUpdate_DrawsHintText(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.step(t, 16*time.Millisecond)

	require.NotEmpty(t, h.renderer.texts)
	assert.Equal(t, HintText, h.renderer.texts[0].Text)
}

func TestUpdate_SceneTransitionAtFrameBoundary(t *testing.T) {
	b := &mockScene{}
	a := &mockScene{nextScene: b}
	h := newHarness(t, a, nil)
	oldWorld := h.app.World()

	h.step(t, 16*time.Millisecond)
	assert.Equal(t, 1, a.updateCalled)
	assert.True(t, h.app.Scenes().HasNextScene(), "swap waits for the next frame")
	assert.Equal(t, 0, a.cleanupCalled)
	assert.Equal(t, 0, b.enterCalled)

	h.step(t, 16*time.Millisecond)
	assert.Equal(t, 1, a.cleanupCalled)
	assert.Same(t, oldWorld, a.cleanupWorld)
	assert.Equal(t, 1, h.renderer.cleared)
	assert.Equal(t, 1, b.enterCalled)
	assert.Equal(t, 1, b.updateCalled)
	assert.NotSame(t, oldWorld, h.app.World())
	assert.Same(t, h.app.World(), b.enterWorld)
	assert.Equal(t, 1, h.app.World().Len(), "only entities created by the new scene")
	assert.Same(t, b, h.app.Scenes().Current())
}

func TestUpdate_RequestChange(t *testing.T) {
	a := &mockScene{}
	b := &mockScene{}
	h := newHarness(t, a, nil)

	h.app.Scenes().RequestChange(b)
	assert.Equal(t, state.ScenePendingTransition, h.app.Scenes().State())
	h.step(t, 16*time.Millisecond)

	assert.Equal(t, 0, a.updateCalled)
	assert.Equal(t, 1, b.updateCalled)
}

func TestUpdate_SceneErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	h := newHarness(t, &mockScene{updateErr: boom}, nil)

	h.clock.Advance(time.Millisecond)
	flow, err := h.app.Update()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, state.ControlExit, flow)
	assert.Equal(t, 0, h.renderer.frames)
}

func TestUpdate_RendererErrorAborts(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.renderer.err = errors.New("device lost")

	_, err := h.app.Update()
	assert.ErrorIs(t, err, h.renderer.err)

	// every borrow was released on the error path
	assert.NotPanics(t, func() {
		resource.Write(h.app.Resources(), func(*render.TextBatch) {})
		resource.Write(h.app.Resources(), func(*asset.Service) {})
	})
}

func TestUpdate_OverlayTogglesReachPipelineOptions(t *testing.T) {
	ov := overlay.NewDebug()
	h := newHarness(t, nil, ov)
	h.step(t, 16*time.Millisecond)
	require.True(t, h.renderer.pipeline.EnableMSAA)

	assert.True(t, h.app.ProcessInput(input.KeyPressed(input.KeyBackquote)))
	assert.True(t, h.app.ProcessInput(input.KeyPressed(input.Key1)))
	h.step(t, 16*time.Millisecond)

	assert.False(t, h.renderer.pipeline.EnableMSAA)
	resource.Read(h.app.Resources(), func(o *render.RenderOptions) {
		assert.False(t, o.EnableMSAA)
	})
	assert.Equal(t, uint64(2), ov.Frames())
}

func TestUpdate_ResizeUpdatesViewport(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.window.w, h.window.h = 800, 600
	h.step(t, 16*time.Millisecond)
	assert.Equal(t, render.Extents2D{Width: 800, Height: 600}, h.renderer.viewport)
}

func TestUpdate_LogsFrameRate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a, err := New(Deps{
		Window:   &fakeWindow{w: 1, h: 1},
		Renderer: &fakeRenderer{},
		Assets:   asset.NewService(fstest.MapFS{}, nil, nil),
		Clock:    clock.NewManual(time.Unix(0, 0)),
		Log:      zap.New(core),
	})
	require.NoError(t, err)

	_, err = a.Update()
	require.NoError(t, err)
	_, err = a.Update()
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("frame rate").Len(), "rate is logged at most once per second")
}

func TestProcessInput_CloseStops(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	assert.False(t, h.app.ProcessInput(input.CloseRequested()))
	assert.False(t, h.app.ProcessInput(input.KeyPressed(input.KeyEscape)))
	assert.Empty(t, s.inputEvents)
}

func TestProcessInput_KeyReachesSceneOnce(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	ev := input.KeyPressed(input.KeyW)
	assert.True(t, h.app.ProcessInput(ev))
	require.Len(t, s.inputEvents, 1)
	assert.Equal(t, ev, s.inputEvents[0])
	resource.Read(h.app.Resources(), func(st *input.State) {
		assert.True(t, st.IsKeyJustPressed(input.KeyW))
	})

	h.step(t, 16*time.Millisecond)
	resource.Read(h.app.Resources(), func(st *input.State) {
		assert.False(t, st.IsKeyJustPressed(input.KeyW))
		assert.True(t, st.IsKeyDown(input.KeyW))
	})
}

func TestProcessInput_MetricsKeyIsHandled(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	assert.True(t, h.app.ProcessInput(input.KeyPressed(input.KeyM)))
	assert.Empty(t, s.inputEvents)
}

func TestProcessInput_OverlayCapture(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, overlay.NewDebug())

	h.app.ProcessInput(input.KeyPressed(input.KeyBackquote))
	h.app.ProcessInput(input.KeyPressed(input.KeyW))
	assert.Empty(t, s.inputEvents, "open overlay captures keys")

	assert.False(t, h.app.ProcessInput(input.CloseRequested()), "close passes through the overlay")
}

func TestProcessInput_Records(t *testing.T) {
	rec := replay.NewRecorder("test", 640, 480)
	a, err := New(Deps{
		Window:   &fakeWindow{w: 640, h: 480},
		Renderer: &fakeRenderer{},
		Assets:   asset.NewService(fstest.MapFS{}, nil, nil),
		Clock:    clock.NewManual(time.Unix(0, 0)),
		Recorder: rec,
	})
	require.NoError(t, err)

	a.ProcessInput(input.KeyPressed(input.KeyRight))
	_, err = a.Update()
	require.NoError(t, err)

	data := rec.Data()
	require.Len(t, data.Frames, 1)
	assert.Len(t, data.Frames[0].Events, 1)
}

func TestShutdown(t *testing.T) {
	s := &mockScene{}
	h := newHarness(t, s, nil)

	require.NoError(t, h.app.Shutdown())
	assert.Equal(t, 1, s.cleanupCalled)
	assert.Equal(t, 1, h.renderer.closed)
	assert.NoError(t, h.app.Shutdown())
	assert.Equal(t, 1, h.renderer.closed)
}
