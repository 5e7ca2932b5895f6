package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/overlay"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

// Update runs one frame. Any failure aborts the frame and is returned; the
// host is expected to stop.
func (a *App) Update() (state.ControlFlow, error) {
	now := a.clock.Now()
	elapsed := now.Sub(a.lastTick)
	a.lastTick = now

	var ts clock.TimeState
	resource.Write(a.res, func(t *clock.TimeState) {
		t.Update(elapsed)
		ts = *t
	})

	if a.fps.TryTakeEvent(now, fpsLogInterval) {
		a.log.Info("frame rate",
			zap.Float64("fps", ts.UpdatesPerSecondSmoothed()),
			zap.Uint64("frame", ts.UpdateCount()),
		)
	}

	w, h := a.window.Size()
	resource.Write(a.res, func(v *render.Viewports) {
		v.MainWindowSize = render.Extents2D{Width: uint32(w), Height: uint32(h)}
	})

	if a.scenes.HasNextScene() {
		a.world = a.scenes.TryCleanupCurrentScene(a.world, a.res)
		a.renderer.ClearTemporaryWork()
		if err := a.scenes.ActivateNext(a.world, a.res); err != nil {
			return state.ControlExit, err
		}
		a.log.Debug("scene changed", zap.String("state", a.scenes.State().String()))
	}

	resource.Write(a.res, func(s *asset.Service) {
		s.Update()
		s.UpdateLoaders()
	})

	if a.overlay != nil {
		if err := a.overlay.BeginFrame(); err != nil {
			return state.ControlExit, fmt.Errorf("overlay: %w", err)
		}
	}

	resource.Write(a.res, func(tb *render.TextBatch) {
		tb.Add(HintText, geom.V3(10, 20, 0), 14, geom.White)
	})

	if err := a.scenes.UpdateScene(a.world, a.res); err != nil {
		if a.overlay != nil {
			a.overlay.EndFrame()
		}
		return state.ControlExit, err
	}

	a.editOptions(&ts)
	a.drawAssetList()
	a.syncOptions()

	if a.overlay != nil {
		a.overlay.EndFrame()
	}

	snap, err := a.extract.Build(a.res, a.world)
	if err != nil {
		return state.ControlExit, err
	}
	err = a.renderer.StartFrame(snap, ts.PreviousUpdateTime())
	snap.Release()
	if err != nil {
		return state.ControlExit, fmt.Errorf("start frame: %w", err)
	}

	if a.recorder != nil {
		a.recorder.RecordFrame(elapsed)
	}
	resource.Write(a.res, func(s *input.State) {
		s.EndFrame()
	})
	a.window.RequestRedraw()

	return state.ControlPoll, nil
}

// editOptions lets an editing overlay change render options
func (a *App) editOptions(ts *clock.TimeState) {
	ed, ok := a.overlay.(overlay.Editor)
	if !ok {
		return
	}

	opts := resource.MustGetMut[render.RenderOptions](a.res)
	defer opts.Release()
	ui := resource.MustGetMut[render.DebugUIState](a.res)
	defer ui.Release()
	text := resource.MustGetMut[render.TextBatch](a.res)
	defer text.Release()

	ed.Edit(overlay.Panel{
		Options: opts.Get(),
		UI:      ui.Get(),
		Text:    text.Get(),
		Time:    ts,
	})
}

func (a *App) drawAssetList() {
	var show bool
	resource.Read(a.res, func(ui *render.DebugUIState) { show = ui.ShowAssetList })
	if !show {
		return
	}

	svc := resource.MustGet[asset.Service](a.res)
	defer svc.Release()
	text := resource.MustGetMut[render.TextBatch](a.res)
	defer text.Release()

	y := 120.0
	for _, p := range svc.Get().Paths() {
		text.Get().Add(p, geom.V3(8, y, 0), 12, geom.RGB(0.7, 0.9, 0.7))
		y += 14
	}
}

// syncOptions copies the UI-edited options into the per-feature options
func (a *App) syncOptions() {
	opts := resource.MustGet[render.RenderOptions](a.res)
	defer opts.Release()

	resource.Write(a.res, func(p *render.PipelineOptions) {
		resource.Write(a.res, func(m *render.MeshOptions) {
			opts.Get().SyncTo(p, m)
		})
	})
	resource.Write(a.res, func(rc *render.RendererConfig) {
		rc.VisibilityUpdate = opts.Get().EnableVisibilityUpdate
	})
}
