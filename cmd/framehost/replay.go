package main

import (
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/app"
	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/overlay"
	"github.com/younwookim/framehost/internal/application/replay"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
	"github.com/younwookim/framehost/internal/infrastructure/config"
	"github.com/younwookim/framehost/internal/infrastructure/pipeline"
)

// fixedWindow is the window of a headless replay
type fixedWindow struct {
	width, height int
}

func (w fixedWindow) Size() (int, int) { return w.width, w.height }
func (w fixedWindow) RequestRedraw()   {}

// runReplay feeds a recording through a headless app driven by a manual
// clock. Returns the number of frames run.
func runReplay(data *replay.ReplayData, cfg *config.AppConfig, catalog *scene.Catalog, assets *asset.Service, log *zap.Logger) (int, error) {
	initial, err := catalog.Create(data.Scene)
	if err != nil {
		return 0, multierr.Append(err, assets.Close())
	}

	width, height := data.Width, data.Height
	if width == 0 || height == 0 {
		width, height = cfg.Window.Width, cfg.Window.Height
	}

	clk := clock.NewManual(time.Unix(0, 0))
	a, err := app.New(app.Deps{
		Window:   fixedWindow{width: width, height: height},
		Renderer: pipeline.New(pipeline.Options{MaxFramesInFlight: cfg.Render.MaxFramesInFlight, Log: log.Named("pipeline")}),
		Assets:   assets,
		Overlay:  overlay.NewDebug(),
		Clock:    clk,
		Log:      log,
		Options:  render.Preset(cfg.Render.Preset),
		Initial:  initial,
	})
	if err != nil {
		return 0, err
	}

	r := replay.NewReplayer(*data)
	frames, err := playback(a, r, clk)
	return frames, multierr.Append(err, a.Shutdown())
}

func playback(a *app.App, r *replay.Replayer, clk *clock.Manual) (int, error) {
	for {
		events, dt, ok := r.Next()
		if !ok {
			return r.CurrentFrame(), nil
		}
		for _, ev := range events {
			if !a.ProcessInput(ev) {
				return r.CurrentFrame() - 1, nil
			}
		}

		clk.Advance(dt)
		flow, err := a.Update()
		if err != nil {
			return r.CurrentFrame(), err
		}
		if flow == state.ControlExit {
			return r.CurrentFrame(), nil
		}
	}
}
