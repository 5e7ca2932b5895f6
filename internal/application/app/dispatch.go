package app

import (
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/resource"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

// ProcessInput routes ev through the overlay, then the scene, then the
// input tracker. Returns false when the app should stop.
func (a *App) ProcessInput(ev input.Event) bool {
	if a.recorder != nil {
		a.recorder.RecordEvent(ev)
	}

	ignore := false
	if a.overlay != nil {
		a.overlay.HandleEvent(ev)
		ignore = a.overlay.IgnoreEvent(ev)
	}
	if ignore {
		return true
	}

	handled := false
	switch {
	case ev.Kind == input.KindWindowClose:
		return false
	case ev.IsKeyPress(input.KeyEscape):
		return false
	case ev.IsKeyPress(input.KeyM):
		resource.Read(a.res, func(s *asset.Service) { s.LogMetrics() })
		handled = true
	}

	if !handled {
		a.scenes.ProcessInput(a.world, a.res, ev)
		resource.Write(a.res, func(s *input.State) { s.Handle(ev) })
	}
	return true
}
