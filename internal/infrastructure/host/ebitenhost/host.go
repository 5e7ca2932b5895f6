// Package ebitenhost runs the app inside an ebiten window.
package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/app"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/infrastructure/config"
	"github.com/younwookim/framehost/internal/infrastructure/pipeline"
)

var colorBackground = color.RGBA{20, 20, 28, 255}

// Window tracks the logical screen size ebiten reports through Layout
type Window struct {
	width, height int
}

// NewWindow creates a window with an initial size
func NewWindow(width, height int) *Window {
	return &Window{width: width, height: height}
}

// Size returns the current logical size
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// RequestRedraw is a no-op; ebiten draws every tick
func (w *Window) RequestRedraw() {}

// Frames is the source of prepared frames to present
type Frames interface {
	Latest() *pipeline.Frame
}

// Host implements ebiten.Game around an App
type Host struct {
	app    *app.App
	window *Window
	frames Frames
	log    *zap.Logger

	keys       []ebiten.Key
	lastW      int
	lastH      int
	cursorX    int
	cursorY    int
	finished   bool
	shutdownErr error
}

// New creates a host for a
func New(a *app.App, w *Window, frames Frames, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{
		app:    a,
		window: w,
		frames: frames,
		log:    log,
		lastW:  w.width,
		lastH:  w.height,
	}
}

// Run opens the window and blocks until the app stops
func (h *Host) Run(cfg config.Window) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(h)
	return multierr.Append(err, h.finish())
}

// Update polls input, dispatches it and runs one app frame.
// Implements ebiten.Game interface.
func (h *Host) Update() error {
	if !h.dispatch(h.poll()) {
		return h.stop(nil)
	}

	flow, err := h.app.Update()
	if err != nil {
		h.log.Error("frame failed", zap.Error(err))
		return h.stop(err)
	}
	if flow == state.ControlExit {
		return h.stop(nil)
	}
	return nil
}

// dispatch hands events to the app in order. Returns false as soon as one
// asks to stop.
func (h *Host) dispatch(events []input.Event) bool {
	for _, ev := range events {
		if !h.app.ProcessInput(ev) {
			return false
		}
	}
	return true
}

func (h *Host) poll() []input.Event {
	var events []input.Event

	if ebiten.IsWindowBeingClosed() {
		events = append(events, input.CloseRequested())
	}
	if w, hgt := h.window.Size(); w != h.lastW || hgt != h.lastH {
		h.lastW, h.lastH = w, hgt
		events = append(events, input.Resized(w, hgt))
	}

	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		if ik := translateKey(k); ik != input.KeyUnknown {
			events = append(events, input.KeyPressed(ik))
		}
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		if ik := translateKey(k); ik != input.KeyUnknown {
			events = append(events, input.KeyReleased(ik))
		}
	}

	x, y := ebiten.CursorPosition()
	if x != h.cursorX || y != h.cursorY {
		h.cursorX, h.cursorY = x, y
		events = append(events, input.CursorMoved(float64(x), float64(y)))
	}
	for eb, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(eb) {
			events = append(events, input.MouseButtonEvent(b, input.Pressed))
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			events = append(events, input.MouseButtonEvent(b, input.Released))
		}
	}
	return events
}

// stop ends the game loop; the app is shut down once RunGame returns
func (h *Host) stop(err error) error {
	if err != nil {
		return err
	}
	return ebiten.Termination
}

func (h *Host) finish() error {
	if h.finished {
		return h.shutdownErr
	}
	h.finished = true
	h.shutdownErr = h.app.Shutdown()
	return h.shutdownErr
}

// Draw presents the latest prepared frame.
// Implements ebiten.Game interface.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	f := h.frames.Latest()
	if f == nil {
		return
	}

	for _, s := range f.Sprites {
		ebitenutil.DrawRect(screen, s.Position.X-s.Width/2, s.Position.Y-s.Height/2, s.Width, s.Height, toRGBA(s.Color))
	}
	for _, l := range f.Lights {
		if l.Kind == pipeline.LightDirectional {
			continue
		}
		ebitenutil.DrawRect(screen, l.Position.X-2, l.Position.Y-2, 4, 4, toRGBA(l.Color))
	}
	for _, l := range f.Lines {
		ebitenutil.DrawLine(screen, l.From.X, l.From.Y, l.To.X, l.To.Y, toRGBA(l.Color))
	}
	for _, t := range f.Texts {
		ebitenutil.DebugPrintAt(screen, t.Text, int(t.Position.X), int(t.Position.Y))
	}
}

// Layout tracks the outside size so the window is freely resizable.
// Implements ebiten.Game interface.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		h.window.width, h.window.height = outsideWidth, outsideHeight
	}
	return h.window.width, h.window.height
}

func toRGBA(c geom.Color) color.RGBA {
	r, g, b, a := c.RGBA8()
	return color.RGBA{R: r, G: g, B: b, A: a}
}
