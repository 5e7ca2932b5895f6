// Package termhost runs the app in a terminal. Frame coordinates are
// pixels; each cell stands for CellWidth x CellHeight of them.
package termhost

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/app"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/application/state"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/infrastructure/pipeline"
)

const (
	CellWidth  = 8
	CellHeight = 16
)

// NewScreen creates and initializes a terminal screen
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return screen, nil
}

// Window reports the terminal size in pixels
type Window struct {
	screen tcell.Screen
}

// NewWindow wraps screen
func NewWindow(screen tcell.Screen) *Window {
	return &Window{screen: screen}
}

// Size returns the terminal size in pixels
func (w *Window) Size() (int, int) {
	cols, rows := w.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

// RequestRedraw is a no-op; the host draws on every tick
func (w *Window) RequestRedraw() {}

// Frames is the source of prepared frames to present
type Frames interface {
	Latest() *pipeline.Frame
}

// Host drives an App from tcell events and a ticker
type Host struct {
	screen tcell.Screen
	app    *app.App
	frames Frames
	log    *zap.Logger
}

// New creates a terminal host
func New(screen tcell.Screen, a *app.App, frames Frames, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{screen: screen, app: a, frames: frames, log: log}
}

// Run blocks until the app stops. The screen is finalized and the app
// shut down before returning.
func (h *Host) Run(tps int) error {
	if tps <= 0 {
		tps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	err := h.loop(eventChan, ticker.C)
	err = multierr.Append(err, h.app.Shutdown())
	h.screen.Fini()
	return err
}

func (h *Host) loop(events <-chan tcell.Event, tick <-chan time.Time) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			for _, e := range translate(ev) {
				if !h.app.ProcessInput(e) {
					return nil
				}
			}

		case <-tick:
			flow, err := h.app.Update()
			if err != nil {
				h.log.Error("frame failed", zap.Error(err))
				return err
			}
			if flow == state.ControlExit {
				return nil
			}
			h.draw()
		}
	}
}

// translate maps a tcell event to input events. Terminals report no key
// releases, so every key becomes a press followed by a release.
func translate(ev tcell.Event) []input.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return []input.Event{input.CloseRequested()}
		}
		k := translateKey(ev)
		if k == input.KeyUnknown {
			return nil
		}
		return []input.Event{input.KeyPressed(k), input.KeyReleased(k)}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		return []input.Event{input.Resized(cols*CellWidth, rows*CellHeight)}

	case *tcell.EventMouse:
		x, y := ev.Position()
		out := []input.Event{input.CursorMoved(float64(x*CellWidth), float64(y*CellHeight))}
		if ev.Buttons()&tcell.Button1 != 0 {
			out = append(out, input.MouseButtonEvent(input.MouseLeft, input.Pressed))
		}
		return out
	}
	return nil
}

func translateKey(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return input.KeyFromRune(ev.Rune())
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyEnter:
		return input.KeyEnter
	case tcell.KeyTab:
		return input.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	default:
		return input.KeyUnknown
	}
}

func (h *Host) draw() {
	h.screen.Clear()

	if f := h.frames.Latest(); f != nil {
		for _, l := range f.Lines {
			h.drawLine(l.From, l.To, styleOf(l.Color))
		}
		for _, s := range f.Sprites {
			x, y := toCell(s.Position)
			h.screen.SetContent(x, y, '█', nil, styleOf(s.Color))
		}
		for _, l := range f.Lights {
			if l.Kind == pipeline.LightDirectional {
				continue
			}
			x, y := toCell(l.Position)
			h.screen.SetContent(x, y, '*', nil, styleOf(l.Color))
		}
		for _, t := range f.Texts {
			x, y := toCell(t.Position)
			for i, r := range []rune(t.Text) {
				h.screen.SetContent(x+i, y, r, nil, styleOf(t.Color))
			}
		}
	}

	h.screen.Show()
}

// drawLine steps the line in cell space
func (h *Host) drawLine(from, to geom.Vec3, style tcell.Style) {
	x0, y0 := toCell(from)
	x1, y1 := toCell(to)
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		h.screen.SetContent(x0, y0, '·', nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		h.screen.SetContent(x, y, '·', nil, style)
	}
}

func toCell(p geom.Vec3) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

func styleOf(c geom.Color) tcell.Style {
	r, g, b, _ := c.RGBA8()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
