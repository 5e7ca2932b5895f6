// Package overlay defines the optional GUI layer that brackets each frame
// and gets first look at input events.
package overlay

import (
	"errors"
	"fmt"

	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/domain/geom"
	"github.com/younwookim/framehost/internal/domain/render"
)

// Overlay is the capability the frame loop brackets and filters input through
type Overlay interface {
	BeginFrame() error
	EndFrame()
	HandleEvent(ev input.Event)
	IgnoreEvent(ev input.Event) bool
}

// Panel is what an Editor may read and change while the frame is open
type Panel struct {
	Options *render.RenderOptions
	UI      *render.DebugUIState
	Text    *render.TextBatch
	Time    *clock.TimeState
}

// Editor is implemented by overlays that edit render options between the
// scene update and the option sync.
type Editor interface {
	Edit(p Panel)
}

// ErrFrameOpen is returned by BeginFrame when EndFrame was not called
var ErrFrameOpen = errors.New("overlay frame already open")

type toggle int

const (
	toggleMSAA toggle = iota
	toggleHDR
	toggleBloom
	toggleTextures
	toggleLighting
	toggleWireframes
	toggleDebug3D
	toggleText
	toggleSkybox
	toggleVisibility
	toggleAssetList
	toggleRenderOptions
	toggleTonemapDebug
)

// digit keys 0-9 map onto these toggles
var digitToggles = [10]toggle{
	0: toggleVisibility,
	1: toggleMSAA,
	2: toggleHDR,
	3: toggleBloom,
	4: toggleTextures,
	5: toggleLighting,
	6: toggleWireframes,
	7: toggleDebug3D,
	8: toggleText,
	9: toggleSkybox,
}

// Debug is a keyboard-driven debug panel. Backquote opens and closes it;
// while open it captures all key events and turns them into option toggles.
type Debug struct {
	open    bool
	inFrame bool
	frames  uint64
	pending []toggle
}

// NewDebug creates a closed debug overlay
func NewDebug() *Debug {
	return &Debug{}
}

// IsOpen reports whether the panel is open
func (d *Debug) IsOpen() bool {
	return d.open
}

// Frames returns the number of completed overlay frames
func (d *Debug) Frames() uint64 {
	return d.frames
}

// BeginFrame opens the overlay frame
func (d *Debug) BeginFrame() error {
	if d.inFrame {
		return fmt.Errorf("begin frame %d: %w", d.frames, ErrFrameOpen)
	}
	d.inFrame = true
	return nil
}

// EndFrame closes the overlay frame
func (d *Debug) EndFrame() {
	if d.inFrame {
		d.inFrame = false
		d.frames++
	}
}

// HandleEvent updates panel state from ev
func (d *Debug) HandleEvent(ev input.Event) {
	if ev.IsKeyPress(input.KeyBackquote) {
		d.open = !d.open
		return
	}
	if !d.open || ev.Kind != input.KindKey || ev.State != input.Pressed {
		return
	}

	if n, ok := ev.Key.Digit(); ok {
		d.pending = append(d.pending, digitToggles[n])
		return
	}
	switch ev.Key {
	case input.KeyA:
		d.pending = append(d.pending, toggleAssetList)
	case input.KeyR:
		d.pending = append(d.pending, toggleRenderOptions)
	case input.KeyT:
		d.pending = append(d.pending, toggleTonemapDebug)
	}
}

// IgnoreEvent reports whether the overlay captured ev. Window close and
// escape always pass through.
func (d *Debug) IgnoreEvent(ev input.Event) bool {
	if ev.Kind != input.KindKey || ev.Key == input.KeyEscape {
		return false
	}
	if ev.Key == input.KeyBackquote {
		return true
	}
	return d.open
}

// Edit applies queued toggles and draws the status line
func (d *Debug) Edit(p Panel) {
	for _, t := range d.pending {
		apply(t, p.Options, p.UI)
	}
	d.pending = d.pending[:0]

	if !d.open || p.Text == nil {
		return
	}

	y := 16.0
	if p.Time != nil {
		p.Text.Add(fmt.Sprintf("Frame: %d | FPS: %.1f", p.Time.UpdateCount(), p.Time.UpdatesPerSecondSmoothed()),
			geom.V3(8, y, 0), 14, geom.White)
		y += 16
	}
	if p.UI != nil && p.UI.ShowRenderOptions && p.Options != nil {
		for _, line := range optionLines(p.Options) {
			p.Text.Add(line, geom.V3(8, y, 0), 14, geom.RGB(0.8, 0.8, 0.8))
			y += 16
		}
	}
}

func apply(t toggle, o *render.RenderOptions, ui *render.DebugUIState) {
	if o != nil {
		switch t {
		case toggleMSAA:
			o.EnableMSAA = !o.EnableMSAA
		case toggleHDR:
			o.EnableHDR = !o.EnableHDR
		case toggleBloom:
			o.EnableBloom = !o.EnableBloom
		case toggleTextures:
			o.EnableTextures = !o.EnableTextures
		case toggleLighting:
			o.EnableLighting = !o.EnableLighting
		case toggleWireframes:
			o.ShowWireframes = !o.ShowWireframes
		case toggleDebug3D:
			o.ShowDebug3D = !o.ShowDebug3D
		case toggleText:
			o.ShowText = !o.ShowText
		case toggleSkybox:
			o.ShowSkybox = !o.ShowSkybox
		case toggleVisibility:
			o.EnableVisibilityUpdate = !o.EnableVisibilityUpdate
		}
	}
	if ui != nil {
		switch t {
		case toggleAssetList:
			ui.ShowAssetList = !ui.ShowAssetList
		case toggleRenderOptions:
			ui.ShowRenderOptions = !ui.ShowRenderOptions
		case toggleTonemapDebug:
			ui.ShowTonemapDebug = !ui.ShowTonemapDebug
		}
	}
}

func optionLines(o *render.RenderOptions) []string {
	return []string{
		fmt.Sprintf("[1] msaa %v  [2] hdr %v  [3] bloom %v", o.EnableMSAA, o.EnableHDR, o.EnableBloom),
		fmt.Sprintf("[4] textures %v  [5] lighting %v  [6] wireframes %v", o.EnableTextures, o.EnableLighting, o.ShowWireframes),
		fmt.Sprintf("[7] debug3d %v  [8] text %v  [9] skybox %v", o.ShowDebug3D, o.ShowText, o.ShowSkybox),
		fmt.Sprintf("[0] visibility %v  tonemapper %s", o.EnableVisibilityUpdate, o.TonemapperType),
	}
}
