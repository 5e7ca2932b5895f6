package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/framehost/internal/application/clock"
	"github.com/younwookim/framehost/internal/application/input"
	"github.com/younwookim/framehost/internal/domain/render"
)

var _ Overlay = (*Debug)(nil)
var _ Editor = (*Debug)(nil)

func TestDebug_FrameBracket(t *testing.T) {
	d := NewDebug()

	require.NoError(t, d.BeginFrame())
	assert.ErrorIs(t, d.BeginFrame(), ErrFrameOpen)

	d.EndFrame()
	assert.Equal(t, uint64(1), d.Frames())
	require.NoError(t, d.BeginFrame())
}

func TestDebug_ClosedPassesEvents(t *testing.T) {
	d := NewDebug()

	ev := input.KeyPressed(input.KeyA)
	d.HandleEvent(ev)
	assert.False(t, d.IgnoreEvent(ev))
	assert.False(t, d.IgnoreEvent(input.CursorMoved(1, 1)))
}

func TestDebug_BackquoteToggles(t *testing.T) {
	d := NewDebug()
	ev := input.KeyPressed(input.KeyBackquote)

	d.HandleEvent(ev)
	assert.True(t, d.IsOpen())
	assert.True(t, d.IgnoreEvent(ev))

	d.HandleEvent(ev)
	assert.False(t, d.IsOpen())
}

func TestDebug_OpenCapturesKeysButNotEscapeOrClose(t *testing.T) {
	d := NewDebug()
	d.HandleEvent(input.KeyPressed(input.KeyBackquote))

	assert.True(t, d.IgnoreEvent(input.KeyPressed(input.KeyW)))
	assert.False(t, d.IgnoreEvent(input.KeyPressed(input.KeyEscape)))
	assert.False(t, d.IgnoreEvent(input.CloseRequested()))
}

func TestDebug_EditAppliesToggles(t *testing.T) {
	d := NewDebug()
	opts := render.Default2D()
	ui := render.DebugUIState{}
	var text render.TextBatch

	d.HandleEvent(input.KeyPressed(input.KeyBackquote))
	d.HandleEvent(input.KeyPressed(input.Key1))
	d.HandleEvent(input.KeyPressed(input.Key6))
	d.HandleEvent(input.KeyPressed(input.KeyR))
	d.HandleEvent(input.KeyReleased(input.Key2))

	ts := clock.NewTimeState(time.Unix(0, 0))
	ts.Update(16 * time.Millisecond)

	d.Edit(Panel{Options: &opts, UI: &ui, Text: &text, Time: ts})

	assert.True(t, opts.EnableMSAA)
	assert.True(t, opts.ShowWireframes)
	assert.False(t, opts.EnableHDR, "releases do not toggle")
	assert.True(t, ui.ShowRenderOptions)
	assert.Equal(t, 5, text.Len(), "status line plus option lines")

	// toggles are consumed
	d.Edit(Panel{Options: &opts, UI: &ui})
	assert.True(t, opts.EnableMSAA)
}

func TestDebug_ClosedIgnoresDigits(t *testing.T) {
	d := NewDebug()
	opts := render.Default2D()

	d.HandleEvent(input.KeyPressed(input.Key1))
	d.Edit(Panel{Options: &opts})

	assert.False(t, opts.EnableMSAA)
}
