// Package input defines platform-neutral input events and the input
// state tracker that receives every event the scene sees.
package input

// Kind is the type of an input event
type Kind int

const (
	KindWindowClose Kind = iota + 1
	KindKey
	KindMouseButton
	KindCursorMoved
	KindResized
)

// String returns the event kind name
func (k Kind) String() string {
	switch k {
	case KindWindowClose:
		return "WindowClose"
	case KindKey:
		return "Key"
	case KindMouseButton:
		return "MouseButton"
	case KindCursorMoved:
		return "CursorMoved"
	case KindResized:
		return "Resized"
	default:
		return "Unknown"
	}
}

// ElementState is the pressed state of a key or button
type ElementState int

const (
	Released ElementState = iota
	Pressed
)

// MouseButton identifies a mouse button
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Event is a single raw input event from the host.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   Kind         `json:"k"`
	Key    Key          `json:"key,omitempty"`
	State  ElementState `json:"s,omitempty"`
	Button MouseButton  `json:"b,omitempty"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	Width  int          `json:"w,omitempty"`
	Height int          `json:"h,omitempty"`
}

// CloseRequested is the event sent when the window is asked to close
func CloseRequested() Event {
	return Event{Kind: KindWindowClose}
}

// KeyPressed returns a key press event
func KeyPressed(k Key) Event {
	return Event{Kind: KindKey, Key: k, State: Pressed}
}

// KeyReleased returns a key release event
func KeyReleased(k Key) Event {
	return Event{Kind: KindKey, Key: k, State: Released}
}

// MouseButtonEvent returns a mouse button event
func MouseButtonEvent(b MouseButton, s ElementState) Event {
	return Event{Kind: KindMouseButton, Button: b, State: s}
}

// CursorMoved returns a cursor move event in window pixels
func CursorMoved(x, y float64) Event {
	return Event{Kind: KindCursorMoved, X: x, Y: y}
}

// Resized returns a window resize event
func Resized(w, h int) Event {
	return Event{Kind: KindResized, Width: w, Height: h}
}

// IsKeyPress reports whether the event is a press of k
func (e Event) IsKeyPress(k Key) bool {
	return e.Kind == KindKey && e.State == Pressed && e.Key == k
}
