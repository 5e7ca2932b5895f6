package input

// State tracks held keys and buttons plus the cursor. It receives every
// event that reaches the scene and is cleared of per-frame edges by EndFrame.
type State struct {
	down         map[Key]bool
	justPressed  map[Key]bool
	justReleased map[Key]bool
	buttons      map[MouseButton]bool
	clicked      map[MouseButton]bool

	MouseX, MouseY float64
	Width, Height  int
}

// NewState creates an empty input state
func NewState() *State {
	return &State{
		down:         make(map[Key]bool),
		justPressed:  make(map[Key]bool),
		justReleased: make(map[Key]bool),
		buttons:      make(map[MouseButton]bool),
		clicked:      make(map[MouseButton]bool),
	}
}

// Handle records an event
func (s *State) Handle(ev Event) {
	switch ev.Kind {
	case KindKey:
		if ev.State == Pressed {
			if !s.down[ev.Key] {
				s.justPressed[ev.Key] = true
			}
			s.down[ev.Key] = true
		} else {
			delete(s.down, ev.Key)
			s.justReleased[ev.Key] = true
		}
	case KindMouseButton:
		if ev.State == Pressed {
			if !s.buttons[ev.Button] {
				s.clicked[ev.Button] = true
			}
			s.buttons[ev.Button] = true
		} else {
			delete(s.buttons, ev.Button)
		}
	case KindCursorMoved:
		s.MouseX, s.MouseY = ev.X, ev.Y
	case KindResized:
		s.Width, s.Height = ev.Width, ev.Height
	}
}

// EndFrame clears the just-pressed and just-released edges
func (s *State) EndFrame() {
	clear(s.justPressed)
	clear(s.justReleased)
	clear(s.clicked)
}

// IsKeyDown reports whether k is held
func (s *State) IsKeyDown(k Key) bool {
	return s.down[k]
}

// IsKeyJustPressed reports whether k went down this frame
func (s *State) IsKeyJustPressed(k Key) bool {
	return s.justPressed[k]
}

// IsKeyJustReleased reports whether k went up this frame
func (s *State) IsKeyJustReleased(k Key) bool {
	return s.justReleased[k]
}

// IsButtonDown reports whether b is held
func (s *State) IsButtonDown(b MouseButton) bool {
	return s.buttons[b]
}

// IsButtonJustPressed reports whether b went down this frame
func (s *State) IsButtonJustPressed(b MouseButton) bool {
	return s.clicked[b]
}
