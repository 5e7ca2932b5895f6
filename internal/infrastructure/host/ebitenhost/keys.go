package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/framehost/internal/application/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyEnter:      input.KeyEnter,
	ebiten.KeySpace:      input.KeySpace,
	ebiten.KeyTab:        input.KeyTab,
	ebiten.KeyBackspace:  input.KeyBackspace,
	ebiten.KeyBackquote:  input.KeyBackquote,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
}

func init() {
	for i := 0; i < 26; i++ {
		keyMap[ebiten.KeyA+ebiten.Key(i)] = input.KeyA + input.Key(i)
	}
	for i := 0; i < 10; i++ {
		keyMap[ebiten.KeyDigit0+ebiten.Key(i)] = input.Key0 + input.Key(i)
	}
}

// translateKey maps an ebiten key to an input key. Unmapped keys return
// KeyUnknown.
func translateKey(k ebiten.Key) input.Key {
	if ik, ok := keyMap[k]; ok {
		return ik
	}
	return input.KeyUnknown
}

var buttonMap = map[ebiten.MouseButton]input.MouseButton{
	ebiten.MouseButtonLeft:   input.MouseLeft,
	ebiten.MouseButtonRight:  input.MouseRight,
	ebiten.MouseButtonMiddle: input.MouseMiddle,
}
