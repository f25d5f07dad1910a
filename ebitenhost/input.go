package ebitenhost

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/replay"
)

// keyName maps an ebiten key to the web KeyboardEvent.key name sprites see.
// Letters are lower case and modifier sides are merged.
func keyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeySpace:
		return " "
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return "Shift"
	case ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return "Control"
	case ebiten.KeyAltLeft, ebiten.KeyAltRight:
		return "Alt"
	case ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return "Meta"
	case ebiten.KeyMinus:
		return "-"
	case ebiten.KeyEqual:
		return "="
	case ebiten.KeyComma:
		return ","
	case ebiten.KeyPeriod:
		return "."
	case ebiten.KeySlash:
		return "/"
	case ebiten.KeySemicolon:
		return ";"
	case ebiten.KeyQuote:
		return "'"
	case ebiten.KeyBracketLeft:
		return "["
	case ebiten.KeyBracketRight:
		return "]"
	case ebiten.KeyBackslash:
		return "\\"
	case ebiten.KeyBackquote:
		return "`"
	}
	name := k.String()
	switch {
	case len(name) == 1:
		return strings.ToLower(name)
	case strings.HasPrefix(name, "Digit"):
		return strings.TrimPrefix(name, "Digit")
	case strings.HasPrefix(name, "Numpad") && len(name) == len("Numpad0"):
		return strings.TrimPrefix(name, "Numpad")
	}
	return name
}

// inputReader snapshots ebiten's input state once per tick.
type inputReader struct {
	keys        []ebiten.Key
	touches     []ebiten.TouchID
	prevPressed bool
	lastTouch   replay.Point
	sawTouch    bool
}

func (r *inputReader) read(view viewport) replay.Inputs {
	in := replay.Inputs{
		Keys:             map[string]bool{},
		JustPressedKeys:  map[string]bool{},
		JustReleasedKeys: map[string]bool{},
	}
	r.keys = inpututil.AppendPressedKeys(r.keys[:0])
	for _, k := range r.keys {
		in.Keys[keyName(k)] = true
	}
	r.keys = inpututil.AppendJustPressedKeys(r.keys[:0])
	for _, k := range r.keys {
		in.JustPressedKeys[keyName(k)] = true
	}
	r.keys = inpututil.AppendJustReleasedKeys(r.keys[:0])
	for _, k := range r.keys {
		if name := keyName(k); !in.Keys[name] {
			in.JustReleasedKeys[name] = true
		}
	}

	var pressed bool
	r.touches = ebiten.AppendTouchIDs(r.touches[:0])
	if len(r.touches) > 0 {
		r.sawTouch = true
		tx, ty := ebiten.TouchPosition(r.touches[0])
		r.lastTouch = view.toGame(float64(tx), float64(ty))
		in.Pointer.X, in.Pointer.Y = r.lastTouch.X, r.lastTouch.Y
		pressed = true
	} else if r.sawTouch {
		// Released touches report the last known position.
		in.Pointer.X, in.Pointer.Y = r.lastTouch.X, r.lastTouch.Y
	} else {
		mx, my := ebiten.CursorPosition()
		p := view.toGame(float64(mx), float64(my))
		in.Pointer.X, in.Pointer.Y = p.X, p.Y
		pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	}
	in.Pointer.Pressed = pressed
	in.Pointer.JustPressed = pressed && !r.prevPressed
	in.Pointer.JustReleased = !pressed && r.prevPressed
	r.prevPressed = pressed
	return in
}
