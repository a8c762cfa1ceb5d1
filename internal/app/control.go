package app

import (
	"github.com/guidoenr/spectra/internal/params"
)

// ControlKind names a user command.
type ControlKind uint8

const (
	ControlSetMode ControlKind = iota
	ControlNextMode
	ControlPrevMode
	ControlSetHue
	ControlShiftHue
	ControlQuit
)

// HueStep is the hue change of one +/- key press.
const HueStep = 15

// Control is a command from the keyboard or the web API. It is applied by
// the tick loop between frames.
type Control struct {
	Kind ControlKind
	Mode params.Mode
	Hue  int
}

// keyControl maps a key press onto a control.
func keyControl(r rune) (Control, bool) {
	switch {
	case r >= '1' && r <= '7':
		return Control{Kind: ControlSetMode, Mode: params.Mode(r - '1')}, true
	case r == 'n' || r == 'N':
		return Control{Kind: ControlNextMode}, true
	case r == 'p' || r == 'P':
		return Control{Kind: ControlPrevMode}, true
	case r == '+' || r == '=':
		return Control{Kind: ControlShiftHue, Hue: HueStep}, true
	case r == '-' || r == '_':
		return Control{Kind: ControlShiftHue, Hue: -HueStep}, true
	case r == 'q' || r == 'Q':
		return Control{Kind: ControlQuit}, true
	}
	return Control{}, false
}

// Send queues c for the next tick. It never blocks; false means the queue
// was full and c was dropped.
func (a *App) Send(c Control) bool {
	select {
	case a.controls <- c:
		return true
	default:
		return false
	}
}

// apply runs c against the engine and reports whether it asks to quit.
func (a *App) apply(c Control) bool {
	p := a.engine.Params()
	switch c.Kind {
	case ControlSetMode:
		a.engine.SetMode(c.Mode)
	case ControlNextMode:
		a.engine.SetMode(p.Mode.Next())
	case ControlPrevMode:
		a.engine.SetMode(p.Mode.Prev())
	case ControlSetHue:
		a.engine.SetHueShift(c.Hue)
	case ControlShiftHue:
		a.engine.ShiftHue(c.Hue)
	case ControlQuit:
		return true
	}
	if next := a.engine.Params(); next != p {
		a.log.Printf("mode=%s hue=%d", next.Mode, next.HueShift)
	}
	return false
}
