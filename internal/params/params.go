package params

import (
	"fmt"
	"strings"
)

// Mode selects which draw strategy renders the frame.
type Mode uint8

const (
	ModeCircular Mode = iota
	ModeBars
	ModeWave
	ModeNetwork
	ModeWatercolor
	ModeNebula
	ModeRadialInk

	modeCount
)

var modeNames = [modeCount]string{
	ModeCircular:   "circular",
	ModeBars:       "bars",
	ModeWave:       "wave",
	ModeNetwork:    "network",
	ModeWatercolor: "watercolor",
	ModeNebula:     "nebula",
	ModeRadialInk:  "radialink",
}

// Modes returns every mode in display order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// ModeNames returns the identifiers accepted by ParseMode, in display order.
func ModeNames() []string {
	out := make([]string, modeCount)
	copy(out, modeNames[:])
	return out
}

func (m Mode) String() string {
	if m >= modeCount {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool { return m < modeCount }

// Next cycles forward through the modes.
func (m Mode) Next() Mode { return (m + 1) % modeCount }

// Prev cycles backward through the modes.
func (m Mode) Prev() Mode { return (m + modeCount - 1) % modeCount }

// ParseMode resolves a mode name. A few aliases are accepted.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "circle", "radial":
		return ModeCircular, nil
	case "spectrum":
		return ModeBars, nil
	case "waveform", "oscilloscope":
		return ModeWave, nil
	case "particles":
		return ModeNetwork, nil
	case "ink", "radial-ink", "radial_ink":
		return ModeRadialInk, nil
	case "stars", "starfield":
		return ModeNebula, nil
	}
	for i, n := range modeNames {
		if n == key {
			return Mode(i), nil
		}
	}
	return ModeCircular, fmt.Errorf("unknown mode %q", name)
}

// Parameters holds the externally controlled inputs read at the start of each tick.
type Parameters struct {
	Mode     Mode
	HueShift int
}

// Defaults returns the startup parameters.
func Defaults() Parameters {
	return Parameters{
		Mode:     ModeCircular,
		HueShift: 0,
	}
}

// SetHueShift stores shift normalized into [0,360).
func (p *Parameters) SetHueShift(shift int) {
	p.HueShift = NormalizeHue(shift)
}

// ShiftHue adds delta to the hue shift, wrapping around.
func (p *Parameters) ShiftHue(delta int) {
	p.SetHueShift(p.HueShift + delta)
}

// NormalizeHue wraps any integer hue into [0,360).
func NormalizeHue(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}
