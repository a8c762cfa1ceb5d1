package params

import "testing"

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("ParseMode(%q)=%v want %v", m.String(), got, m)
		}
	}
}

func TestParseModeAliases(t *testing.T) {
	cases := map[string]Mode{
		"  Circular ": ModeCircular,
		"spectrum":    ModeBars,
		"waveform":    ModeWave,
		"stars":       ModeNebula,
		"radial-ink":  ModeRadialInk,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q)=%v,%v want %v", in, got, err, want)
		}
	}
}

func TestParseModeUnknown(t *testing.T) {
	if _, err := ParseMode("plasma"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestModeCycling(t *testing.T) {
	if ModeRadialInk.Next() != ModeCircular {
		t.Fatalf("expected wrap to circular")
	}
	if ModeCircular.Prev() != ModeRadialInk {
		t.Fatalf("expected wrap to radial ink")
	}
	if len(ModeNames()) != 7 {
		t.Fatalf("expected seven modes, got %d", len(ModeNames()))
	}
}

func TestSetHueShiftNormalizes(t *testing.T) {
	p := Defaults()
	cases := map[int]int{0: 0, 359: 359, 360: 0, 725: 5, -15: 345, -720: 0}
	for in, want := range cases {
		p.SetHueShift(in)
		if p.HueShift != want {
			t.Fatalf("SetHueShift(%d)=%d want=%d", in, p.HueShift, want)
		}
	}
	p.SetHueShift(350)
	p.ShiftHue(15)
	if p.HueShift != 5 {
		t.Fatalf("ShiftHue wrap=%d want 5", p.HueShift)
	}
}
