package display

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestANSIIndex(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want int
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 232},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"red", color.RGBA{255, 0, 0, 255}, 196},
		{"green", color.RGBA{0, 255, 0, 255}, 46},
		{"blue", color.RGBA{0, 0, 255, 255}, 21},
	}
	for _, tc := range tests {
		if got := ansiIndex(tc.c); got != tc.want {
			t.Fatalf("%s: ansiIndex = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestEncodeHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, color.RGBA{255, 0, 0, 255})
		img.SetRGBA(x, 1, color.RGBA{0, 0, 255, 255})
		img.SetRGBA(x, 2, color.RGBA{0, 255, 0, 255})
	}

	var buf bytes.Buffer
	encodeHalfBlocks(&buf, img)
	out := buf.String()

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("got %d rows, want 2: %q", len(lines), out)
	}
	if strings.Count(lines[0], halfBlock) != 2 {
		t.Fatalf("row 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[0], fgANSI[196]+bgANSI[21]) {
		t.Fatalf("row 0 colors = %q", lines[0])
	}
	// unchanged colors are not repeated
	if strings.Count(lines[0], fgANSI[196]) != 1 {
		t.Fatalf("row 0 repeats color codes: %q", lines[0])
	}
	// an odd last row is padded with black
	if !strings.HasPrefix(lines[1], fgANSI[46]+bgANSI[16]) {
		t.Fatalf("row 1 colors = %q", lines[1])
	}
}

func TestTerminalPresentWithStatus(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)
	if _, _, ok := term.Size(); ok {
		t.Fatal("size reported for a non-terminal writer")
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 2))
	if err := term.Present(img, "circular"); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "circular") {
		t.Fatalf("status missing from %q", buf.String())
	}
}

func TestStatusBar(t *testing.T) {
	if got := statusBar("abc", 5); got != "abc  " {
		t.Fatalf("statusBar pad = %q", got)
	}
	if got := statusBar("abcdef", 4); got != "abcd" {
		t.Fatalf("statusBar trim = %q", got)
	}
	if got := statusBar("abc", 0); got != "abc" {
		t.Fatalf("statusBar zero width = %q", got)
	}
}

func TestOpen(t *testing.T) {
	p, err := Open(Options{Name: "none", Width: 320, Height: 200})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if w, h, ok := p.Size(); !ok || w != 320 || h != 200 {
		t.Fatalf("headless size = %d %d %v", w, h, ok)
	}
	if _, err := Open(Options{Name: "hologram"}); err == nil {
		t.Fatal("unknown display accepted")
	}
}

func TestOpenSDLWithoutTag(t *testing.T) {
	if SupportsSDL() {
		t.Skip("built with sdl tag")
	}
	if _, err := Open(Options{Name: "sdl", Width: 64, Height: 48}); !errors.Is(err, ErrNoSDL) {
		t.Fatalf("Open(sdl) err = %v, want ErrNoSDL", err)
	}
	for _, n := range Names() {
		if n == "sdl" {
			t.Fatalf("Names() = %v lists sdl in a build without it", Names())
		}
	}
}
