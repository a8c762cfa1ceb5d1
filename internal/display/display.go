// Package display presents rendered frames on a terminal, an SDL window or
// nowhere at all.
package display

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrClosed is returned by Present once the user closed the output.
var ErrClosed = errors.New("display: closed by user")

// ErrNoSDL is returned by Open when the binary was built without the sdl tag.
var ErrNoSDL = errors.New("display: SDL not enabled; rebuild with -tags sdl")

// Presenter shows finished frames. Size reports the pixel size the next
// frame should be rendered at; ok is false when the size is unknown.
type Presenter interface {
	Size() (width, height int, ok bool)
	Present(frame *image.RGBA, status string) error
	Close() error
}

// KeySource is implemented by presenters that receive key presses themselves.
type KeySource interface {
	SetKeyHandler(fn func(r rune))
}

// Names lists the accepted presenter names.
func Names() []string {
	if SupportsSDL() {
		return []string{"terminal", "sdl", "none"}
	}
	return []string{"terminal", "none"}
}

// Headless renders at a fixed size and discards frames. Used when frames are
// only mirrored over the network.
type Headless struct {
	Width, Height int
}

func (h Headless) Size() (int, int, bool) {
	return h.Width, h.Height, h.Width > 0 && h.Height > 0
}

func (Headless) Present(*image.RGBA, string) error { return nil }

func (Headless) Close() error { return nil }

// Options configures Open.
type Options struct {
	Name      string
	Title     string
	Width     int
	Height    int
	StatusBar bool
}

// Open builds the presenter called name.
func Open(opts Options) (Presenter, error) {
	switch strings.ToLower(opts.Name) {
	case "", "terminal":
		t := NewTerminal(nil, opts.StatusBar)
		t.Open()
		return t, nil
	case "sdl":
		if !SupportsSDL() {
			return nil, ErrNoSDL
		}
		s, err := NewSDL(opts.Title, opts.Width, opts.Height)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none", "headless":
		return Headless{Width: opts.Width, Height: opts.Height}, nil
	default:
		return nil, fmt.Errorf("unknown display %q (want one of %s)", opts.Name, strings.Join(Names(), "|"))
	}
}
