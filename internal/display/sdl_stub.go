//go:build !sdl

package display

import "image"

// SDL is unavailable in this build.
type SDL struct{}

func NewSDL(string, int, int) (*SDL, error) { return nil, ErrNoSDL }

func SupportsSDL() bool { return false }

func (*SDL) SetKeyHandler(func(rune)) {}

func (*SDL) Size() (int, int, bool) { return 0, 0, false }

func (*SDL) Present(*image.RGBA, string) error { return ErrClosed }

func (*SDL) Close() error { return nil }
