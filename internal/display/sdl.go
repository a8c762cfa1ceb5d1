//go:build sdl

package display

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL presents frames in a resizable window through a streaming texture.
type SDL struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
	title    string
	onKey    func(rune)
}

// NewSDL opens a window of the given size.
func NewSDL(title string, width, height int) (*SDL, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sdl: invalid window size %dx%d", width, height)
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl: init video: %w", err)
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("sdl: create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("sdl: create renderer: %w", err)
	}
	return &SDL{window: window, renderer: renderer, title: title}, nil
}

// SupportsSDL reports whether the binary was built with the sdl tag.
func SupportsSDL() bool { return true }

func (s *SDL) SetKeyHandler(fn func(rune)) { s.onKey = fn }

// Size follows the window, so resizing it resizes the rendered frame.
func (s *SDL) Size() (int, int, bool) {
	w, h := s.window.GetSize()
	return int(w), int(h), w > 0 && h > 0
}

func (s *SDL) Present(frame *image.RGBA, status string) error {
	b := frame.Bounds()
	if err := s.ensureTexture(b.Dx(), b.Dy()); err != nil {
		return err
	}
	if status != "" && status != s.title {
		s.window.SetTitle(status)
		s.title = status
	}
	if err := s.upload(frame); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return s.pollEvents()
}

// upload copies the frame row by row into the locked texture, whose pitch
// may exceed the image stride.
func (s *SDL) upload(frame *image.RGBA) error {
	pixels, pitch, err := s.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("sdl: lock texture: %w", err)
	}
	defer s.texture.Unlock()
	rowBytes := s.texW * 4
	for y := 0; y < s.texH; y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+rowBytes]
		copy(pixels[y*pitch:y*pitch+rowBytes], src)
	}
	return nil
}

func (s *SDL) pollEvents() error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return ErrClosed
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if e.Keysym.Sym == sdl.K_ESCAPE {
				return ErrClosed
			}
			if s.onKey != nil && e.Keysym.Sym > 0 && e.Keysym.Sym < 128 {
				s.onKey(rune(e.Keysym.Sym))
			}
		}
	}
	return nil
}

// ensureTexture recreates the texture when the frame size changes. The
// ABGR8888 layout matches image.RGBA byte order.
func (s *SDL) ensureTexture(width, height int) error {
	if s.texture != nil && s.texW == width && s.texH == height {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	tex, err := s.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return fmt.Errorf("sdl: create texture: %w", err)
	}
	s.texture = tex
	s.texW, s.texH = width, height
	return nil
}

func (s *SDL) Close() error {
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}
