// Package app drives the frame loop: it ticks at the target rate, applies
// user controls between frames, keeps the canvas sized to the presenter and
// hands finished frames to the presenter and the network mirror.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guidoenr/spectra/internal/analyzer"
	"github.com/guidoenr/spectra/internal/canvas"
	"github.com/guidoenr/spectra/internal/display"
	"github.com/guidoenr/spectra/internal/params"
	"github.com/guidoenr/spectra/internal/render"
)

// Config configures the application runtime.
type Config struct {
	// Width and Height size the canvas when the presenter cannot.
	Width        int
	Height       int
	TargetFPS    float64
	Mode         params.Mode
	HueShift     int
	Seed         int64
	NetworkNodes int
	Watermark    string
	Keyboard     bool
	ProfilePath  string

	Source    analyzer.Source
	Presenter display.Presenter
	Mirror    Mirror
	Log       *log.Logger
}

// Mirror receives every presented frame. Offer must not block and must not
// keep frame after returning.
type Mirror interface {
	Offer(frame *image.RGBA)
}

// Status is a snapshot of the last frame, safe to read from any goroutine.
type Status struct {
	Mode     string  `json:"mode"`
	HueShift int     `json:"hueShift"`
	Hue      float64 `json:"hue"`
	Bass     float64 `json:"bass"`
	Mid      float64 `json:"mid"`
	High     float64 `json:"high"`
	FPS      float64 `json:"fps"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Frames   uint64  `json:"frames"`
}

// App ties the spectrum source, render engine and presenter together.
type App struct {
	cfg       Config
	engine    *render.Engine
	canvas    *canvas.Canvas
	source    analyzer.Source
	presenter display.Presenter
	mirror    Mirror
	controls  chan Control
	prof      *profiler
	log       *log.Logger

	width  int
	height int
	last   time.Time
	fps    float64
	frames uint64

	mu     sync.RWMutex
	status Status
}

// New constructs the application. A nil Source is allowed; Run then returns
// without ticking.
func New(cfg Config) (*App, error) {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Presenter == nil {
		cfg.Presenter = display.Headless{Width: cfg.Width, Height: cfg.Height}
	}

	width, height := cfg.Width, cfg.Height
	if w, h, ok := cfg.Presenter.Size(); ok {
		width, height = w, h
	}
	surface, err := canvas.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}

	p := params.Defaults()
	if cfg.Mode.Valid() {
		p.Mode = cfg.Mode
	}
	p.SetHueShift(cfg.HueShift)

	engine, err := render.New(surface, render.Config{
		Rand:         rand.New(rand.NewSource(cfg.Seed)),
		Watermark:    cfg.Watermark,
		NetworkNodes: cfg.NetworkNodes,
		Params:       p,
		Log:          cfg.Log,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		engine:    engine,
		canvas:    surface,
		source:    cfg.Source,
		presenter: cfg.Presenter,
		mirror:    cfg.Mirror,
		controls:  make(chan Control, 16),
		prof:      newProfiler(cfg.ProfilePath, cfg.Log),
		log:       cfg.Log,
		width:     width,
		height:    height,
	}
	if ks, ok := cfg.Presenter.(display.KeySource); ok {
		ks.SetKeyHandler(func(r rune) {
			if c, ok := keyControl(r); ok {
				a.Send(c)
			}
		})
	}
	a.publish(render.FrameInfo{Mode: p.Mode})
	return a, nil
}

// Run ticks until ctx is cancelled, the source is torn down, the user quits
// or the presenter is closed.
func (a *App) Run(ctx context.Context) error {
	if a.source == nil {
		a.log.Println("no spectrum source, not running")
		return nil
	}

	frameDuration := time.Duration(float64(time.Second) / a.cfg.TargetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	if a.cfg.Keyboard {
		inputCtx, cancelInput := context.WithCancel(ctx)
		defer cancelInput()
		a.startInputListener(inputCtx)
	}

	a.engine.Restart()
	a.last = time.Now()
	done := a.source.Done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			a.log.Println("spectrum source closed, stopping")
			return nil
		case c := <-a.controls:
			if a.apply(c) {
				return nil
			}
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-done:
				a.log.Println("spectrum source closed, stopping")
				return nil
			default:
			}
			if err := a.step(); err != nil {
				if errors.Is(err, display.ErrClosed) {
					return nil
				}
				return err
			}
		}
	}
}

// Status returns the snapshot of the last frame.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// TargetFPS returns the configured tick rate.
func (a *App) TargetFPS() float64 { return a.cfg.TargetFPS }

// Close releases the profiler and the presenter.
func (a *App) Close() error {
	perr := a.prof.Close()
	if err := a.presenter.Close(); err != nil {
		return err
	}
	return perr
}

// step renders and presents one frame. Panics and non-fatal errors skip the
// frame; only an unusable surface or a closed presenter end the loop.
func (a *App) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Printf("frame skipped: panic: %v", r)
			err = nil
		}
	}()

	a.prof.beginFrame()
	a.ensureDimensions()
	a.prof.mark("resize")

	info, err := a.engine.Frame(a.source)
	if err != nil {
		if errors.Is(err, render.ErrNoSurface) {
			return err
		}
		a.log.Printf("frame skipped: %v", err)
		return nil
	}
	a.prof.mark("render")

	now := time.Now()
	if delta := now.Sub(a.last).Seconds(); delta > 0 {
		a.fps = 1 / delta
	}
	a.last = now
	a.frames++

	frame := a.canvas.Image()
	if err := a.presenter.Present(frame, statusLine(info, a.engine.Params(), a.fps)); err != nil {
		if errors.Is(err, display.ErrClosed) {
			return err
		}
		a.log.Printf("present: %v", err)
	}
	a.prof.mark("present")

	if a.mirror != nil {
		a.mirror.Offer(frame)
	}
	a.prof.endFrame()
	a.publish(info)
	return nil
}

// ensureDimensions follows the presenter size. The engine notices the new
// canvas size on its next frame and regenerates its fields.
func (a *App) ensureDimensions() {
	w, h, ok := a.presenter.Size()
	if !ok || (w == a.width && h == a.height) {
		return
	}
	if err := a.canvas.Resize(w, h); err != nil {
		a.log.Printf("resize %dx%d: %v", w, h, err)
		return
	}
	a.width, a.height = w, h
}

func (a *App) publish(info render.FrameInfo) {
	p := a.engine.Params()
	a.mu.Lock()
	a.status = Status{
		Mode:     p.Mode.String(),
		HueShift: p.HueShift,
		Hue:      info.Hue,
		Bass:     info.Metrics.Bass,
		Mid:      info.Metrics.Mid,
		High:     info.Metrics.High,
		FPS:      a.fps,
		Width:    a.width,
		Height:   a.height,
		Frames:   a.frames,
	}
	a.mu.Unlock()
}

func statusLine(info render.FrameInfo, p params.Parameters, fps float64) string {
	var b strings.Builder
	b.Grow(96)
	b.WriteString(strings.ToUpper(info.Mode.String()))
	b.WriteString(" | hue ")
	b.WriteString(strconv.Itoa(p.HueShift))
	b.WriteString(" | bass ")
	appendFloat(&b, info.Metrics.Bass, 2)
	b.WriteString(" mid ")
	appendFloat(&b, info.Metrics.Mid, 2)
	b.WriteString(" high ")
	appendFloat(&b, info.Metrics.High, 2)
	b.WriteString(" | fps ")
	appendFloat(&b, fps, 1)
	return b.String()
}

func appendFloat(b *strings.Builder, v float64, precision int) {
	var buf [32]byte
	b.Write(strconv.AppendFloat(buf[:0], v, 'f', precision, 64))
}
