// Package render turns spectrum frames into drawn frames: it extracts
// metrics, synthesizes the frame hue, advances the particle fields for the
// active mode and runs that mode's draw strategy followed by the watermark.
package render

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/guidoenr/spectra/internal/analyzer"
	"github.com/guidoenr/spectra/internal/canvas"
	"github.com/guidoenr/spectra/internal/field"
	"github.com/guidoenr/spectra/internal/params"
)

// ErrNoSurface is returned when there is no usable drawing surface. It is
// fatal for the engine instance.
var ErrNoSurface = errors.New("render: drawing surface unavailable")

// ErrNoSource is returned by Frame when there is no spectrum source to read.
var ErrNoSource = errors.New("render: no spectrum source")

// DefaultWatermark is the overlay text drawn into every frame.
const DefaultWatermark = "spectra"

// Config configures an Engine. Zero values pick defaults.
type Config struct {
	Rand         *rand.Rand
	Clock        func() time.Time
	Watermark    string
	NetworkNodes int
	Params       params.Parameters
	Log          *log.Logger
}

// FrameInfo summarizes what a tick drew.
type FrameInfo struct {
	Mode    params.Mode
	Metrics analyzer.Metrics
	Hue     float64
	Resized bool
}

// Engine owns the surface, the particle fields and the per-frame state.
// It is driven from a single goroutine.
type Engine struct {
	surface   canvas.Surface
	params    params.Parameters
	fields    *field.Manager
	rng       *rand.Rand
	clock     func() time.Time
	start     time.Time
	watermark string
	log       *log.Logger

	width, height int

	inkRotation float64
	links       []field.Link
	points      []canvas.Point
	lengths     []float64
	inkBars     []inkBar
}

// frameContext is the snapshot every draw call of one tick observes.
type frameContext struct {
	s       canvas.Surface
	bounds  field.Bounds
	w, h    float64
	cx, cy  float64
	freq    []byte
	wave    []byte
	m       analyzer.Metrics
	hue     float64
	elapsed float64
}

// New creates an engine drawing into surface.
func New(surface canvas.Surface, cfg Config) (*Engine, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Watermark == "" {
		cfg.Watermark = DefaultWatermark
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stderr, "", log.LstdFlags)
	}
	if !cfg.Params.Mode.Valid() {
		cfg.Params.Mode = params.ModeCircular
	}
	cfg.Params.SetHueShift(cfg.Params.HueShift)

	fields := field.NewManager(cfg.Rand)
	if cfg.NetworkNodes > 0 {
		fields.SetNetworkNodes(cfg.NetworkNodes)
	}

	return &Engine{
		surface:   surface,
		params:    cfg.Params,
		fields:    fields,
		rng:       cfg.Rand,
		clock:     cfg.Clock,
		start:     cfg.Clock(),
		watermark: cfg.Watermark,
		log:       cfg.Log,
	}, nil
}

// SetMode switches the active mode. Takes effect on the next tick.
func (e *Engine) SetMode(m params.Mode) {
	if m.Valid() {
		e.params.Mode = m
	}
}

// SetHueShift sets the user hue shift, normalized into [0,360).
func (e *Engine) SetHueShift(shift int) {
	e.params.SetHueShift(shift)
}

// ShiftHue moves the user hue shift by delta degrees, wrapping around.
func (e *Engine) ShiftHue(delta int) {
	e.params.ShiftHue(delta)
}

// Params returns the current control inputs.
func (e *Engine) Params() params.Parameters { return e.params }

// Fields exposes the particle field manager.
func (e *Engine) Fields() *field.Manager { return e.fields }

// Restart resets the elapsed-time origin used by the hue wobble and nebula orbits.
func (e *Engine) Restart() { e.start = e.clock() }

// Frame renders one tick from the latest snapshot of src.
func (e *Engine) Frame(src analyzer.Source) (FrameInfo, error) {
	if e.surface == nil {
		return FrameInfo{}, ErrNoSurface
	}
	if src == nil {
		return FrameInfo{}, ErrNoSource
	}
	width, height := e.surface.Size()
	if width <= 0 || height <= 0 {
		return FrameInfo{}, fmt.Errorf("%w: size %dx%d", ErrNoSurface, width, height)
	}

	info := FrameInfo{Mode: e.params.Mode}
	if width != e.width || height != e.height {
		if e.width != 0 {
			e.log.Printf("surface resized %dx%d -> %dx%d, regenerating fields", e.width, e.height, width, height)
		}
		e.width, e.height = width, height
		e.fields.Reset(field.NewBounds(width, height))
		info.Resized = true
	}

	snapshot := analyzer.Read(src)
	elapsed := e.clock().Sub(e.start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	fc := &frameContext{
		s:       e.surface,
		bounds:  field.NewBounds(width, height),
		w:       float64(width),
		h:       float64(height),
		cx:      float64(width) / 2,
		cy:      float64(height) / 2,
		freq:    snapshot.Frequency,
		wave:    snapshot.TimeDomain,
		m:       analyzer.Extract(snapshot.Frequency),
		hue:     BaseHue(e.params.HueShift, elapsed),
		elapsed: elapsed,
	}
	info.Metrics = fc.m
	info.Hue = fc.hue

	strategy := lookupMode(e.params.Mode)
	e.surface.SetBlend(canvas.BlendNormal)
	strategy.draw(e, fc)
	e.surface.SetBlend(canvas.BlendNormal)
	e.drawWatermark(fc, strategy.light)

	return info, nil
}
