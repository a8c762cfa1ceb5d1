package render

import (
	"math"

	"github.com/guidoenr/spectra/internal/canvas"
	"github.com/guidoenr/spectra/internal/params"
)

// modeSpec is one draw strategy. Light modes get a dark watermark.
type modeSpec struct {
	light bool
	draw  func(e *Engine, fc *frameContext)
}

var modeRegistry = map[params.Mode]modeSpec{
	params.ModeCircular:   {draw: (*Engine).drawCircular},
	params.ModeBars:       {draw: (*Engine).drawBars},
	params.ModeWave:       {draw: (*Engine).drawWave},
	params.ModeNetwork:    {draw: (*Engine).drawNetwork},
	params.ModeWatercolor: {light: true, draw: (*Engine).drawWatercolor},
	params.ModeNebula:     {draw: (*Engine).drawNebula},
	params.ModeRadialInk:  {light: true, draw: (*Engine).drawRadialInk},
}

func lookupMode(m params.Mode) modeSpec {
	if s, ok := modeRegistry[m]; ok {
		return s
	}
	return modeRegistry[params.ModeCircular]
}

func fillBackground(fc *frameContext, r, g, b uint8, a float64) {
	fc.s.FillRect(0, 0, fc.w, fc.h, canvas.Solid(rgba(r, g, b, a)))
}

// normSquared maps a magnitude byte to (v/255)^2.
func normSquared(v byte) float64 {
	n := float64(v) / 255
	return n * n
}

// polar returns the point at radius r and angle a around (cx, cy).
func polar(cx, cy, r, a float64) (float64, float64) {
	return cx + math.Cos(a)*r, cy + math.Sin(a)*r
}
