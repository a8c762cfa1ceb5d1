package analyzer

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	defaultFFTSize     = 2048
	defaultSmoothing   = 0.8
	defaultMinDecibels = -100.0
	defaultMaxDecibels = -30.0
)

// Analyser turns raw mono samples into byte spectra: a frequency-magnitude
// array of FFTSize/2 bins and a time-domain array of FFTSize samples.
type Analyser struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	window   []float64
	buffer   []float64
	smoothed []float64

	freq       []byte
	timeDomain []byte
}

// Config controls Analyser behavior.
type Config struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// New creates an Analyser. FFTSize is rounded up to a power of two.
func New(cfg Config) *Analyser {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}
	cfg.FFTSize = nextPow2(cfg.FFTSize)
	if cfg.FFTSize < 32 {
		cfg.FFTSize = 32
	}
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = defaultSmoothing
	}
	if cfg.MinDecibels == 0 && cfg.MaxDecibels == 0 {
		cfg.MinDecibels = defaultMinDecibels
		cfg.MaxDecibels = defaultMaxDecibels
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		cfg.MinDecibels = defaultMinDecibels
		cfg.MaxDecibels = defaultMaxDecibels
	}

	bins := cfg.FFTSize / 2
	a := &Analyser{
		fftSize:    cfg.FFTSize,
		smoothing:  cfg.Smoothing,
		minDB:      cfg.MinDecibels,
		maxDB:      cfg.MaxDecibels,
		window:     window.Hann(cfg.FFTSize),
		buffer:     make([]float64, cfg.FFTSize),
		smoothed:   make([]float64, bins),
		freq:       make([]byte, bins),
		timeDomain: make([]byte, cfg.FFTSize),
	}
	for i := range a.timeDomain {
		a.timeDomain[i] = 128
	}
	return a
}

// FFTSize returns the analysis window length.
func (a *Analyser) FFTSize() int { return a.fftSize }

// Bins returns the number of frequency bins produced per window.
func (a *Analyser) Bins() int { return a.fftSize / 2 }

// Process analyses the most recent FFTSize samples. Shorter inputs are
// zero-padded at the front so the newest sample stays at the end.
func (a *Analyser) Process(samples []float32) {
	size := a.fftSize
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}
	pad := size - len(samples)

	for i := 0; i < size; i++ {
		var s float64
		if i >= pad {
			s = float64(samples[i-pad])
		}
		a.timeDomain[i] = sampleToByte(s)
		a.buffer[i] = s * a.window[i]
	}

	spectrum := fft.FFTReal(a.buffer)
	scale := 1.0 / float64(size)
	span := a.maxDB - a.minDB
	for k := range a.smoothed {
		mag := cmag(spectrum[k]) * scale
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		a.freq[k] = decibelsToByte(a.smoothed[k], a.minDB, span)
	}
}

// FrequencyData copies the latest frequency bytes into dst, growing it if needed.
func (a *Analyser) FrequencyData(dst []byte) []byte {
	return copyInto(dst, a.freq)
}

// TimeDomainData copies the latest time-domain bytes into dst.
func (a *Analyser) TimeDomainData(dst []byte) []byte {
	return copyInto(dst, a.timeDomain)
}

func decibelsToByte(mag, minDB, span float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - minDB) / span
	return byte(clamp(v, 0, 255))
}

func sampleToByte(s float64) byte {
	return byte(clamp(math.Round(128+s*128), 0, 255))
}

func copyInto(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
