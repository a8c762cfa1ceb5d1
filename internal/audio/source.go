package audio

import (
	"sync"

	"github.com/guidoenr/spectra/internal/analyzer"
)

// Source turns live capture into spectrum frames.
type Source struct {
	capture  *Capture
	analyser *analyzer.Analyser

	samples []float32
	freq    []byte
	wave    []byte
	fresh   bool

	done      chan struct{}
	closeOnce sync.Once
}

// SourceConfig configures NewSource.
type SourceConfig struct {
	DeviceName string
	FFTSize    int
	Smoothing  float64
}

// NewSource opens the capture device and an analyser sized to FFTSize.
func NewSource(cfg SourceConfig) (*Source, error) {
	an := analyzer.New(analyzer.Config{FFTSize: cfg.FFTSize, Smoothing: cfg.Smoothing})
	capture, err := NewCapture(CaptureConfig{
		DeviceName: cfg.DeviceName,
		Window:     an.FFTSize(),
		Channels:   2,
	})
	if err != nil {
		return nil, err
	}
	return &Source{
		capture:  capture,
		analyser: an,
		done:     make(chan struct{}),
	}, nil
}

// Capture exposes the underlying stream.
func (s *Source) Capture() *Capture { return s.capture }

// FrequencyData analyses the newest capture window.
func (s *Source) FrequencyData() []byte {
	s.samples = s.capture.Snapshot(s.samples)
	s.analyser.Process(s.samples)
	s.fresh = true
	s.freq = s.analyser.FrequencyData(s.freq)
	return s.freq
}

// TimeDomainData returns the window analysed by the last FrequencyData call,
// or analyses a new window when that one was already read.
func (s *Source) TimeDomainData() []byte {
	if !s.fresh {
		s.FrequencyData()
	}
	s.wave = s.analyser.TimeDomainData(s.wave)
	s.fresh = false
	return s.wave
}

func (s *Source) Done() <-chan struct{} { return s.done }

// Close stops capture and marks the source as gone.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.capture.Close()
	})
	return err
}
