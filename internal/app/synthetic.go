package app

import (
	"math"
	"math/rand"
	"sync"

	"github.com/guidoenr/spectra/internal/analyzer"
)

const syntheticSampleRate = 44100.0

// SyntheticSource generates a drifting three-tone signal with a kick pulse
// and runs it through the analyser, for running without a microphone.
type SyntheticSource struct {
	analyser *analyzer.Analyser
	rng      *rand.Rand
	t        float64
	step     float64

	samples []float32
	freq    []byte
	wave    []byte
	fresh   bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewSyntheticSource advances the signal by one 60 Hz frame per analysis.
func NewSyntheticSource(fftSize int, seed int64) *SyntheticSource {
	an := analyzer.New(analyzer.Config{FFTSize: fftSize, Smoothing: 0.8})
	return &SyntheticSource{
		analyser: an,
		rng:      rand.New(rand.NewSource(seed)),
		step:     1.0 / 60,
		samples:  make([]float32, an.FFTSize()),
		done:     make(chan struct{}),
	}
}

func (s *SyntheticSource) FrequencyData() []byte {
	s.generate()
	s.analyser.Process(s.samples)
	s.fresh = true
	s.t += s.step
	s.freq = s.analyser.FrequencyData(s.freq)
	return s.freq
}

func (s *SyntheticSource) TimeDomainData() []byte {
	if !s.fresh {
		s.FrequencyData()
	}
	s.wave = s.analyser.TimeDomainData(s.wave)
	s.fresh = false
	return s.wave
}

func (s *SyntheticSource) Done() <-chan struct{} { return s.done }

func (s *SyntheticSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *SyntheticSource) generate() {
	bass := 0.5 + 0.5*math.Sin(s.t*0.7)
	mid := 0.4 + 0.4*math.Sin(s.t*1.2+0.5)
	high := 0.3 + 0.3*math.Sin(s.t*2.1+1.0)

	for i := range s.samples {
		tt := s.t + float64(i)/syntheticSampleRate
		kick := math.Exp(-math.Mod(tt, 0.5) * 8)
		v := 0.35*bass*(0.4+kick)*math.Sin(2*math.Pi*55*tt) +
			0.2*mid*math.Sin(2*math.Pi*660*tt) +
			0.1*high*math.Sin(2*math.Pi*5200*tt) +
			(s.rng.Float64()*2-1)*0.01
		s.samples[i] = float32(v)
	}
}
