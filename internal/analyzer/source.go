package analyzer

// Frame is one snapshot of a spectrum source: frequency magnitudes (0-255)
// and time-domain samples (0-255, 128 is the zero crossing).
type Frame struct {
	Frequency  []byte
	TimeDomain []byte
}

// Source exposes the most recent analysis window. FrequencyData refreshes
// the window; TimeDomainData returns the samples of that same window.
// Done is closed once the source has been torn down.
type Source interface {
	FrequencyData() []byte
	TimeDomainData() []byte
	Done() <-chan struct{}
}

// Read takes one Frame from src.
func Read(src Source) Frame {
	freq := src.FrequencyData()
	return Frame{
		Frequency:  freq,
		TimeDomain: src.TimeDomainData(),
	}
}

// StaticSource replays a fixed frame. Useful for tests and still renders.
type StaticSource struct {
	Frame Frame
	done  chan struct{}
}

// NewStaticSource returns a source that always yields frame.
func NewStaticSource(frame Frame) *StaticSource {
	return &StaticSource{Frame: frame, done: make(chan struct{})}
}

func (s *StaticSource) FrequencyData() []byte  { return s.Frame.Frequency }
func (s *StaticSource) TimeDomainData() []byte { return s.Frame.TimeDomain }
func (s *StaticSource) Done() <-chan struct{}  { return s.done }

// Close marks the source as torn down.
func (s *StaticSource) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
