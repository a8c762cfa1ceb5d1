// Package audio captures microphone input with PortAudio and exposes it as a
// spectrum source.
package audio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// CaptureConfig selects the input device and the capture window.
type CaptureConfig struct {
	DeviceName string
	// Window is the number of mono samples kept, normally the FFT size.
	Window   int
	Channels int
}

const defaultWindow = 2048

// Capture owns a PortAudio input stream. The stream callback downmixes into
// a ring buffer; Snapshot copies out the newest window.
type Capture struct {
	stream     *portaudio.Stream
	sampleRate float64
	channels   int
	device     *portaudio.DeviceInfo

	mu   sync.Mutex
	ring ring
	mono []float32
}

// NewCapture opens and starts an input stream.
func NewCapture(cfg CaptureConfig) (*Capture, error) {
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	device, err := findDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}
	if cfg.Channels > device.MaxInputChannels {
		cfg.Channels = device.MaxInputChannels
	}

	c := &Capture{
		sampleRate: device.DefaultSampleRate,
		channels:   cfg.Channels,
		device:     device,
		ring:       newRing(cfg.Window),
	}

	framesPerBuffer := cfg.Window / 4
	if framesPerBuffer < 64 {
		framesPerBuffer = portaudio.FramesPerBufferUnspecified
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      c.sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, c.process)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	c.stream = stream
	return c, nil
}

// Close stops the stream. Stopping an already stopped stream is not an error.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil && !isInvalidStreamState(err) {
		return err
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}

func (c *Capture) SampleRate() float64 { return c.sampleRate }

func (c *Capture) Device() *portaudio.DeviceInfo { return c.device }

// Snapshot copies the newest window, oldest sample first, into dst.
func (c *Capture) Snapshot(dst []float32) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ring.snapshot(dst)
}

func (c *Capture) process(in []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mono = downmix(in, c.channels, c.mono)
	c.ring.write(c.mono)
}

// downmix averages interleaved channels into dst.
func downmix(in []float32, channels int, dst []float32) []float32 {
	if channels <= 1 {
		return append(dst[:0], in...)
	}
	frames := len(in) / channels
	dst = dst[:0]
	for i := 0; i < frames; i++ {
		var sum float32
		for _, v := range in[i*channels : (i+1)*channels] {
			sum += v
		}
		dst = append(dst, sum/float32(channels))
	}
	return dst
}

// ring is a fixed-size sample history.
type ring struct {
	buf  []float32
	next int
}

func newRing(size int) ring {
	return ring{buf: make([]float32, size)}
}

func (r *ring) write(in []float32) {
	n := len(r.buf)
	if len(in) >= n {
		copy(r.buf, in[len(in)-n:])
		r.next = 0
		return
	}
	k := copy(r.buf[r.next:], in)
	if k < len(in) {
		copy(r.buf, in[k:])
	}
	r.next = (r.next + len(in)) % n
}

func (r *ring) snapshot(dst []float32) []float32 {
	if cap(dst) < len(r.buf) {
		dst = make([]float32, len(r.buf))
	}
	dst = dst[:len(r.buf)]
	k := copy(dst, r.buf[r.next:])
	copy(dst[k:], r.buf[:r.next])
	return dst
}

// isInvalidStreamState matches PortAudio's paStreamIsStopped family.
func isInvalidStreamState(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PaErrorCode -9986")
}
