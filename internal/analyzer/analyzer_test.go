package analyzer

import (
	"math"
	"testing"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		5:   8,
		16:  16,
		31:  32,
		257: 512,
	}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(2, 0, 1) != 1 {
		t.Fatalf("expected clamp high to be 1")
	}
	if clamp(-1, 0, 1) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
	if clamp(0.5, 0, 1) != 0.5 {
		t.Fatalf("expected clamp middle to be unchanged")
	}
}

func TestNewRoundsFFTSize(t *testing.T) {
	a := New(Config{FFTSize: 1000})
	if a.FFTSize() != 1024 {
		t.Fatalf("fft size=%d want=1024", a.FFTSize())
	}
	if a.Bins() != 512 {
		t.Fatalf("bins=%d want=512", a.Bins())
	}
}

func TestSilenceProducesZeroSpectrum(t *testing.T) {
	a := New(Config{FFTSize: 256})
	a.Process(make([]float32, 256))

	for i, v := range a.FrequencyData(nil) {
		if v != 0 {
			t.Fatalf("bin %d=%d want 0 for silence", i, v)
		}
	}
	for i, v := range a.TimeDomainData(nil) {
		if v != 128 {
			t.Fatalf("sample %d=%d want 128 for silence", i, v)
		}
	}
}

func TestSinePeaksAtItsBin(t *testing.T) {
	const size = 2048
	const bin = 64
	a := New(Config{FFTSize: size})

	samples := make([]float32, size)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * bin * float64(i) / size))
	}
	a.Process(samples)

	freq := a.FrequencyData(nil)
	peak := 0
	for i, v := range freq {
		if v > freq[peak] {
			peak = i
		}
	}
	if peak < bin-1 || peak > bin+1 {
		t.Fatalf("peak bin=%d want around %d", peak, bin)
	}
	if freq[bin] != 255 {
		t.Fatalf("peak magnitude=%d want 255", freq[bin])
	}
}

func TestProcessPadsShortInput(t *testing.T) {
	a := New(Config{FFTSize: 64})
	a.Process([]float32{1, -1})

	td := a.TimeDomainData(nil)
	if td[0] != 128 {
		t.Fatalf("padded sample=%d want 128", td[0])
	}
	if td[62] != 255 || td[63] != 0 {
		t.Fatalf("tail samples=%d,%d want 255,0", td[62], td[63])
	}
}

func TestFrequencyDataReusesBuffer(t *testing.T) {
	a := New(Config{FFTSize: 64})
	buf := make([]byte, 0, 64)
	out := a.FrequencyData(buf)
	if len(out) != 32 {
		t.Fatalf("len=%d want 32", len(out))
	}
	if &out[0] != &buf[:1][0] {
		t.Fatalf("expected destination buffer to be reused")
	}
}
