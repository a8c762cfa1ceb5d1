package analyzer

import (
	"math"
	"testing"
)

func filled(n int, v byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestExtractSilence(t *testing.T) {
	m := Extract(make([]byte, 1024))
	if m != (Metrics{}) {
		t.Fatalf("silence metrics=%+v want zero", m)
	}
}

func TestExtractFullScale(t *testing.T) {
	m := Extract(filled(1024, 255))

	bassAvg := (5*255.0 + 15*255.0*0.8) / 20
	wantBass := math.Pow(bassAvg/255, 2) * 2
	if math.Abs(m.Bass-wantBass) > 1e-9 {
		t.Fatalf("bass=%f want=%f", m.Bass, wantBass)
	}
	if m.Mid != 1 || m.High != 1 {
		t.Fatalf("mid=%f high=%f want 1,1", m.Mid, m.High)
	}
}

func TestExtractBassIsQuadratic(t *testing.T) {
	freq := make([]byte, 1024)
	for i := 0; i < subBassEnd; i++ {
		freq[i] = 255
	}
	m := Extract(freq)
	avg := 5 * 255.0 / 20
	want := (avg / 255) * (avg / 255) * 2
	if math.Abs(m.Bass-want) > 1e-9 {
		t.Fatalf("bass=%f want=%f", m.Bass, want)
	}
}

func TestExtractBassMonotonic(t *testing.T) {
	base := make([]byte, 1024)
	for i := range base {
		base[i] = byte((i * 37) % 200)
	}
	for idx := 0; idx < bassEnd; idx++ {
		freq := append([]byte(nil), base...)
		prev := Extract(freq).Bass
		for v := int(freq[idx]) + 1; v <= 255; v += 7 {
			freq[idx] = byte(v)
			got := Extract(freq).Bass
			if got < prev {
				t.Fatalf("bin %d value %d decreased bass %f -> %f", idx, v, prev, got)
			}
			prev = got
		}
	}
}

func TestExtractShortArrays(t *testing.T) {
	cases := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"partial bass", 12},
		{"no mid tail", 60},
		{"exactly mid", 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Extract(filled(tc.n, 200))
			for _, v := range []float64{m.Bass, m.Mid, m.High} {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
					t.Fatalf("n=%d metrics=%+v", tc.n, m)
				}
			}
			if tc.n <= midEnd && m.High != 0 {
				t.Fatalf("n=%d high=%f want 0", tc.n, m.High)
			}
		})
	}
}

func TestMetricsLevelRoundRobin(t *testing.T) {
	m := Metrics{Bass: 1, Mid: 2, High: 3}
	for i, want := range []float64{1, 2, 3, 1, 2, 3, 1} {
		if got := m.Level(i); got != want {
			t.Fatalf("Level(%d)=%f want=%f", i, got, want)
		}
	}
}
