package analyzer

// Band boundaries over the frequency byte array.
const (
	subBassEnd = 5
	bassEnd    = 20
	midEnd     = 100

	subBassWeight = 1.0
	kickWeight    = 0.8
)

// Metrics holds the per-frame perceptual levels derived from a spectrum.
// Bass may exceed 1 after the quadratic boost.
type Metrics struct {
	Bass float64
	Mid  float64
	High float64
}

// Level returns the metric for a round-robin band index (0 bass, 1 mid, 2 high).
func (m Metrics) Level(band int) float64 {
	switch band % 3 {
	case 0:
		return m.Bass
	case 1:
		return m.Mid
	default:
		return m.High
	}
}

// Extract computes banded levels from frequency magnitude bytes. Bands that
// fall past the end of the array count as zero.
func Extract(freq []byte) Metrics {
	n := len(freq)

	bassTotal := float64(sumRange(freq, 0, subBassEnd))*subBassWeight +
		float64(sumRange(freq, subBassEnd, bassEnd))*kickWeight
	midTotal := float64(sumRange(freq, bassEnd, midEnd))
	highTotal := float64(sumRange(freq, midEnd, n))

	bassAvg := average(bassTotal, binCount(n, 0, bassEnd))
	midAvg := average(midTotal, binCount(n, bassEnd, midEnd))
	highAvg := average(highTotal, binCount(n, midEnd, n))

	bassNorm := bassAvg / 255
	return Metrics{
		Bass: bassNorm * bassNorm * 2,
		Mid:  midAvg / 255,
		High: highAvg / 255,
	}
}

func sumRange(freq []byte, lo, hi int) int {
	if hi > len(freq) {
		hi = len(freq)
	}
	sum := 0
	for i := lo; i < hi; i++ {
		sum += int(freq[i])
	}
	return sum
}

func binCount(n, lo, hi int) int {
	if hi > n {
		hi = n
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
