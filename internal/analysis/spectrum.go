package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first half of the DFT of data,
// after a Hann window.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}
	windowed := make([]float64, n)
	for i, v := range data {
		windowed[i] = v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in Hz, of the strongest non-DC
// bin of data sampled at rate Hz. It returns zero when there is nothing to
// measure.
func DominantFrequency(data []float64, rate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || rate <= 0 {
		return 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] == 0 {
		return 0
	}
	return float64(best) * rate / float64(len(data))
}
