package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrum returns the one-sided power spectrum of x sampled every dt
// seconds. The mean is removed first so the zero-frequency bin only holds
// numerical residue. Frequencies are in hertz.
func Spectrum(x []float64, dt float64) (freq, power []float64) {
	n := len(x)
	if n < 2 || dt <= 0 {
		return nil, nil
	}
	seq := make([]float64, n)
	copy(seq, x)
	floats.AddConst(-stat.Mean(x, nil), seq)

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)
	freq = make([]float64, len(coeff))
	power = make([]float64, len(coeff))
	for i, c := range coeff {
		freq[i] = fft.Freq(i) / dt
		a := cmplx.Abs(c)
		power[i] = a * a / float64(n)
	}
	return freq, power
}

// DominantPeriod returns the period in seconds of the strongest non-zero
// frequency, or 0 when x does not oscillate.
func DominantPeriod(x []float64, dt float64) float64 {
	freq, power := Spectrum(x, dt)
	if len(power) < 2 {
		return 0
	}
	peak := floats.MaxIdx(power[1:]) + 1
	if power[peak] <= 1e-12*floats.Sum(power) {
		return 0
	}
	return 1 / freq[peak]
}
