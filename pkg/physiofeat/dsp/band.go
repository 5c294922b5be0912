package dsp

import "gonum.org/v1/gonum/integrate"

// BandPower integrates power over lowHz <= f <= highHz with the trapezoidal
// rule. It returns 0 when fewer than two bins fall in the band.
func BandPower(s Spectrum, lowHz, highHz float64) float64 {
	var freqs, power []float64
	for i, f := range s.Freqs {
		if f < lowHz || f > highHz {
			continue
		}
		freqs = append(freqs, f)
		power = append(power, s.Power[i])
	}
	if len(freqs) < 2 {
		return 0
	}
	return integrate.Trapezoidal(freqs, power)
}
