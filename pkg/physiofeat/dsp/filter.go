package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Section is one second-order stage of a cascaded IIR filter in
// Direct-Form II (transposed). A[0] is always 1.
type Section struct {
	B [3]float64
	A [3]float64
}

// Filter is a Butterworth design stored as a cascade of second-order
// sections. High orders and cutoffs far below Nyquist stay numerically
// stable in this form, which matters at physiological rates such as a
// 0.05 Hz cutoff on a 1 kHz signal.
type Filter struct {
	Sections []Section
}

// bilinear transform constant for a normalised design rate of 2.
const fs2 = 4.0

// Bandpass designs a Butterworth band-pass of the given prototype order
// (the digital filter has order 2*order) and applies it forward and
// backward. The result has zero phase and the same length as signal.
func Bandpass(signal []float64, lowHz, highHz, fs float64, order int) ([]float64, error) {
	f, err := DesignBandpass(lowHz, highHz, fs, order)
	if err != nil {
		return nil, err
	}
	return f.FiltFilt(signal), nil
}

// Lowpass designs a Butterworth low-pass and applies it forward and
// backward. The result has zero phase and the same length as signal.
func Lowpass(signal []float64, cutoffHz, fs float64, order int) ([]float64, error) {
	f, err := DesignLowpass(cutoffHz, fs, order)
	if err != nil {
		return nil, err
	}
	return f.FiltFilt(signal), nil
}

// DesignBandpass returns the second-order sections of a Butterworth
// band-pass with edges normalised to lowHz/(fs/2) and highHz/(fs/2).
func DesignBandpass(lowHz, highHz, fs float64, order int) (Filter, error) {
	if err := checkDesign(fs, order, lowHz, highHz); err != nil {
		return Filter{}, err
	}
	if lowHz >= highHz {
		return Filter{}, fmt.Errorf("%w: low edge %.4g Hz must be below high edge %.4g Hz", ErrInvalidBand, lowHz, highHz)
	}

	nyq := fs / 2
	wl := prewarp(lowHz / nyq)
	wh := prewarp(highHz / nyq)
	bw := wh - wl
	wo2 := complex(wl*wh, 0)

	poles := make([]complex128, 0, 2*order)
	for _, p := range butterPoles(order) {
		lp := p * complex(bw/2, 0)
		disc := cmplx.Sqrt(lp*lp - wo2)
		poles = append(poles, lp+disc, lp-disc)
	}
	zeros := make([]complex128, order) // at the origin

	return bilinear(zeros, poles, math.Pow(bw, float64(order))), nil
}

// DesignLowpass returns the second-order sections of a Butterworth
// low-pass with the cutoff normalised to cutoffHz/(fs/2).
func DesignLowpass(cutoffHz, fs float64, order int) (Filter, error) {
	if err := checkDesign(fs, order, cutoffHz); err != nil {
		return Filter{}, err
	}

	wo := prewarp(cutoffHz / (fs / 2))
	proto := butterPoles(order)
	poles := make([]complex128, len(proto))
	for i, p := range proto {
		poles[i] = p * complex(wo, 0)
	}

	return bilinear(nil, poles, math.Pow(wo, float64(order))), nil
}

func checkDesign(fs float64, order int, cutoffs ...float64) error {
	if !(fs > 0) || math.IsInf(fs, 0) {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidBand, fs)
	}
	if order < 1 {
		return fmt.Errorf("%w: filter order must be at least 1, got %d", ErrInvalidBand, order)
	}
	nyq := fs / 2
	for _, c := range cutoffs {
		if !(c > 0) || c >= nyq {
			return fmt.Errorf("%w: cutoff %.4g Hz outside (0, %.4g) Hz", ErrInvalidBand, c, nyq)
		}
	}
	return nil
}

// prewarp maps a normalised digital frequency (1 = Nyquist) to the analog
// frequency that the bilinear transform sends back onto it.
func prewarp(wn float64) float64 {
	return fs2 * math.Tan(math.Pi*wn/2)
}

// butterPoles returns the analog Butterworth prototype poles, unit cutoff.
func butterPoles(order int) []complex128 {
	p := make([]complex128, order)
	for i := range p {
		m := float64(-order + 1 + 2*i)
		p[i] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}
	return p
}

// bilinear maps analog zeros, poles and gain to the z-plane and groups the
// result into second-order sections. Zeros at infinity land on z = -1.
func bilinear(z, p []complex128, k float64) Filter {
	num := complex(1, 0)
	den := complex(1, 0)

	zd := make([]complex128, 0, len(p))
	for _, zz := range z {
		zd = append(zd, (fs2+zz)/(fs2-zz))
		num *= fs2 - zz
	}
	pd := make([]complex128, 0, len(p))
	for _, pp := range p {
		pd = append(pd, (fs2+pp)/(fs2-pp))
		den *= fs2 - pp
	}
	for len(zd) < len(pd) {
		zd = append(zd, -1)
	}

	return cascade(zd, pd, k*real(num/den))
}

// cascade pairs conjugate poles (and leftover real poles) into sections.
// Zeros are all real here; each section takes one from z > 0 and one from
// z < 0 when both are available.
func cascade(zeros, poles []complex128, gain float64) Filter {
	var pos, neg []float64
	for _, z := range zeros {
		if real(z) > 0 {
			pos = append(pos, real(z))
		} else {
			neg = append(neg, real(z))
		}
	}
	takeZero := func() float64 {
		var v float64
		if len(pos) >= len(neg) && len(pos) > 0 {
			v, pos = pos[0], pos[1:]
		} else {
			v, neg = neg[0], neg[1:]
		}
		return v
	}
	zeroPair := func() (float64, float64) {
		if len(pos) > 0 && len(neg) > 0 {
			a, b := pos[0], neg[0]
			pos, neg = pos[1:], neg[1:]
			return a, b
		}
		return takeZero(), takeZero()
	}

	var upper []complex128
	var reals []float64
	for _, p := range poles {
		tol := 1e-12 * math.Max(1, cmplx.Abs(p))
		switch {
		case math.Abs(imag(p)) <= tol:
			reals = append(reals, real(p))
		case imag(p) > 0:
			upper = append(upper, p)
		}
	}

	sections := make([]Section, 0, len(upper)+(len(reals)+1)/2)
	for _, p := range upper {
		z1, z2 := zeroPair()
		sections = append(sections, Section{
			B: [3]float64{1, -(z1 + z2), z1 * z2},
			A: [3]float64{1, -2 * real(p), real(p)*real(p) + imag(p)*imag(p)},
		})
	}
	for i := 0; i+1 < len(reals); i += 2 {
		z1, z2 := zeroPair()
		r1, r2 := reals[i], reals[i+1]
		sections = append(sections, Section{
			B: [3]float64{1, -(z1 + z2), z1 * z2},
			A: [3]float64{1, -(r1 + r2), r1 * r2},
		})
	}
	if len(reals)%2 == 1 {
		z1 := takeZero()
		sections = append(sections, Section{
			B: [3]float64{1, -z1, 0},
			A: [3]float64{1, -reals[len(reals)-1], 0},
		})
	}

	if len(sections) > 0 {
		for i := range sections[0].B {
			sections[0].B[i] *= gain
		}
	}
	return Filter{Sections: sections}
}

// FiltFilt runs the cascade forward then backward over an odd extension of
// x, with each pass started from the steady state for its first sample.
// The output is zero phase and has the same length as x.
func (f Filter) FiltFilt(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n < 2 || len(f.Sections) == 0 {
		copy(out, x)
		return out
	}

	padlen := 3 * (2*len(f.Sections) + 1)
	if padlen > n-1 {
		padlen = n - 1
	}

	ext := make([]float64, 0, n+2*padlen)
	for i := padlen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= padlen; i++ {
		ext = append(ext, 2*x[n-1]-x[n-1-i])
	}

	zi := f.steadyState()
	f.run(ext, zi, ext[0])
	reverse(ext)
	f.run(ext, zi, ext[0])
	reverse(ext)

	copy(out, ext[padlen:padlen+n])
	return out
}

// steadyState returns the per-section delay-line state reached after an
// infinitely long unit step, scaled by the DC gain of earlier sections.
func (f Filter) steadyState() [][2]float64 {
	zi := make([][2]float64, len(f.Sections))
	scale := 1.0
	for i, s := range f.Sections {
		kdc := (s.B[0] + s.B[1] + s.B[2]) / (s.A[0] + s.A[1] + s.A[2])
		w1 := s.B[2] - s.A[2]*kdc
		w0 := s.B[1] - s.A[1]*kdc + w1
		zi[i] = [2]float64{w0 * scale, w1 * scale}
		scale *= kdc
	}
	return zi
}

// run filters x in place through every section.
func (f Filter) run(x []float64, zi [][2]float64, x0 float64) {
	for i, s := range f.Sections {
		w0, w1 := zi[i][0]*x0, zi[i][1]*x0
		for j, v := range x {
			y := s.B[0]*v + w0
			w0 = s.B[1]*v - s.A[1]*y + w1
			w1 = s.B[2]*v - s.A[2]*y
			x[j] = y
		}
	}
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
