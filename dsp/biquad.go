package dsp

import (
	"math"

	"github.com/lixenwraith/sfx-forge/parameter"
)

// Biquad is a direct form I second-order section with normalised coefficients
type Biquad struct {
	B0, B1, B2, A1, A2 float64

	x1, x2, y1, y2 float64
}

// Design sets coefficients from the RBJ cookbook. Cutoffs at or above
// Nyquist make lowpass a pass-through and clamp the other responses.
func (b *Biquad) Design(kind parameter.FilterType, cutoff, q, sampleRate float64) {
	nyquist := sampleRate / 2
	if q <= 0 {
		q = 0.0001
	}
	if cutoff >= nyquist || cutoff <= 0 {
		if kind == parameter.FilterLowpass || cutoff <= 0 {
			b.B0, b.B1, b.B2, b.A1, b.A2 = 1, 0, 0, 0, 0
			return
		}
		cutoff = nyquist * 0.999
	}

	w0 := 2 * math.Pi * cutoff / sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * q)

	var b0, b1, b2 float64
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha

	switch kind {
	case parameter.FilterHighpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = (1 + cosw) / 2
	case parameter.FilterBandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	case parameter.FilterNotch:
		b0 = 1
		b1 = -2 * cosw
		b2 = 1
	default: // lowpass
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
	}

	b.B0, b.B1, b.B2 = b0/a0, b1/a0, b2/a0
	b.A1, b.A2 = a1/a0, a2/a0
}

// Process filters one sample
func (b *Biquad) Process(x float64) float64 {
	y := b.B0*x + b.B1*b.x1 + b.B2*b.x2 - b.A1*b.y1 - b.A2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}

// Reset clears filter history
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}
