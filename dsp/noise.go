package dsp

import "github.com/lixenwraith/sfx-forge/parameter"

// Noise fills a new buffer of n samples with the requested color.
// Unknown kinds produce white noise.
func Noise(kind parameter.NoiseType, n int, rng *Rand) []float64 {
	buf := make([]float64, n)
	switch kind {
	case parameter.NoisePink:
		pinkNoise(buf, rng)
	case parameter.NoiseBrown:
		brownNoise(buf, rng)
	case parameter.NoiseVelvet:
		velvetNoise(buf, rng)
	default:
		for i := range buf {
			buf[i] = rng.Bipolar()
		}
	}
	return buf
}

// pinkNoise is Paul Kellet's refined filter over white noise
func pinkNoise(buf []float64, rng *Rand) {
	var b0, b1, b2, b3, b4, b5, b6 float64
	for i := range buf {
		white := rng.Bipolar()
		b0 = 0.99886*b0 + white*0.0555179
		b1 = 0.99332*b1 + white*0.0750759
		b2 = 0.96900*b2 + white*0.1538520
		b3 = 0.86650*b3 + white*0.3104856
		b4 = 0.55000*b4 + white*0.5329522
		b5 = -0.7616*b5 - white*0.0168980
		buf[i] = (b0 + b1 + b2 + b3 + b4 + b5 + b6 + white*0.5362) * 0.11
		b6 = white * 0.115926
	}
}

// brownNoise is a leaky integrator of white noise with makeup gain
func brownNoise(buf []float64, rng *Rand) {
	var last float64
	for i := range buf {
		last = (last + 0.02*rng.Bipolar()) / 1.02
		buf[i] = last * 3.5
	}
}

// velvetNoise places sparse unit impulses of random sign at ~2% density
func velvetNoise(buf []float64, rng *Rand) {
	for i := range buf {
		if rng.Float64() < 0.02 {
			if rng.Float64() < 0.5 {
				buf[i] = -1
			} else {
				buf[i] = 1
			}
		}
	}
}
