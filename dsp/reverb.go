package dsp

import "math"

// ImpulseResponse generates an exponentially decaying noise tail:
// (rand*2-1) * (1 - i/len)^2 per channel.
func ImpulseResponse(sampleRate, seconds float64, channels int, rng *Rand) [][]float64 {
	n := int(sampleRate * seconds)
	ir := make([][]float64, channels)
	for c := range ir {
		data := make([]float64, n)
		for i := range data {
			data[i] = rng.Bipolar() * math.Pow(1-float64(i)/float64(n), 2)
		}
		ir[c] = data
	}
	return ir
}
