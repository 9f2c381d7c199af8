package dsp

import (
	"math"

	"github.com/lixenwraith/sfx-forge/parameter"
)

// Wave evaluates a unit-amplitude periodic waveform at phase in [0,1)
func Wave(w parameter.Waveform, phase float64) float64 {
	switch w {
	case parameter.WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case parameter.WaveSawtooth:
		return 2*phase - 1
	case parameter.WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Advance moves phase by freq/sampleRate and wraps into [0,1)
func Advance(phase, freq, sampleRate float64) float64 {
	phase += freq / sampleRate
	return phase - math.Floor(phase)
}
