package dsp

import "math"

// Quantize snaps freq to the nearest of steps equal divisions per octave
// anchored at A4 = 440 Hz. Steps <= 0 returns freq unchanged.
func Quantize(freq float64, steps int) float64 {
	if steps <= 0 || freq <= 0 {
		return freq
	}
	s := float64(steps)
	return 440 * math.Exp2(math.Round(math.Log2(freq/440)*s)/s)
}

// Transpose shifts freq by semitones
func Transpose(freq, semitones float64) float64 {
	return freq * math.Exp2(semitones/12)
}
