package audio

import (
	"slices"

	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// Trigger is one scheduled note of an expanded sequence
type Trigger struct {
	Index     int     // position in the expanded sequence
	Offset    float64 // semitones from the base frequency
	Time      float64 // seconds on the backend clock
	Frequency float64
}

// Cycle returns the semitone offsets of a single sequence cycle.
// Ping-pong appends the reversed inner steps, so n steps give 2n-2 entries
// and a single step stays a single entry.
func Cycle(p parameter.SoundParams) []float64 {
	steps := max(1, min(p.SequenceSteps, parameter.SequenceSlots))
	base := slices.Clone(p.SequenceOffsets[:steps])

	cycle := base
	if p.PlaybackMode == parameter.PlayPingPong {
		for i := steps - 2; i > 0; i-- {
			cycle = append(cycle, base[i])
		}
	}
	return cycle
}

// Repeats is how many times the cycle plays
func Repeats(p parameter.SoundParams) int {
	if p.PlaybackMode == parameter.PlayOnce {
		return 1
	}
	return max(1, p.LoopCount)
}

// Expand turns a parameter set into note triggers starting at start.
// Trigger i sounds at start + i*60/bpm.
func Expand(p parameter.SoundParams, start float64) []Trigger {
	cycle := Cycle(p)
	repeats := Repeats(p)
	step := p.StepDuration()

	triggers := make([]Trigger, 0, len(cycle)*repeats)
	for r := 0; r < repeats; r++ {
		for _, off := range cycle {
			i := len(triggers)
			triggers = append(triggers, Trigger{
				Index:     i,
				Offset:    off,
				Time:      start + float64(i)*step,
				Frequency: dsp.Transpose(p.BaseFrequency, off),
			})
		}
	}
	return triggers
}

// Span is the time from the first to the last trigger
func Span(p parameter.SoundParams) float64 {
	n := len(Cycle(p)) * Repeats(p)
	return float64(n-1) * p.StepDuration()
}
