package dsp

import (
	"math"
	"sort"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// RampKind selects how a value approaches an event
type RampKind uint8

const (
	RampSet RampKind = iota
	RampLinear
	RampExponential
)

// Event is one automation breakpoint. Ramp kinds describe the approach
// from the previous event to this one.
type Event struct {
	Kind  RampKind
	Time  float64
	Value float64
}

// Automation is a time-ordered list of breakpoints over a default value
type Automation struct {
	Default float64
	events  []Event
}

// Add inserts e after every event scheduled at or before its time
func (a *Automation) Add(e Event) {
	i := sort.Search(len(a.events), func(i int) bool { return a.events[i].Time > e.Time })
	a.events = append(a.events, Event{})
	copy(a.events[i+1:], a.events[i:])
	a.events[i] = e
}

// Clear drops all events
func (a *Automation) Clear() {
	a.events = a.events[:0]
}

// Len returns the number of scheduled events
func (a *Automation) Len() int {
	return len(a.events)
}

// Events returns a copy of the schedule
func (a *Automation) Events() []Event {
	return append([]Event(nil), a.events...)
}

// ValueAt evaluates the schedule at time t
func (a *Automation) ValueAt(t float64) float64 {
	n := len(a.events)
	if n == 0 {
		return a.Default
	}
	i := sort.Search(n, func(i int) bool { return a.events[i].Time > t })

	t0, v0 := 0.0, a.Default
	if i > 0 {
		t0, v0 = a.events[i-1].Time, a.events[i-1].Value
	}
	if i == n {
		return v0
	}

	next := a.events[i]
	span := next.Time - t0
	if span <= 0 {
		return v0
	}
	frac := (t - t0) / span

	switch next.Kind {
	case RampLinear:
		return v0 + (next.Value-v0)*frac
	case RampExponential:
		// Zero or sign-crossing endpoints hold until the event time
		if v0 == 0 || v0*next.Value <= 0 {
			return v0
		}
		return v0 * math.Pow(next.Value/v0, frac)
	default:
		return v0
	}
}

// PeakLevel is the envelope peak for a voice of waveCount oscillators
func PeakLevel(waveCount int, distortion float64) float64 {
	if waveCount < 1 {
		waveCount = 1
	}
	return constant.EnvelopePeakBase / float64(waveCount) * (1 + distortion*constant.EnvelopeDistortionBoost)
}

// Envelope returns the gain breakpoints of a note starting at time zero
func Envelope(shape parameter.EnvelopeShape, attack, decay, peak float64) []Event {
	const floor = constant.EnvelopeFloor
	end := attack + decay

	switch shape {
	case parameter.EnvelopeStrings:
		return []Event{
			{RampSet, 0, floor},
			{RampLinear, attack, peak},
			{RampLinear, end, 0},
		}

	case parameter.EnvelopePercussive:
		return []Event{
			{RampSet, 0, floor},
			{RampExponential, math.Min(constant.PercussiveAttack, end), peak},
			{RampExponential, end, floor},
		}

	case parameter.EnvelopeReverse:
		return []Event{
			{RampSet, 0, floor},
			{RampLinear, math.Max(0, end-constant.ReverseTail), peak},
			{RampLinear, end, floor},
		}

	default: // piano
		return []Event{
			{RampSet, 0, floor},
			{RampExponential, attack, peak},
			{RampExponential, end, floor},
		}
	}
}

// Offset shifts events by t0
func Offset(events []Event, t0 float64) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		e.Time += t0
		out[i] = e
	}
	return out
}
