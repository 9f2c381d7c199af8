package audio

import (
	"math"
	"testing"

	"github.com/lixenwraith/sfx-forge/parameter"
)

func sequenced(steps int, mode parameter.PlaybackMode, loops int) parameter.SoundParams {
	p := parameter.Default()
	p.SequenceSteps = steps
	p.SequenceOffsets = [parameter.SequenceSlots]float64{0, 4, 7, 12}
	p.SequenceBPM = 120
	p.PlaybackMode = mode
	p.LoopCount = loops
	return p
}

// TestExpandPingPong verifies the ping-pong cycle and absolute trigger times
func TestExpandPingPong(t *testing.T) {
	triggers := Expand(sequenced(3, parameter.PlayPingPong, 2), 0)

	wantOffsets := []float64{0, 4, 7, 4, 0, 4, 7, 4}
	if len(triggers) != len(wantOffsets) {
		t.Fatalf("Expected %d triggers, got %d", len(wantOffsets), len(triggers))
	}
	for i, tr := range triggers {
		if tr.Offset != wantOffsets[i] {
			t.Errorf("Trigger %d: expected offset %f, got %f", i, wantOffsets[i], tr.Offset)
		}
		if want := float64(i) * 0.5; math.Abs(tr.Time-want) > 1e-12 {
			t.Errorf("Trigger %d: expected time %f, got %f", i, want, tr.Time)
		}
		if tr.Index != i {
			t.Errorf("Trigger %d: expected index %d, got %d", i, i, tr.Index)
		}
	}
}

// TestCycleLength verifies cycle sizes per mode
func TestCycleLength(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		mode  parameter.PlaybackMode
		want  int
	}{
		{"ping-pong single", 1, parameter.PlayPingPong, 1},
		{"ping-pong two", 2, parameter.PlayPingPong, 2},
		{"ping-pong three", 3, parameter.PlayPingPong, 4},
		{"ping-pong four", 4, parameter.PlayPingPong, 6},
		{"once four", 4, parameter.PlayOnce, 4},
		{"repeat two", 2, parameter.PlayRepeat, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Cycle(sequenced(tt.steps, tt.mode, 1))); got != tt.want {
				t.Errorf("Expected cycle length %d, got %d", tt.want, got)
			}
		})
	}
}

// TestExpandRepeats verifies loop counts apply to repeat and ping-pong only
func TestExpandRepeats(t *testing.T) {
	if got := len(Expand(sequenced(3, parameter.PlayOnce, 5), 0)); got != 3 {
		t.Errorf("Expected once to ignore loop count, got %d triggers", got)
	}
	if got := len(Expand(sequenced(2, parameter.PlayRepeat, 3), 0)); got != 6 {
		t.Errorf("Expected 6 repeat triggers, got %d", got)
	}
	if got := len(Expand(sequenced(1, parameter.PlayPingPong, 4), 0)); got != 4 {
		t.Errorf("Expected 4 single-step ping-pong triggers, got %d", got)
	}
}

// TestExpandFrequencies verifies offsets transpose the base frequency
func TestExpandFrequencies(t *testing.T) {
	p := sequenced(4, parameter.PlayOnce, 1)
	p.BaseFrequency = 220
	triggers := Expand(p, 2)

	if triggers[0].Frequency != 220 {
		t.Errorf("Expected base frequency 220, got %f", triggers[0].Frequency)
	}
	if math.Abs(triggers[3].Frequency-440) > 1e-9 {
		t.Errorf("Expected octave at 440, got %f", triggers[3].Frequency)
	}
	if triggers[0].Time != 2 {
		t.Errorf("Expected first trigger at start time 2, got %f", triggers[0].Time)
	}
}

// TestSpan verifies the first-to-last trigger distance
func TestSpan(t *testing.T) {
	if got := Span(sequenced(1, parameter.PlayOnce, 1)); got != 0 {
		t.Errorf("Expected zero span for a single note, got %f", got)
	}
	if got := Span(sequenced(3, parameter.PlayPingPong, 2)); math.Abs(got-3.5) > 1e-12 {
		t.Errorf("Expected span 3.5, got %f", got)
	}
}
