package parameter

import (
	"math"
	"testing"
)

// TestDefaultComposition verifies the empty grid layout
func TestDefaultComposition(t *testing.T) {
	c := DefaultComposition()
	if c.BPM != 128 || c.Key != "C" || c.Scale != "Major" {
		t.Errorf("Expected 128/C/Major, got %v/%s/%s", c.BPM, c.Key, c.Scale)
	}
	if len(c.Tracks) != TrackCount {
		t.Fatalf("Expected %d tracks, got %d", TrackCount, len(c.Tracks))
	}
	for i, tr := range c.Tracks {
		if tr.HasSound() {
			t.Errorf("Track %d: expected no sound", i)
		}
		if tr.Volume != 0.8 {
			t.Errorf("Track %d: expected volume 0.8, got %f", i, tr.Volume)
		}
		for s, n := range tr.StepNotes {
			if n != "C4" || tr.Steps[s] {
				t.Errorf("Track %d step %d: expected inactive C4, got %v %s", i, s, tr.Steps[s], n)
			}
		}
	}
	if c.Tracks[3].ID != "track-3" {
		t.Errorf("Expected track-3, got %s", c.Tracks[3].ID)
	}
}

// TestCompositionStepSeconds verifies sixteenth-note step duration
func TestCompositionStepSeconds(t *testing.T) {
	c := DefaultComposition()
	c.BPM = 120
	if got := c.StepSeconds(); math.Abs(got-0.125) > 1e-12 {
		t.Errorf("Expected 0.125s, got %f", got)
	}
}

// TestCompositionSanitize verifies tempo and volume clamping
func TestCompositionSanitize(t *testing.T) {
	c := DefaultComposition()
	c.BPM = 1000
	c.Tracks[0].Volume = 4
	c.Tracks[1].StepNotes[2] = " "
	s := c.Sanitize()
	if s.BPM != MaxBPM {
		t.Errorf("Expected bpm %d, got %f", MaxBPM, s.BPM)
	}
	if s.Tracks[0].Volume != 1 {
		t.Errorf("Expected volume 1, got %f", s.Tracks[0].Volume)
	}
	if s.Tracks[1].StepNotes[2] != DefaultNote {
		t.Errorf("Expected empty note to become %s, got %q", DefaultNote, s.Tracks[1].StepNotes[2])
	}
	if c.Tracks[0].Volume != 4 {
		t.Error("Expected input state unchanged")
	}

	c.BPM = 0
	if got := c.Sanitize().BPM; got != DefaultBPM {
		t.Errorf("Expected missing bpm to become %d, got %f", DefaultBPM, got)
	}
}

// TestUsedSoundIDs verifies distinct references in track order
func TestUsedSoundIDs(t *testing.T) {
	c := DefaultComposition()
	c.Tracks[0].SetSound("kick")
	c.Tracks[2].SetSound("laser")
	c.Tracks[5].SetSound("kick")
	c.Tracks[6].SetSound("")

	ids := c.UsedSoundIDs()
	if len(ids) != 2 || ids[0] != "kick" || ids[1] != "laser" {
		t.Errorf("Expected [kick laser], got %v", ids)
	}
}

// TestDecodeSavedLoop verifies null sound references and nested params decode
func TestDecodeSavedLoop(t *testing.T) {
	doc := `{"id":"l1","name":"Groove","createdAt":1700000000000,
		"state":{"bpm":90,"key":"D","scale":"Minor","tracks":[{"id":"track-0","soundId":null,"steps":[true,false,false,false,false,false,false,false],"stepNotes":["D4","C4","C4","C4","C4","C4","C4","C4"],"volume":0.5}]},
		"sounds":[{"name":"Blip","id":"s1"}]}`
	l, err := DecodeSavedLoop([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeSavedLoop failed: %v", err)
	}
	if l.State.BPM != 90 || len(l.State.Tracks) != 1 {
		t.Fatalf("Unexpected state %+v", l.State)
	}
	if l.State.Tracks[0].HasSound() {
		t.Error("Expected null sound id")
	}
	if !l.State.Tracks[0].Steps[0] || l.State.Tracks[0].StepNotes[0] != "D4" {
		t.Errorf("Unexpected first cell %+v", l.State.Tracks[0])
	}
	if len(l.Sounds) != 1 || l.Sounds[0].Decay != Default().Decay {
		t.Errorf("Expected one sound with default decay, got %+v", l.Sounds)
	}
}

// TestNoteFrequency verifies the equal-tempered table
func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"A4", 440},
		{"A3", 220},
		{"A5", 880},
		{"C4", 261.6255653005986},
		{"Bb4", 466.1637615180899},
		{"a#4", 466.1637615180899},
	}
	for _, tt := range tests {
		got, ok := NoteFrequency(tt.name)
		if !ok {
			t.Errorf("%s: expected note in table", tt.name)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}

	for _, missing := range []string{"C6", "H4", "", "C2"} {
		if _, ok := NoteFrequency(missing); ok {
			t.Errorf("Expected %q to be absent", missing)
		}
	}
}

// TestNoteNames verifies three chromatic octaves
func TestNoteNames(t *testing.T) {
	names := NoteNames()
	if len(names) != 36 {
		t.Fatalf("Expected 36 notes, got %d", len(names))
	}
	if names[0] != "C3" || names[35] != "B5" {
		t.Errorf("Expected C3..B5, got %s..%s", names[0], names[35])
	}
}

// TestPresetLookup verifies case-insensitive preset retrieval returns copies
func TestPresetLookup(t *testing.T) {
	p, ok := Preset("classic laser")
	if !ok {
		t.Fatal("Expected Classic Laser preset")
	}
	if p.BaseFrequency != 1600 || p.FrequencyDrift != -24 || p.EnvelopeShape != EnvelopePercussive {
		t.Errorf("Unexpected laser params %+v", p)
	}

	p.WaveformPairs[0] = WaveSine
	again, _ := Preset("Classic Laser")
	if again.WaveformPairs[0] != WaveSawtooth {
		t.Error("Expected preset registry to be unaffected by caller mutation")
	}

	if _, ok := Preset("nope"); ok {
		t.Error("Expected unknown preset to be missing")
	}
	if len(Presets()) < 8 {
		t.Errorf("Expected at least 8 presets, got %d", len(Presets()))
	}
}
