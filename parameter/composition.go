package parameter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ComposerTrack is one row of the step grid
type ComposerTrack struct {
	ID        string                 `json:"id"`
	SoundID   *string                `json:"soundId"`
	Steps     [CompositionLen]bool   `json:"steps"`
	StepNotes [CompositionLen]string `json:"stepNotes"`
	Volume    float64                `json:"volume"`
}

// CompositionState is the grid sequencer document
type CompositionState struct {
	BPM    float64         `json:"bpm"`
	Key    string          `json:"key"`
	Scale  string          `json:"scale"`
	Tracks []ComposerTrack `json:"tracks"`
}

// SavedLoop is a persisted composition bundled with the sounds it references
type SavedLoop struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	State     CompositionState `json:"state"`
	Sounds    []SoundParams    `json:"sounds"`
	CreatedAt int64            `json:"createdAt"`
}

// NewTrack returns an empty track with default notes and volume
func NewTrack(i int) ComposerTrack {
	t := ComposerTrack{
		ID:     fmt.Sprintf("track-%d", i),
		Volume: DefaultVolume,
	}
	for s := range t.StepNotes {
		t.StepNotes[s] = DefaultNote
	}
	return t
}

// DefaultComposition is the empty composer grid
func DefaultComposition() CompositionState {
	c := CompositionState{
		BPM:    DefaultBPM,
		Key:    DefaultKey,
		Scale:  DefaultScale,
		Tracks: make([]ComposerTrack, TrackCount),
	}
	for i := range c.Tracks {
		c.Tracks[i] = NewTrack(i)
	}
	return c
}

// HasSound reports whether the track references a sound
func (t ComposerTrack) HasSound() bool {
	return t.SoundID != nil && *t.SoundID != ""
}

// SetSound assigns or clears (empty id) the track's sound
func (t *ComposerTrack) SetSound(id string) {
	if id == "" {
		t.SoundID = nil
		return
	}
	t.SoundID = &id
}

// Sanitize clamps tempo and volumes and fills empty note cells
func (c CompositionState) Sanitize() CompositionState {
	out := c
	if c.BPM <= 0 {
		out.BPM = DefaultBPM
	}
	out.BPM = Range{MinBPM, MaxBPM}.Clamp(out.BPM, DefaultBPM)
	if out.Key == "" {
		out.Key = DefaultKey
	}
	if out.Scale == "" {
		out.Scale = DefaultScale
	}
	out.Tracks = make([]ComposerTrack, len(c.Tracks))
	for i, t := range c.Tracks {
		t.Volume = RangeUnit.Clamp(t.Volume, DefaultVolume)
		for s, n := range t.StepNotes {
			if strings.TrimSpace(n) == "" {
				t.StepNotes[s] = DefaultNote
			}
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("track-%d", i)
		}
		out.Tracks[i] = t
	}
	return out
}

// StepSeconds is the grid step length
func (c CompositionState) StepSeconds() float64 {
	return StepSeconds(c.BPM)
}

// UsedSoundIDs lists distinct sound ids referenced by tracks, in track order
func (c CompositionState) UsedSoundIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range c.Tracks {
		if !t.HasSound() || seen[*t.SoundID] {
			continue
		}
		seen[*t.SoundID] = true
		ids = append(ids, *t.SoundID)
	}
	return ids
}

// DecodeSavedLoop parses a saved loop document and sanitizes its state
func DecodeSavedLoop(data []byte) (SavedLoop, error) {
	var l SavedLoop
	if err := json.Unmarshal(data, &l); err != nil {
		return SavedLoop{}, fmt.Errorf("saved loop: %w", err)
	}
	l.State = l.State.Sanitize()
	return l, nil
}
