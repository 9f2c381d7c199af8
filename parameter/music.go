package parameter

import (
	"math"
	"strings"
)

// Composition tempo and timing
const (
	DefaultBPM     = 128
	MinBPM         = 40
	MaxBPM         = 300
	StepsPerBeat   = 4 // 16th notes
	CompositionLen = 8 // steps per track
	TrackCount     = 8
	DefaultVolume  = 0.8
	DefaultNote    = "C4"
	DefaultKey     = "C"
	DefaultScale   = "Major"
)

// StepSeconds is the sixteenth-note step length at bpm
func StepSeconds(bpm float64) float64 {
	return 60.0 / bpm / StepsPerBeat
}

// Note names (semitones from C)
const (
	NoteC  = 0
	NoteCs = 1
	NoteD  = 2
	NoteDs = 3
	NoteE  = 4
	NoteF  = 5
	NoteFs = 6
	NoteG  = 7
	NoteGs = 8
	NoteA  = 9
	NoteAs = 10
	NoteB  = 11
)

// MIDINote converts note and octave to MIDI number
func MIDINote(note, octave int) int {
	return (octave+1)*12 + note
}

// MIDIFrequency is equal temperament with A4 (69) at 440 Hz
func MIDIFrequency(midi int) float64 {
	return 440.0 * math.Exp2(float64(midi-69)/12.0)
}

// Table bounds
const (
	NoteTableLowOctave  = 3
	NoteTableHighOctave = 5
)

var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"", "Db", "", "Eb", "", "", "Gb", "", "Ab", "", "Bb", ""}

	// MusicalKeys in chromatic order
	MusicalKeys = sharpNames[:]

	// Scales offered by the composer
	Scales = []string{"Major", "Minor", "Natural", "Chromatic"}

	noteTable = buildNoteTable()
)

// NoteNames lists the table in ascending pitch using sharp spelling
func NoteNames() []string {
	names := make([]string, 0, 12*(NoteTableHighOctave-NoteTableLowOctave+1))
	for oct := NoteTableLowOctave; oct <= NoteTableHighOctave; oct++ {
		for _, n := range sharpNames {
			names = append(names, n+itoa(oct))
		}
	}
	return names
}

func buildNoteTable() map[string]float64 {
	t := make(map[string]float64, 60)
	for oct := NoteTableLowOctave; oct <= NoteTableHighOctave; oct++ {
		for note := 0; note < 12; note++ {
			f := MIDIFrequency(MIDINote(note, oct))
			t[sharpNames[note]+itoa(oct)] = f
			if flatNames[note] != "" {
				t[flatNames[note]+itoa(oct)] = f
			}
		}
	}
	return t
}

// NoteFrequency looks up a note name such as "C4", "F#3" or "Bb5"
func NoteFrequency(name string) (float64, bool) {
	name = strings.TrimSpace(name)
	if len(name) > 1 {
		// Accept lower-case letter names
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	f, ok := noteTable[name]
	return f, ok
}

func itoa(n int) string {
	return string(rune('0' + n))
}
