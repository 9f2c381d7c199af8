package parameter

import "strings"

// Waveform is an oscillator shape
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveSawtooth Waveform = "sawtooth"
	WaveTriangle Waveform = "triangle"
)

// Waveforms lists valid oscillator shapes in randomizer draw order
var Waveforms = []Waveform{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle}

// EnvelopeShape selects the gain-vs-time contour of a note
type EnvelopeShape string

const (
	EnvelopePiano      EnvelopeShape = "piano"
	EnvelopeStrings    EnvelopeShape = "strings"
	EnvelopePercussive EnvelopeShape = "percussive"
	EnvelopeReverse    EnvelopeShape = "reverse"
)

var EnvelopeShapes = []EnvelopeShape{EnvelopePiano, EnvelopeStrings, EnvelopePercussive, EnvelopeReverse}

// NoiseType selects the noise color
type NoiseType string

const (
	NoiseWhite  NoiseType = "white"
	NoisePink   NoiseType = "pink"
	NoiseBrown  NoiseType = "brown"
	NoiseVelvet NoiseType = "velvet"
)

var NoiseTypes = []NoiseType{NoiseWhite, NoisePink, NoiseBrown, NoiseVelvet}

// FilterType selects the biquad response
type FilterType string

const (
	FilterLowpass  FilterType = "lowpass"
	FilterHighpass FilterType = "highpass"
	FilterBandpass FilterType = "bandpass"
	FilterNotch    FilterType = "notch"
)

var FilterTypes = []FilterType{FilterLowpass, FilterHighpass, FilterBandpass, FilterNotch}

// PlaybackMode selects how sequence steps are expanded into triggers
type PlaybackMode string

const (
	PlayOnce     PlaybackMode = "once"
	PlayRepeat   PlaybackMode = "repeat"
	PlayPingPong PlaybackMode = "ping-pong"
)

var PlaybackModes = []PlaybackMode{PlayOnce, PlayRepeat, PlayPingPong}

// SequenceSlots is the fixed length of SoundParams.SequenceOffsets
const SequenceSlots = 4

// SoundParams is the complete description of a sound effect.
// Values outside their ranges are clamped by Sanitize; the synthesis path
// assumes a sanitized value.
type SoundParams struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt,omitempty"` // unix millis
	Timbre    string `json:"timbre,omitempty"`

	// Pitch
	BaseFrequency  float64    `json:"baseFrequency"`
	WaveformPairs  []Waveform `json:"waveformPairs"`
	Harmony        float64    `json:"harmony"`
	FrequencyDrift float64    `json:"frequencyDrift"` // semitones over attack+decay
	Quantize       int        `json:"quantize"`       // steps per octave, 0 = off

	// Envelope
	Attack        float64       `json:"attack"`
	Decay         float64       `json:"decay"`
	EnvelopeShape EnvelopeShape `json:"envelopeShape"`

	// Noise
	NoiseAmount     float64   `json:"noiseAmount"`
	NoiseType       NoiseType `json:"noiseType"`
	NoiseModulation float64   `json:"noiseModulation"`

	// Modulation
	VibratoDepth float64 `json:"vibratoDepth"`
	VibratoRate  float64 `json:"vibratoRate"`
	LFOAmount    float64 `json:"lfoAmount"`
	LFORate      float64 `json:"lfoRate"`

	// Tone
	Distortion      float64    `json:"distortion"`
	FilterType      FilterType `json:"filterType"`
	FilterCutoff    float64    `json:"filterCutoff"` // 0 = bypass
	FilterResonance float64    `json:"filterResonance"`
	CombAmount      float64    `json:"combAmount"`
	CombDelay       float64    `json:"combDelay"`

	// Space
	ReverbAmount float64 `json:"reverbAmount"`
	EchoAmount   float64 `json:"echoAmount"`
	EchoDelay    float64 `json:"echoDelay"`

	// Sequence
	SequenceSteps   int                    `json:"sequenceSteps"`
	SequenceOffsets [SequenceSlots]float64 `json:"sequenceOffsets"`
	SequenceBPM     float64                `json:"sequenceBpm"`
	PlaybackMode    PlaybackMode           `json:"playbackMode"`
	LoopCount       int                    `json:"loopCount"`
}

// StepDuration is the time between sequence steps in seconds
func (p SoundParams) StepDuration() float64 {
	return 60.0 / p.SequenceBPM
}

// NoteDuration is the audible length of one triggered note
func (p SoundParams) NoteDuration() float64 {
	return p.Attack + p.Decay
}

// Clone returns a copy that shares no slices with p
func (p SoundParams) Clone() SoundParams {
	c := p
	c.WaveformPairs = append([]Waveform(nil), p.WaveformPairs...)
	return c
}

// Valid enum helpers

func (w Waveform) Valid() bool      { return contains(Waveforms, w) }
func (s EnvelopeShape) Valid() bool { return contains(EnvelopeShapes, s) }
func (n NoiseType) Valid() bool     { return contains(NoiseTypes, n) }
func (f FilterType) Valid() bool    { return contains(FilterTypes, f) }
func (m PlaybackMode) Valid() bool  { return contains(PlaybackModes, m) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// FileName is a lowercase file-safe WAV name derived from Name
func (p SoundParams) FileName() string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(p.Name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "sound.wav"
	}
	return b.String() + ".wav"
}
