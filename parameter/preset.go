package parameter

import (
	"sort"
	"strings"
	"sync"
)

var (
	presets  = make(map[string]SoundParams)
	presetMu sync.RWMutex
)

func init() {
	InitDefaultPresets()
}

// presetKey normalises names so lookups ignore case and surrounding space
func presetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterPreset adds or replaces a named preset, params are sanitized first
func RegisterPreset(p SoundParams) {
	p = Sanitize(p)
	presetMu.Lock()
	presets[presetKey(p.Name)] = p
	presetMu.Unlock()
}

// Preset retrieves a preset copy by name
func Preset(name string) (SoundParams, bool) {
	presetMu.RLock()
	defer presetMu.RUnlock()
	p, ok := presets[presetKey(name)]
	if !ok {
		return SoundParams{}, false
	}
	return p.Clone(), true
}

// Presets returns all presets ordered by name
func Presets() []SoundParams {
	presetMu.RLock()
	out := make([]SoundParams, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.Clone())
	}
	presetMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// preset starts from Default and applies fn
func preset(name string, fn func(p *SoundParams)) SoundParams {
	p := Default()
	p.Name = name
	p.ID = "preset-" + strings.ReplaceAll(presetKey(name), " ", "-")
	fn(&p)
	return p
}

// InitDefaultPresets registers the built-in game sound presets
func InitDefaultPresets() {
	RegisterPreset(preset("Classic Laser", func(p *SoundParams) {
		p.BaseFrequency = 1600
		p.WaveformPairs = []Waveform{WaveSawtooth}
		p.EnvelopeShape = EnvelopePercussive
		p.Decay = 0.15
		p.FrequencyDrift = -24
	}))

	RegisterPreset(preset("8-Bit Jump", func(p *SoundParams) {
		p.BaseFrequency = 300
		p.WaveformPairs = []Waveform{WaveSquare}
		p.EnvelopeShape = EnvelopePercussive
		p.Attack = 0.01
		p.Decay = 0.25
		p.FrequencyDrift = 12
		p.ReverbAmount = 0
	}))

	RegisterPreset(preset("Mega Explosion", func(p *SoundParams) {
		p.BaseFrequency = 60
		p.WaveformPairs = []Waveform{WaveSine}
		p.EnvelopeShape = EnvelopePercussive
		p.Decay = 1.2
		p.FrequencyDrift = -12
		p.NoiseAmount = 1
		p.NoiseType = NoiseBrown
		p.Distortion = 0.4
		p.FilterCutoff = 800
		p.ReverbAmount = 0.5
	}))

	RegisterPreset(preset("Shiny Coin", func(p *SoundParams) {
		p.BaseFrequency = 988
		p.WaveformPairs = []Waveform{WaveSquare}
		p.EnvelopeShape = EnvelopePercussive
		p.Attack = 0.005
		p.Decay = 0.2
		p.SequenceSteps = 2
		p.SequenceOffsets = [SequenceSlots]float64{0, 5, 0, 0}
		p.SequenceBPM = 800
		p.ReverbAmount = 0.1
	}))

	RegisterPreset(preset("Teleport Warp", func(p *SoundParams) {
		p.BaseFrequency = 200
		p.WaveformPairs = []Waveform{WaveSine, WaveTriangle}
		p.Harmony = 0.01
		p.EnvelopeShape = EnvelopeReverse
		p.Attack = 0.3
		p.Decay = 0.4
		p.FrequencyDrift = 24
		p.VibratoDepth = 0.3
		p.VibratoRate = 12
		p.EchoAmount = 0.3
		p.EchoDelay = 0.12
	}))

	RegisterPreset(preset("Retro Hit", func(p *SoundParams) {
		p.BaseFrequency = 150
		p.WaveformPairs = []Waveform{WaveSquare}
		p.EnvelopeShape = EnvelopePercussive
		p.Decay = 0.12
		p.FrequencyDrift = -12
		p.NoiseAmount = 0.4
		p.ReverbAmount = 0
	}))

	RegisterPreset(preset("Power Up", func(p *SoundParams) {
		p.BaseFrequency = 400
		p.WaveformPairs = []Waveform{WaveSquare, WaveTriangle}
		p.Harmony = 0.005
		p.EnvelopeShape = EnvelopePiano
		p.Attack = 0.01
		p.Decay = 0.15
		p.SequenceSteps = 4
		p.SequenceOffsets = [SequenceSlots]float64{0, 4, 7, 12}
		p.SequenceBPM = 600
		p.Quantize = 12
	}))

	RegisterPreset(preset("Kick Drum", func(p *SoundParams) {
		p.BaseFrequency = 110
		p.WaveformPairs = []Waveform{WaveSine}
		p.EnvelopeShape = EnvelopePercussive
		p.Decay = 0.35
		p.FrequencyDrift = -24
		p.Distortion = 0.2
		p.ReverbAmount = 0
	}))
}
