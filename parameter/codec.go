package parameter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type fieldKind int

const (
	kindNumber fieldKind = iota
	kindInt
	kindText
	kindWaveList
	kindNumberList
)

// field binds a JSON key and its share-query short key to a SoundParams slot
type field struct {
	key   string
	short string
	kind  fieldKind
	set   func(p *SoundParams, msg json.RawMessage) error
	get   func(p *SoundParams) string
}

func number(get func(*SoundParams) *float64) (func(*SoundParams, json.RawMessage) error, func(*SoundParams) string) {
	return decodeInto(get), func(p *SoundParams) string { return strconv.FormatFloat(*get(p), 'g', -1, 64) }
}

func integer(get func(*SoundParams) *int) (func(*SoundParams, json.RawMessage) error, func(*SoundParams) string) {
	set := func(p *SoundParams, msg json.RawMessage) error {
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		*get(p) = int(v)
		return nil
	}
	return set, func(p *SoundParams) string { return strconv.Itoa(*get(p)) }
}

func text[T ~string](get func(*SoundParams) *T) (func(*SoundParams, json.RawMessage) error, func(*SoundParams) string) {
	return decodeInto(get), func(p *SoundParams) string { return string(*get(p)) }
}

func decodeInto[T any](get func(*SoundParams) *T) func(*SoundParams, json.RawMessage) error {
	return func(p *SoundParams, msg json.RawMessage) error {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		*get(p) = v
		return nil
	}
}

func mk(key, short string, kind fieldKind, set func(*SoundParams, json.RawMessage) error, get func(*SoundParams) string) field {
	return field{key: key, short: short, kind: kind, set: set, get: get}
}

var fields = buildFields()

func buildFields() []field {
	var fs []field
	num := func(key, short string, get func(*SoundParams) *float64) {
		s, g := number(get)
		fs = append(fs, mk(key, short, kindNumber, s, g))
	}
	intf := func(key, short string, get func(*SoundParams) *int) {
		s, g := integer(get)
		fs = append(fs, mk(key, short, kindInt, s, g))
	}

	s, g := text(func(p *SoundParams) *string { return &p.Name })
	fs = append(fs, mk("name", "n", kindText, s, g))
	s, g = text(func(p *SoundParams) *string { return &p.Timbre })
	fs = append(fs, mk("timbre", "ti", kindText, s, g))

	num("attack", "at", func(p *SoundParams) *float64 { return &p.Attack })
	num("decay", "de", func(p *SoundParams) *float64 { return &p.Decay })
	s, g = text(func(p *SoundParams) *EnvelopeShape { return &p.EnvelopeShape })
	fs = append(fs, mk("envelopeShape", "es", kindText, s, g))

	num("baseFrequency", "bf", func(p *SoundParams) *float64 { return &p.BaseFrequency })
	num("frequencyDrift", "fd", func(p *SoundParams) *float64 { return &p.FrequencyDrift })
	num("harmony", "ha", func(p *SoundParams) *float64 { return &p.Harmony })
	intf("quantize", "qu", func(p *SoundParams) *int { return &p.Quantize })
	fs = append(fs, mk("waveformPairs", "wf", kindWaveList, decodeWaves, encodeWaves))

	num("distortion", "di", func(p *SoundParams) *float64 { return &p.Distortion })
	num("noiseAmount", "na", func(p *SoundParams) *float64 { return &p.NoiseAmount })
	s, g = text(func(p *SoundParams) *NoiseType { return &p.NoiseType })
	fs = append(fs, mk("noiseType", "nt", kindText, s, g))
	num("noiseModulation", "nm", func(p *SoundParams) *float64 { return &p.NoiseModulation })

	num("lfoAmount", "la", func(p *SoundParams) *float64 { return &p.LFOAmount })
	num("lfoRate", "lr", func(p *SoundParams) *float64 { return &p.LFORate })
	s, g = text(func(p *SoundParams) *FilterType { return &p.FilterType })
	fs = append(fs, mk("filterType", "ft", kindText, s, g))
	num("filterCutoff", "fc", func(p *SoundParams) *float64 { return &p.FilterCutoff })
	num("filterResonance", "fr", func(p *SoundParams) *float64 { return &p.FilterResonance })
	num("combAmount", "ca", func(p *SoundParams) *float64 { return &p.CombAmount })
	num("combDelay", "cd", func(p *SoundParams) *float64 { return &p.CombDelay })
	num("vibratoDepth", "vd", func(p *SoundParams) *float64 { return &p.VibratoDepth })
	num("vibratoRate", "vr", func(p *SoundParams) *float64 { return &p.VibratoRate })

	num("reverbAmount", "ra", func(p *SoundParams) *float64 { return &p.ReverbAmount })
	num("echoAmount", "ea", func(p *SoundParams) *float64 { return &p.EchoAmount })
	num("echoDelay", "ed", func(p *SoundParams) *float64 { return &p.EchoDelay })

	fs = append(fs, mk("sequenceOffsets", "so", kindNumberList, decodeOffsets, encodeOffsets))
	intf("sequenceSteps", "ss", func(p *SoundParams) *int { return &p.SequenceSteps })
	num("sequenceBpm", "sb", func(p *SoundParams) *float64 { return &p.SequenceBPM })
	s, g = text(func(p *SoundParams) *PlaybackMode { return &p.PlaybackMode })
	fs = append(fs, mk("playbackMode", "pm", kindText, s, g))
	intf("loopCount", "lc", func(p *SoundParams) *int { return &p.LoopCount })

	// Not part of share links
	s, _ = text(func(p *SoundParams) *string { return &p.ID })
	fs = append(fs, mk("id", "", kindText, s, nil))
	fs = append(fs, mk("createdAt", "", kindInt, decodeInto(func(p *SoundParams) *int64 { return &p.CreatedAt }), nil))
	return fs
}

func decodeWaves(p *SoundParams, msg json.RawMessage) error {
	var v []Waveform
	if err := json.Unmarshal(msg, &v); err != nil {
		return err
	}
	p.WaveformPairs = v
	return nil
}

func encodeWaves(p *SoundParams) string {
	parts := make([]string, len(p.WaveformPairs))
	for i, w := range p.WaveformPairs {
		parts[i] = string(w)
	}
	return strings.Join(parts, ",")
}

// decodeOffsets fills as many slots as the document provides, the rest keep their value
func decodeOffsets(p *SoundParams, msg json.RawMessage) error {
	var v []float64
	if err := json.Unmarshal(msg, &v); err != nil {
		return err
	}
	for i := 0; i < len(v) && i < SequenceSlots; i++ {
		p.SequenceOffsets[i] = v[i]
	}
	return nil
}

func encodeOffsets(p *SoundParams) string {
	parts := make([]string, SequenceSlots)
	for i, o := range p.SequenceOffsets {
		parts[i] = strconv.FormatFloat(o, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// apply decodes every known key of raw onto p. Fields that fail to decode
// keep their current value; unknown keys are ignored.
func (p *SoundParams) apply(raw map[string]json.RawMessage) {
	for _, f := range fields {
		msg, ok := raw[f.key]
		if !ok || string(msg) == "null" {
			continue
		}
		_ = f.set(p, msg)
	}
}

// UnmarshalJSON decodes a possibly partial document over Default.
// Only a syntactically invalid document is an error.
func (p *SoundParams) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sound params: %w", err)
	}
	out := Default()
	out.apply(raw)
	*p = Sanitize(out)
	return nil
}

// Decode parses a JSON document into sanitized params.
// On error the defaults are returned alongside it.
func Decode(data []byte) (SoundParams, error) {
	var p SoundParams
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), err
	}
	return p, nil
}

// Merge overlays the fields present in partial onto Default and sanitizes
func Merge(partial map[string]any) SoundParams {
	raw := make(map[string]json.RawMessage, len(partial))
	for k, v := range partial {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		raw[k] = b
	}
	out := Default()
	out.apply(raw)
	return Sanitize(out)
}
