package parameter

import "math"

// Range is an inclusive numeric bound
type Range struct {
	Min, Max float64
}

// Clamp limits v to the range, NaN yields fallback
func (r Range) Clamp(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Field ranges
var (
	RangeBaseFrequency   = Range{20, 20000}
	RangeHarmony         = Range{0, 1}
	RangeFrequencyDrift  = Range{-24, 24}
	RangeQuantize        = Range{0, 48}
	RangeAttack          = Range{0, 2}
	RangeDecay           = Range{0.01, 5}
	RangeUnit            = Range{0, 1}
	RangeModRate         = Range{0, 20}
	RangeFilterCutoff    = Range{20, 20000} // 0 is also accepted as bypass
	RangeFilterResonance = Range{0.0001, 30}
	RangeCombAmount      = Range{0, 0.95}
	RangeCombDelay       = Range{0.001, 0.1}
	RangeEchoDelay       = Range{0.01, 2}
	RangeSequenceSteps   = Range{1, SequenceSlots}
	RangeSequenceOffset  = Range{-24, 24}
	RangeSequenceBPM     = Range{30, 1200}
	RangeLoopCount       = Range{1, 16}
)

// Default returns the parameter set every decode starts from
func Default() SoundParams {
	return SoundParams{
		Name:            "New Sound",
		Timbre:          "bright",
		BaseFrequency:   440,
		WaveformPairs:   []Waveform{WaveSine},
		Harmony:         0.5,
		Attack:          0.1,
		Decay:           0.5,
		EnvelopeShape:   EnvelopePiano,
		NoiseType:       NoiseWhite,
		LFORate:         4,
		FilterType:      FilterLowpass,
		FilterResonance: 1,
		CombDelay:       0.02,
		ReverbAmount:    0.2,
		EchoDelay:       0.3,
		SequenceSteps:   1,
		SequenceOffsets: [SequenceSlots]float64{0, 4, 7, 12},
		SequenceBPM:     120,
		PlaybackMode:    PlayOnce,
		LoopCount:       1,
	}
}

// Sanitize clamps every field into its documented range and replaces
// invalid enum values with defaults. It never fails.
func Sanitize(p SoundParams) SoundParams {
	d := Default()
	p = p.Clone()

	p.BaseFrequency = RangeBaseFrequency.Clamp(p.BaseFrequency, d.BaseFrequency)
	p.Harmony = RangeHarmony.Clamp(p.Harmony, d.Harmony)
	p.FrequencyDrift = RangeFrequencyDrift.Clamp(p.FrequencyDrift, d.FrequencyDrift)
	p.Quantize = int(RangeQuantize.Clamp(float64(p.Quantize), 0))

	p.Attack = RangeAttack.Clamp(p.Attack, d.Attack)
	p.Decay = RangeDecay.Clamp(p.Decay, d.Decay)

	p.NoiseAmount = RangeUnit.Clamp(p.NoiseAmount, 0)
	p.NoiseModulation = RangeUnit.Clamp(p.NoiseModulation, 0)
	p.VibratoDepth = RangeUnit.Clamp(p.VibratoDepth, 0)
	p.VibratoRate = RangeModRate.Clamp(p.VibratoRate, d.VibratoRate)
	p.LFOAmount = RangeUnit.Clamp(p.LFOAmount, 0)
	p.LFORate = RangeModRate.Clamp(p.LFORate, d.LFORate)

	p.Distortion = RangeUnit.Clamp(p.Distortion, 0)
	if p.FilterCutoff <= 0 || math.IsNaN(p.FilterCutoff) {
		p.FilterCutoff = 0
	} else {
		p.FilterCutoff = RangeFilterCutoff.Clamp(p.FilterCutoff, 0)
	}
	p.FilterResonance = RangeFilterResonance.Clamp(p.FilterResonance, d.FilterResonance)
	p.CombAmount = RangeCombAmount.Clamp(p.CombAmount, 0)
	p.CombDelay = RangeCombDelay.Clamp(p.CombDelay, d.CombDelay)

	p.ReverbAmount = RangeUnit.Clamp(p.ReverbAmount, d.ReverbAmount)
	p.EchoAmount = RangeUnit.Clamp(p.EchoAmount, 0)
	p.EchoDelay = RangeEchoDelay.Clamp(p.EchoDelay, d.EchoDelay)

	p.SequenceSteps = int(RangeSequenceSteps.Clamp(float64(p.SequenceSteps), 1))
	for i, off := range p.SequenceOffsets {
		p.SequenceOffsets[i] = RangeSequenceOffset.Clamp(off, 0)
	}
	p.SequenceBPM = RangeSequenceBPM.Clamp(p.SequenceBPM, d.SequenceBPM)
	p.LoopCount = int(RangeLoopCount.Clamp(float64(p.LoopCount), 1))

	if !p.EnvelopeShape.Valid() {
		p.EnvelopeShape = d.EnvelopeShape
	}
	if !p.NoiseType.Valid() {
		p.NoiseType = d.NoiseType
	}
	if !p.FilterType.Valid() {
		p.FilterType = d.FilterType
	}
	if !p.PlaybackMode.Valid() {
		p.PlaybackMode = d.PlaybackMode
	}

	waves := p.WaveformPairs[:0]
	for _, w := range p.WaveformPairs {
		if w.Valid() && len(waves) < 2 {
			waves = append(waves, w)
		}
	}
	if len(waves) == 0 {
		waves = append(waves, WaveSine)
	}
	p.WaveformPairs = waves

	if p.Name == "" {
		p.Name = d.Name
	}
	return p
}
