package audio

import (
	"math"
	"strconv"

	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// ParamsFromSeed derives a complete parameter set from a 32-bit seed.
// Every field consumes a fixed number of draws, so the stream position of
// each field never depends on earlier outcomes.
func ParamsFromSeed(seed uint32) parameter.SoundParams {
	rng := dsp.NewRand(seed)
	pick := func(n int) int { return min(rng.Intn(n), n-1) }
	// gate draws a probability and a value; value applies when the first passes
	gate := func(prob float64, value func(r float64) float64) float64 {
		g, r := rng.Float64(), rng.Float64()
		if g < prob {
			return value(r)
		}
		return 0
	}

	p := parameter.Default()
	id := strconv.FormatUint(uint64(seed), 10)
	p.ID = "seed-" + id
	p.Name = "Seed " + id
	p.Timbre = "random"

	count := 1
	if rng.Float64() >= 0.6 {
		count = 2
	}
	kinds := [2]parameter.Waveform{
		parameter.Waveforms[pick(len(parameter.Waveforms))],
		parameter.Waveforms[pick(len(parameter.Waveforms))],
	}
	p.WaveformPairs = append([]parameter.Waveform(nil), kinds[:count]...)
	p.EnvelopeShape = parameter.EnvelopeShapes[pick(len(parameter.EnvelopeShapes))]

	p.Attack = 0.001 + rng.Float64()*0.2
	p.Decay = 0.05 + rng.Float64()*1.0
	p.BaseFrequency = 80 + rng.Float64()*1920
	p.Harmony = rng.Float64()

	p.FrequencyDrift = gate(0.4, func(r float64) float64 { return r*48 - 24 })
	p.Quantize = int(gate(0.2, func(r float64) float64 { return 1 + math.Floor(r*24) }))
	p.Distortion = gate(0.25, func(r float64) float64 { return r * 0.6 })

	p.NoiseAmount = gate(0.3, func(r float64) float64 { return r * 0.6 })
	p.NoiseType = parameter.NoiseTypes[pick(len(parameter.NoiseTypes))]
	p.NoiseModulation = gate(0.2, func(r float64) float64 { return r })

	p.VibratoDepth = gate(0.3, func(r float64) float64 { return r * 0.5 })
	p.VibratoRate = 0.5 + rng.Float64()*15
	p.LFOAmount = gate(0.25, func(r float64) float64 { return r })
	p.LFORate = 0.5 + rng.Float64()*12

	p.FilterType = parameter.FilterTypes[pick(3)]
	p.FilterCutoff = gate(0.4, func(r float64) float64 { return 200 + r*8000 })
	p.FilterResonance = 0.5 + rng.Float64()*10

	p.CombAmount = gate(0.15, func(r float64) float64 { return r * 0.8 })
	p.CombDelay = 0.002 + rng.Float64()*0.03

	p.ReverbAmount = rng.Float64() * 0.5
	p.EchoAmount = gate(0.2, func(r float64) float64 { return r * 0.6 })
	p.EchoDelay = 0.05 + rng.Float64()*0.5

	p.SequenceSteps = 1 + pick(parameter.SequenceSlots)
	for i := range p.SequenceOffsets {
		p.SequenceOffsets[i] = float64(pick(25) - 12)
	}
	p.SequenceBPM = float64(80 + pick(160))
	p.PlaybackMode = parameter.PlaybackModes[pick(len(parameter.PlaybackModes))]
	p.LoopCount = 1 + pick(3)

	return parameter.Sanitize(p)
}
