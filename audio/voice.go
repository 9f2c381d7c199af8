package audio

import (
	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/node"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// voice owns every node built for one playback of a sound
type voice struct {
	nodes   []node.Node
	sources []node.ScheduledSource
	end     float64 // backend time after which the voice is inaudible
	task    node.Task
}

func (v *voice) track(n node.Node) {
	v.nodes = append(v.nodes, n)
}

func (v *voice) trackSource(s node.ScheduledSource) {
	v.sources = append(v.sources, s)
	v.track(s)
}

// release silences all sources and disconnects every node.
// Caller holds the backend lock.
func (v *voice) release() {
	for _, s := range v.sources {
		s.Stop(0)
	}
	for _, n := range v.nodes {
		n.Disconnect()
	}
	v.nodes, v.sources = nil, nil
}

// assembler turns parameter sets into graphs on a backend.
// Every method expects the backend lock to be held.
type assembler struct {
	b      node.Backend
	reverb *node.Buffer
	noise  *dsp.Rand
}

func newAssembler(b node.Backend, noise *dsp.Rand) *assembler {
	return &assembler{
		b:      b,
		reverb: reverbCache.get(b.SampleRate()),
		noise:  noise,
	}
}

// playSequence builds one bus for p and a note for every expanded trigger
func (a *assembler) playSequence(p parameter.SoundParams, t0, volume float64, out node.Node) *voice {
	return a.play(p, Expand(p, t0), volume, out)
}

// playNote builds a single note at freq, bypassing the sequencer
func (a *assembler) playNote(p parameter.SoundParams, t0, freq, volume float64, out node.Node) *voice {
	return a.play(p, []Trigger{{Time: t0, Frequency: freq}}, volume, out)
}

func (a *assembler) play(p parameter.SoundParams, triggers []Trigger, volume float64, out node.Node) *voice {
	v := &voice{}
	start := triggers[0].Time
	end := triggers[len(triggers)-1].Time + p.NoteDuration() + RenderTail(p)

	level := a.gain(v, volume)
	level.Connect(out)
	in := a.bus(v, p, level, start, end)
	for _, tr := range triggers {
		a.note(v, p, in, tr.Time, tr.Frequency)
	}

	v.end = end
	if p.ReverbAmount > 0 {
		v.end += constant.ReverbSeconds
	}
	return v
}

// bus builds the shared effect chain of a voice and returns its input:
// tremolo, filter, comb, then dry, reverb and echo sends into out
func (a *assembler) bus(v *voice, p parameter.SoundParams, out node.Node, start, end float64) node.Node {
	in := a.gain(v, 1)
	var head node.Node = in

	if p.LFOAmount > 0 && p.LFORate > 0 {
		depth := p.LFOAmount * constant.TremoloScale
		trem := a.gain(v, 1-depth)
		amount := a.gain(v, depth)
		a.lfo(v, p.LFORate, start, end).Connect(amount)
		amount.ConnectParam(trem.Gain())
		head.Connect(trem)
		head = trem
	}

	// Cutoff 0 leaves the filter out of the graph entirely
	if p.FilterCutoff > 0 {
		f := a.b.CreateFilter()
		v.track(f)
		f.SetType(p.FilterType)
		f.Frequency().SetValue(p.FilterCutoff)
		f.Q().SetValue(p.FilterResonance)
		head.Connect(f)
		head = f
	}

	// y[n] = x[n] + a*y[n-D]
	if p.CombAmount > 0 {
		sum := a.gain(v, 1)
		line := a.delay(v, p.CombDelay)
		fb := a.gain(v, p.CombAmount)
		head.Connect(sum)
		sum.Connect(line)
		line.Connect(fb)
		fb.Connect(sum)
		head = sum
	}

	head.Connect(out)

	if p.ReverbAmount > 0 {
		cv := a.b.CreateConvolver()
		v.track(cv)
		cv.SetBuffer(a.reverb)
		wet := a.gain(v, p.ReverbAmount*constant.ReverbWetScale)
		head.Connect(cv)
		cv.Connect(wet)
		wet.Connect(out)
	}

	if p.EchoAmount > 0 {
		send := a.gain(v, p.EchoAmount)
		line := a.delay(v, p.EchoDelay)
		fb := a.gain(v, constant.EchoFeedback)
		head.Connect(send)
		send.Connect(line)
		line.Connect(fb)
		fb.Connect(line)
		line.Connect(out)
	}

	return in
}

// note builds the oscillators, noise and envelope of one trigger into in
func (a *assembler) note(v *voice, p parameter.SoundParams, in node.Node, t, freq float64) {
	stop := t + p.NoteDuration()
	peak := dsp.PeakLevel(len(p.WaveformPairs), p.Distortion)

	env := a.gain(v, 0)
	automate(env.Gain(), dsp.Offset(dsp.Envelope(p.EnvelopeShape, p.Attack, p.Decay, peak), t))

	shaper := a.b.CreateWaveShaper()
	v.track(shaper)
	shaper.SetCurve(dsp.DistortionCurve(p.Distortion))
	env.Connect(shaper)
	shaper.Connect(in)

	// One noise buffer per trigger, shared by jitter and the noise layer
	var noise *node.Buffer
	noiseBuffer := func() *node.Buffer {
		if noise == nil {
			noise = a.noiseBuffer(p.NoiseType)
		}
		return noise
	}

	for i, w := range p.WaveformPairs {
		ratio := 1.0
		if i == 1 {
			ratio = 1 + p.Harmony
		}
		f := dsp.Quantize(freq*ratio, p.Quantize)

		osc := a.b.CreateOscillator()
		v.trackSource(osc)
		osc.SetType(w)
		osc.Frequency().SetValue(f)
		osc.Frequency().SetValueAtTime(f, t)
		if p.FrequencyDrift != 0 {
			osc.Frequency().ExponentialRampToValueAtTime(dsp.Transpose(f, p.FrequencyDrift), stop)
		}

		if p.VibratoDepth > 0 && p.VibratoRate > 0 {
			depth := a.gain(v, p.VibratoDepth*constant.VibratoScale)
			a.lfo(v, p.VibratoRate, t, stop).Connect(depth)
			depth.ConnectParam(osc.Frequency())
		}

		if p.NoiseModulation > 0 {
			jitter := a.gain(v, p.NoiseModulation*f*constant.NoiseJitterScale)
			a.bufferSource(v, noiseBuffer(), t, stop).Connect(jitter)
			jitter.ConnectParam(osc.Frequency())
		}

		osc.Connect(env)
		osc.Start(t)
		osc.Stop(stop)
	}

	if p.NoiseAmount > 0 {
		level := a.gain(v, p.NoiseAmount*constant.NoiseLevel)
		a.bufferSource(v, noiseBuffer(), t, stop+constant.NoiseLifetimePad).Connect(level)
		level.Connect(env)
	}
}

func (a *assembler) gain(v *voice, value float64) node.GainNode {
	g := a.b.CreateGain()
	g.Gain().SetValue(value)
	v.track(g)
	return g
}

func (a *assembler) delay(v *voice, seconds float64) node.DelayNode {
	d := a.b.CreateDelay(constant.MaxDelaySeconds)
	d.DelayTime().SetValue(seconds)
	v.track(d)
	return d
}

// lfo is a sine oscillator running over [start, stop)
func (a *assembler) lfo(v *voice, rate, start, stop float64) node.OscillatorNode {
	osc := a.b.CreateOscillator()
	v.trackSource(osc)
	osc.SetType(parameter.WaveSine)
	osc.Frequency().SetValue(rate)
	osc.Start(start)
	osc.Stop(stop)
	return osc
}

func (a *assembler) bufferSource(v *voice, buf *node.Buffer, start, stop float64) node.BufferSourceNode {
	src := a.b.CreateBufferSource()
	v.trackSource(src)
	src.SetBuffer(buf)
	src.SetLoop(true)
	src.Start(start)
	src.Stop(stop)
	return src
}

func (a *assembler) noiseBuffer(kind parameter.NoiseType) *node.Buffer {
	sr := a.b.SampleRate()
	n := int(sr * constant.NoiseBufferSeconds)
	return &node.Buffer{
		SampleRate: sr,
		Channels:   [][]float64{dsp.Noise(kind, n, a.noise)},
	}
}

// automate schedules breakpoints onto a parameter
func automate(param node.AudioParam, events []dsp.Event) {
	for _, e := range events {
		switch e.Kind {
		case dsp.RampSet:
			param.SetValueAtTime(e.Value, e.Time)
		case dsp.RampLinear:
			param.LinearRampToValueAtTime(e.Value, e.Time)
		case dsp.RampExponential:
			param.ExponentialRampToValueAtTime(e.Value, e.Time)
		}
	}
}

// masterChain builds gain -> compressor -> destination and returns the gain
func masterChain(b node.Backend, volume float64) node.GainNode {
	master := b.CreateGain()
	master.Gain().SetValue(volume)
	comp := b.CreateCompressor()
	master.Connect(comp)
	comp.Connect(b.Destination())
	return master
}
