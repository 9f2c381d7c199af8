package node

import (
	"math"

	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// Gain multiplies its mixed input by an a-rate gain
type Gain struct {
	base
	gain *Param
}

func (c *Context) newGain() *Gain {
	g := &Gain{}
	g.init(c, g.process)
	g.gain = newParam(c, 1, -unbounded, unbounded)
	return g
}

func (c *Context) CreateGain() GainNode { return c.newGain() }

func (g *Gain) Gain() AudioParam { return g.gain }

func (g *Gain) process(blk int64, out []float64) {
	if !g.sumInputs(blk, out) {
		return
	}
	gain := g.gain.values(blk)
	for i := range out {
		out[i] *= gain[i]
	}
}

// WaveShaper maps its input through a transfer curve
type WaveShaper struct {
	base
	curve []float64
}

func (c *Context) CreateWaveShaper() WaveShaperNode {
	w := &WaveShaper{}
	w.init(c, w.process)
	return w
}

// SetCurve installs the transfer table; nil passes input through
func (w *WaveShaper) SetCurve(curve []float64) { w.curve = curve }

func (w *WaveShaper) process(blk int64, out []float64) {
	w.sumInputs(blk, out)
	if w.curve == nil {
		return
	}
	for i, x := range out {
		out[i] = dsp.Shape(w.curve, x)
	}
}

// Filter is a biquad with k-rate frequency and Q
type Filter struct {
	base
	kind      parameter.FilterType
	frequency *Param
	q         *Param
	bq        dsp.Biquad

	designed        bool
	lastFreq, lastQ float64
	lastKind        parameter.FilterType
}

func (c *Context) CreateFilter() FilterNode {
	f := &Filter{kind: parameter.FilterLowpass}
	f.init(c, f.process)
	f.frequency = newParam(c, 350, 0, c.sampleRate/2)
	f.q = newParam(c, 1, 0.0001, 1000)
	return f
}

func (f *Filter) SetType(t parameter.FilterType) { f.kind = t }
func (f *Filter) Frequency() AudioParam          { return f.frequency }
func (f *Filter) Q() AudioParam                  { return f.q }

func (f *Filter) process(blk int64, out []float64) {
	f.sumInputs(blk, out)
	freq, q := f.frequency.blockValue(blk), f.q.blockValue(blk)
	if !f.designed || freq != f.lastFreq || q != f.lastQ || f.kind != f.lastKind {
		f.bq.Design(f.kind, freq, q, f.ctx.sampleRate)
		f.designed = true
		f.lastFreq, f.lastQ, f.lastKind = freq, q, f.kind
	}
	for i, x := range out {
		out[i] = f.bq.Process(x)
	}
}

// Delay outputs its input delayed by at least one render quantum, which
// makes it legal inside feedback cycles
type Delay struct {
	base
	delayTime *Param
	ring      []float64
	in        []float64
	w         int
	maxFrames int
}

func (c *Context) CreateDelay(maxDelay float64) DelayNode {
	maxFrames := int(math.Ceil(maxDelay * c.sampleRate))
	if maxFrames < quantum {
		maxFrames = quantum
	}
	d := &Delay{
		ring:      make([]float64, maxFrames+quantum),
		in:        make([]float64, quantum),
		maxFrames: maxFrames,
	}
	d.init(c, d.process)
	d.delayTime = newParam(c, 0, 0, maxDelay)
	return d
}

func (d *Delay) DelayTime() AudioParam { return d.delayTime }

func (d *Delay) frames(blk int64) int {
	n := int(math.Round(d.delayTime.blockValue(blk) * d.ctx.sampleRate))
	return max(quantum, min(n, d.maxFrames))
}

func (d *Delay) process(blk int64, out []float64) {
	d.ctx.pending = append(d.ctx.pending, d)
	delay := d.frames(blk)
	n := len(d.ring)
	for i := range out {
		out[i] = d.ring[((d.w+i-delay)%n+n)%n]
	}
}

// commit pulls this block's input into the ring after the graph has rendered
func (d *Delay) commit(blk int64) {
	clear(d.in)
	d.sumInputs(blk, d.in)
	n := len(d.ring)
	for i, v := range d.in {
		d.ring[(d.w+i)%n] = v
	}
	d.w = (d.w + quantum) % n
}
