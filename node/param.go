package node

import (
	"math"

	"github.com/lixenwraith/sfx-forge/dsp"
)

// Param is an a-rate automatable value. Its computed value per frame is the
// automation schedule plus the sum of connected modulator outputs, clamped
// to the nominal range.
type Param struct {
	ctx      *Context
	auto     dsp.Automation
	mods     []*base
	min, max float64
	memo     int64
	buf      []float64
}

func newParam(c *Context, def, min, max float64) *Param {
	return &Param{
		ctx:  c,
		auto: dsp.Automation{Default: def},
		min:  min,
		max:  max,
		memo: -1,
		buf:  make([]float64, quantum),
	}
}

// Value returns the scheduled value at the current backend time
func (p *Param) Value() float64 {
	return p.auto.ValueAt(p.ctx.CurrentTime())
}

// SetValue changes the intrinsic value, or schedules it now when automation exists
func (p *Param) SetValue(v float64) {
	if p.auto.Len() == 0 {
		p.auto.Default = v
		return
	}
	p.SetValueAtTime(v, p.ctx.CurrentTime())
}

// snap moves t onto the frame grid sources start on, so an event and a
// source scheduled for the same time take effect on the same frame
func (p *Param) snap(t float64) float64 {
	return float64(p.ctx.frameAt(t)) / p.ctx.sampleRate
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.auto.Add(dsp.Event{Kind: dsp.RampSet, Time: p.snap(t), Value: v})
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.auto.Add(dsp.Event{Kind: dsp.RampLinear, Time: p.snap(t), Value: v})
}

func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.auto.Add(dsp.Event{Kind: dsp.RampExponential, Time: p.snap(t), Value: v})
}

// values returns the computed value for every frame of blk
func (p *Param) values(blk int64) []float64 {
	if p.memo == blk {
		return p.buf
	}
	p.memo = blk

	if p.auto.Len() == 0 {
		v := p.auto.Default
		for i := range p.buf {
			p.buf[i] = v
		}
	} else {
		sr := p.ctx.sampleRate
		f0 := blk * quantum
		for i := range p.buf {
			p.buf[i] = p.auto.ValueAt(float64(f0+int64(i)) / sr)
		}
	}

	for _, m := range p.mods {
		src := m.output(blk)
		for i, v := range src {
			p.buf[i] += v
		}
	}

	for i, v := range p.buf {
		if v < p.min {
			p.buf[i] = p.min
		} else if v > p.max {
			p.buf[i] = p.max
		}
	}
	return p.buf
}

// blockValue is the k-rate value at the first frame of blk
func (p *Param) blockValue(blk int64) float64 {
	return p.values(blk)[0]
}

var unbounded = math.Inf(1)
