package node

import (
	"math"

	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// schedule tracks the active frame window [start, stop) of a source
type schedule struct {
	clock *Context
	start int64
	stop  int64
}

func (s *schedule) reset(c *Context) {
	s.clock = c
	s.start = math.MaxInt64
	s.stop = math.MaxInt64
}

func (s *schedule) Start(t float64) { s.start = s.clock.frameAt(t) }
func (s *schedule) Stop(t float64)  { s.stop = s.clock.frameAt(t) }

// Ended reports whether the clock has passed the stop frame
func (s *schedule) Ended() bool {
	return s.stop != math.MaxInt64 && s.clock.frames.Load() >= s.stop
}

// silent reports whether the block lies entirely outside the active window
func (s *schedule) silent(blk int64) bool {
	f0 := blk * quantum
	return f0+quantum <= s.start || f0 >= s.stop || s.start >= s.stop
}

// Oscillator generates a periodic waveform, naive (not band-limited)
type Oscillator struct {
	base
	schedule
	wave      parameter.Waveform
	frequency *Param
	phase     float64
}

func (c *Context) CreateOscillator() OscillatorNode {
	o := &Oscillator{wave: parameter.WaveSine}
	o.init(c, o.process)
	o.schedule.reset(c)
	nyquist := c.sampleRate / 2
	o.frequency = newParam(c, 440, -nyquist, nyquist)
	return o
}

func (o *Oscillator) SetType(w parameter.Waveform) { o.wave = w }
func (o *Oscillator) Frequency() AudioParam        { return o.frequency }

func (o *Oscillator) process(blk int64, out []float64) {
	if o.silent(blk) {
		return
	}
	freq := o.frequency.values(blk)
	sr := o.ctx.sampleRate
	f0 := blk * quantum
	for i := range out {
		f := f0 + int64(i)
		if f < o.start || f >= o.stop {
			continue
		}
		out[i] = dsp.Wave(o.wave, o.phase)
		o.phase = dsp.Advance(o.phase, freq[i], sr)
	}
}

// BufferSource plays a buffer's first channel, optionally looping
type BufferSource struct {
	base
	schedule
	buffer *Buffer
	loop   bool
	pos    int
}

func (c *Context) CreateBufferSource() BufferSourceNode {
	b := &BufferSource{}
	b.init(c, b.process)
	b.schedule.reset(c)
	return b
}

func (b *BufferSource) SetBuffer(buf *Buffer) { b.buffer = buf }
func (b *BufferSource) SetLoop(loop bool)     { b.loop = loop }

func (b *BufferSource) process(blk int64, out []float64) {
	if b.silent(blk) || b.buffer.Len() == 0 {
		return
	}
	data := b.buffer.Channels[0]
	f0 := blk * quantum
	for i := range out {
		f := f0 + int64(i)
		if f < b.start || f >= b.stop {
			continue
		}
		if b.pos >= len(data) {
			if !b.loop {
				return
			}
			b.pos = 0
		}
		out[i] = data[b.pos]
		b.pos++
	}
}
