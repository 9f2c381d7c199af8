package node

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/sfx-forge/constant"
)

// Compressor is a feed-forward peak compressor with a soft knee.
// There is no lookahead and no makeup gain.
type Compressor struct {
	base
	threshold, knee, ratio, attack, release *Param

	env       float64
	reduction atomic.Uint64 // float64 bits
}

func (c *Context) CreateCompressor() CompressorNode {
	cp := &Compressor{}
	cp.init(c, cp.process)
	cp.threshold = newParam(c, constant.CompressorThreshold, -100, 0)
	cp.knee = newParam(c, constant.CompressorKnee, 0, 40)
	cp.ratio = newParam(c, constant.CompressorRatio, 1, 20)
	cp.attack = newParam(c, constant.CompressorAttack, 0, 1)
	cp.release = newParam(c, constant.CompressorRelease, 0, 1)
	return cp
}

func (cp *Compressor) Threshold() AudioParam { return cp.threshold }
func (cp *Compressor) Knee() AudioParam      { return cp.knee }
func (cp *Compressor) Ratio() AudioParam     { return cp.ratio }
func (cp *Compressor) Attack() AudioParam    { return cp.attack }
func (cp *Compressor) Release() AudioParam   { return cp.release }

func (cp *Compressor) Reduction() float64 {
	return math.Float64frombits(cp.reduction.Load())
}

// gainDB is the static curve: output level change for input level x (dB)
func gainDB(x, threshold, knee, ratio float64) float64 {
	lower := threshold - knee/2
	switch {
	case x <= lower:
		return 0
	case knee > 0 && x < threshold+knee/2:
		d := x - lower
		return (1/ratio - 1) * d * d / (2 * knee)
	default:
		return (threshold + (x-threshold)/ratio) - x
	}
}

func coefficient(seconds, sampleRate float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * sampleRate))
}

func (cp *Compressor) process(blk int64, out []float64) {
	if !cp.sumInputs(blk, out) {
		return
	}
	sr := cp.ctx.sampleRate
	th := cp.threshold.blockValue(blk)
	kn := cp.knee.blockValue(blk)
	ra := cp.ratio.blockValue(blk)
	atk := coefficient(cp.attack.blockValue(blk), sr)
	rel := coefficient(cp.release.blockValue(blk), sr)

	var g float64
	for i, x := range out {
		level := math.Abs(x)
		if level > cp.env {
			cp.env = atk*cp.env + (1-atk)*level
		} else {
			cp.env = rel*cp.env + (1-rel)*level
		}
		if cp.env < 1e-9 {
			g = 0
			continue
		}
		g = gainDB(20*math.Log10(cp.env), th, kn, ra)
		out[i] = x * math.Pow(10, g/20)
	}
	cp.reduction.Store(math.Float64bits(g))
}
