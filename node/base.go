package node

import (
	"github.com/lixenwraith/sfx-forge/constant"
)

const quantum = constant.RenderQuantum

// base carries connections and the per-block output cache shared by all nodes
type base struct {
	ctx     *Context
	inputs  []*base
	outputs []*base
	params  []*Param
	memo    int64
	buf     []float64
	proc    func(blk int64, out []float64)
}

type coreNode interface {
	core() *base
}

func (b *base) core() *base { return b }

func (b *base) init(c *Context, proc func(blk int64, out []float64)) {
	b.ctx = c
	b.memo = -1
	b.buf = make([]float64, quantum)
	b.proc = proc
}

func (c *Context) coreOf(n any) *base {
	cn, ok := n.(coreNode)
	if !ok || cn.core().ctx != c {
		panic("node: connection across backends")
	}
	return cn.core()
}

// Connect routes b's output into dst; duplicate connections are ignored
func (b *base) Connect(dst Node) {
	d := b.ctx.coreOf(dst)
	for _, in := range d.inputs {
		if in == b {
			return
		}
	}
	d.inputs = append(d.inputs, b)
	b.outputs = append(b.outputs, d)
}

// ConnectParam adds b's output to dst's value
func (b *base) ConnectParam(dst AudioParam) {
	p, ok := dst.(*Param)
	if !ok || p.ctx != b.ctx {
		panic("node: param connection across backends")
	}
	for _, m := range p.mods {
		if m == b {
			return
		}
	}
	p.mods = append(p.mods, b)
	b.params = append(b.params, p)
}

// Disconnect removes every outgoing connection of b
func (b *base) Disconnect() {
	for _, d := range b.outputs {
		d.inputs = remove(d.inputs, b)
	}
	for _, p := range b.params {
		p.mods = remove(p.mods, b)
	}
	b.outputs = nil
	b.params = nil
}

func remove[T comparable](list []T, v T) []T {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	clear(list[len(out):])
	return out
}

// output renders the node once per block and caches the result.
// Re-entry within a block (a cycle without a delay) sees the partial buffer.
func (b *base) output(blk int64) []float64 {
	if b.memo == blk {
		return b.buf
	}
	b.memo = blk
	clear(b.buf)
	b.proc(blk, b.buf)
	return b.buf
}

// sumInputs mixes all inputs into out and reports whether anything is connected
func (b *base) sumInputs(blk int64, out []float64) bool {
	for _, in := range b.inputs {
		src := in.output(blk)
		for i, v := range src {
			out[i] += v
		}
	}
	return len(b.inputs) > 0
}
