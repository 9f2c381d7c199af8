package audio

import (
	"sync"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/node"
)

// impulseCache stores one reverb impulse response per sample rate.
// Buffers are shared across backends and never mutated.
type impulseCache struct {
	mu    sync.RWMutex
	store map[float64]*node.Buffer
}

var reverbCache = newImpulseCache()

func newImpulseCache() *impulseCache {
	return &impulseCache{store: make(map[float64]*node.Buffer)}
}

// get returns the cached impulse or generates it on demand
func (c *impulseCache) get(sampleRate float64) *node.Buffer {
	c.mu.RLock()
	if buf, ok := c.store[sampleRate]; ok {
		c.mu.RUnlock()
		return buf
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if buf, ok := c.store[sampleRate]; ok {
		return buf
	}

	rng := dsp.NewRand(constant.ReverbSeed)
	buf := &node.Buffer{
		SampleRate: sampleRate,
		Channels:   dsp.ImpulseResponse(sampleRate, constant.ReverbSeconds, constant.ReverbChannels, rng),
	}
	c.store[sampleRate] = buf
	return buf
}
