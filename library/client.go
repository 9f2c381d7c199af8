package library

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// Client plays library sounds and seeded sounds on an engine, starting
// the engine on first use
type Client struct {
	engine  *audio.Engine
	library *Library
	logger  *zap.Logger
}

// NewClient wraps engine and lib; a nil lib starts empty
func NewClient(engine *audio.Engine, lib *Library, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lib == nil {
		lib = New(logger)
	}
	return &Client{engine: engine, library: lib, logger: logger}
}

// Library returns the sound collection played by the client
func (c *Client) Library() *Library { return c.library }

// Overrides adjust one trigger. Zero values keep the sound unchanged.
type Overrides struct {
	Volume          float64  // Local volume multiplier, 0 means 1
	Lowpass         *float64 // Filter cutoff in Hz, nil keeps the sound's, 0 removes the filter
	PitchMultiplier float64  // Base frequency multiplier, 0 means 1
}

// Cutoff returns a Lowpass override of hz
func Cutoff(hz float64) *float64 { return &hz }

func (o Overrides) apply(p parameter.SoundParams) (parameter.SoundParams, []audio.PlayOption) {
	volume := 1.0
	if o.Volume > 0 {
		volume = o.Volume
	}
	opts := []audio.PlayOption{audio.WithVolume(volume)}
	if o.Lowpass != nil {
		opts = append(opts, audio.WithCutoff(*o.Lowpass))
	}
	if o.PitchMultiplier > 0 && !math.IsInf(o.PitchMultiplier, 0) {
		p.BaseFrequency *= o.PitchMultiplier
	}
	return p, opts
}

// PlaySound triggers the sound registered under key. It returns false for
// unknown keys and when the engine drops the trigger.
func (c *Client) PlaySound(key string, o Overrides) bool {
	p, ok := c.library.Sound(key)
	if !ok {
		c.logger.Warn("sound not found", zap.String("key", key))
		return false
	}
	c.init()
	p, opts := o.apply(p)
	return c.engine.Play(p, opts...)
}

// PlaySeed triggers a sound generated from seed
func (c *Client) PlaySeed(seed uint32, o Overrides) bool {
	c.init()
	p, opts := o.apply(c.engine.GenerateParamsFromSeed(seed))
	return c.engine.Play(p, opts...)
}

// StopAll silences every voice on the engine
func (c *Client) StopAll() {
	c.engine.StopAll()
}

func (c *Client) init() {
	if err := c.engine.Init(); err != nil {
		c.logger.Debug("engine running silent", zap.Error(err))
	}
}
