package audio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/node"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// Engine plays sounds live on a realtime sink and exports them offline.
// Without an output device it runs silent: playback calls return false and
// nothing is scheduled, exports still work.
type Engine struct {
	config   *Config
	logger   *zap.Logger
	renderer *Renderer

	mu          sync.Mutex // Protects lifecycle, loops and composition
	live        *node.Context
	master      node.GainNode
	asm         *assembler
	sink        Sink
	analyser    *Analyser
	loops       map[*Loop]struct{}
	composition *compositionRun

	// Guarded by the live backend lock
	voices map[*voice]struct{}

	initialized atomic.Bool
	silentMode  atomic.Bool
	muted       atomic.Bool

	played  atomic.Uint64
	dropped atomic.Uint64

	stopMonitor chan struct{}
	wg          sync.WaitGroup
}

// NewEngine creates an engine; nil config uses defaults, nil logger discards
func NewEngine(cfg *Config, logger *zap.Logger) *Engine {
	config := DefaultConfig()
	if cfg != nil {
		config = cfg
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		config:   config,
		logger:   logger,
		renderer: NewRenderer(config.SampleRate, logger),
	}
	return e
}

// Init builds the live graph and opens the output. Repeated calls are
// no-ops. On failure the engine enters silent mode and the error is
// returned for reporting only.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized.Load() {
		return nil
	}

	sr := e.renderer.SampleRate()
	live := node.NewContext(float64(sr))
	live.SetLookahead(constant.LiveLookahead)
	live.Lock()
	e.master = masterChain(live, clampUnit(e.config.MasterVolume))
	e.asm = newAssembler(live, dsp.NewRand(uint32(time.Now().UnixNano())))
	live.Unlock()

	e.live = live
	e.analyser = NewAnalyser(sr)
	e.voices = make(map[*voice]struct{})
	e.loops = make(map[*Loop]struct{})
	e.silentMode.Store(false)

	if !e.config.Enabled {
		e.silentMode.Store(true)
		e.initialized.Store(true)
		e.logger.Info("audio disabled, running silent")
		return nil
	}

	sink, err := openSink(e.config, &tap{source: live, analyser: e.analyser}, e.logger)
	if err != nil {
		e.silentMode.Store(true)
		e.initialized.Store(true)
		e.logger.Warn("no audio output, running silent", zap.Error(err))
		return err
	}
	e.sink = sink
	sink.SetMuted(e.muted.Load())

	if f, ok := sink.(failingSink); ok {
		e.stopMonitor = make(chan struct{})
		e.wg.Add(1)
		go e.monitorSink(f, e.stopMonitor)
	}

	e.initialized.Store(true)
	e.logger.Info("audio engine started",
		zap.String("sink", sink.Name()),
		zap.Int("sample_rate", sr),
	)
	return nil
}

// monitorSink degrades to silent mode when the sink fails
func (e *Engine) monitorSink(f failingSink, stop <-chan struct{}) {
	defer e.wg.Done()

	select {
	case err := <-f.Errors():
		e.silentMode.Store(true)
		e.logger.Warn("audio output failed, running silent", zap.Error(err))
	case <-stop:
	}
}

// Shutdown stops all playback and closes the output
func (e *Engine) Shutdown() {
	if !e.initialized.Load() {
		return
	}
	e.StopAll()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized.CompareAndSwap(true, false) {
		return
	}

	if e.stopMonitor != nil {
		close(e.stopMonitor)
		e.stopMonitor = nil
	}
	if e.sink != nil {
		e.sink.Close()
		e.sink = nil
	}
	e.wg.Wait()
	e.logger.Info("audio engine stopped")
}

// PlayOption adjusts a single playback
type PlayOption func(*playOptions)

type playOptions struct {
	offset    float64
	frequency float64
	volume    float64
	cutoff    float64
	hasCutoff bool
}

// WithOffset delays the start by seconds from now
func WithOffset(seconds float64) PlayOption {
	return func(o *playOptions) { o.offset = max(0, seconds) }
}

// WithFrequency replaces the base frequency
func WithFrequency(hz float64) PlayOption {
	return func(o *playOptions) { o.frequency = hz }
}

// WithVolume scales the voice output (1 = unchanged)
func WithVolume(v float64) PlayOption {
	return func(o *playOptions) { o.volume = max(0, v) }
}

// WithCutoff replaces the filter cutoff; 0 removes the filter
func WithCutoff(hz float64) PlayOption {
	return func(o *playOptions) { o.cutoff, o.hasCutoff = hz, true }
}

func newPlayOptions(opts []PlayOption) playOptions {
	o := playOptions{volume: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Resolve returns p as Play would play it with opts
func Resolve(p parameter.SoundParams, opts ...PlayOption) parameter.SoundParams {
	return newPlayOptions(opts).apply(p)
}

// apply folds overrides into p and sanitizes the result
func (o playOptions) apply(p parameter.SoundParams) parameter.SoundParams {
	p = p.Clone()
	if o.frequency > 0 {
		p.BaseFrequency = o.frequency
	}
	if o.hasCutoff {
		p.FilterCutoff = o.cutoff
	}
	return parameter.Sanitize(p)
}

// Play schedules one playback of p. It returns false when nothing was
// scheduled: before Init, in silent mode, or while muted.
func (e *Engine) Play(p parameter.SoundParams, opts ...PlayOption) bool {
	if !e.IsEnabled() {
		e.dropped.Add(1)
		e.logger.Debug("playback dropped", zap.String("sound", p.Name))
		return false
	}

	o := newPlayOptions(opts)
	p = o.apply(p)

	e.live.Lock()
	t0 := e.live.CurrentTime() + o.offset
	e.startVoiceLocked(e.asm.playSequence(p, t0, o.volume, e.master))
	e.live.Unlock()
	return true
}

// startVoiceLocked tracks v and schedules its teardown.
// Caller holds the live backend lock.
func (e *Engine) startVoiceLocked(v *voice) {
	e.voices[v] = struct{}{}
	e.played.Add(1)
	// Tasks fire a lookahead early
	v.task = e.live.Schedule(v.end+constant.LiveLookahead, func() {
		e.live.Lock()
		if _, ok := e.voices[v]; ok {
			v.release()
			delete(e.voices, v)
		}
		e.live.Unlock()
	})
}

// StopAll halts loops and the composition and silences every voice
func (e *Engine) StopAll() {
	if !e.initialized.Load() {
		return
	}

	e.mu.Lock()
	loops := e.loops
	e.loops = make(map[*Loop]struct{})
	run := e.composition
	e.composition = nil
	e.mu.Unlock()

	for l := range loops {
		l.halt()
	}
	if run != nil {
		run.halt()
	}

	e.live.Lock()
	for v := range e.voices {
		if v.task != nil {
			v.task.Cancel()
		}
		v.release()
	}
	clear(e.voices)
	e.live.Unlock()
}

// GenerateParamsFromSeed derives a deterministic random sound
func (e *Engine) GenerateParamsFromSeed(seed uint32) parameter.SoundParams {
	return ParamsFromSeed(seed)
}

// Render returns the offline mono samples of p
func (e *Engine) Render(ctx context.Context, p parameter.SoundParams) ([]float64, error) {
	return e.renderer.Render(ctx, p)
}

// ExportToWav renders p offline to a WAV file
func (e *Engine) ExportToWav(ctx context.Context, p parameter.SoundParams) ([]byte, error) {
	return e.renderer.ExportToWav(ctx, p)
}

// ExportCompositionToWav renders one composer cycle offline to a WAV file
func (e *Engine) ExportCompositionToWav(ctx context.Context, state parameter.CompositionState, sounds SoundSource) ([]byte, error) {
	return e.renderer.ExportCompositionToWav(ctx, state, sounds)
}

// ToggleMute toggles mute state, returns true if now enabled
func (e *Engine) ToggleMute() bool {
	e.SetMuted(!e.muted.Load())
	return !e.muted.Load()
}

// SetMuted silences the output without stopping the clock
func (e *Engine) SetMuted(muted bool) {
	e.muted.Store(muted)
	e.mu.Lock()
	if e.sink != nil {
		e.sink.SetMuted(muted)
	}
	e.mu.Unlock()
}

// IsMuted returns current mute state
func (e *Engine) IsMuted() bool {
	return e.muted.Load()
}

// IsEnabled returns true if initialized with a working output and unmuted
func (e *Engine) IsEnabled() bool {
	return e.initialized.Load() && !e.muted.Load() && !e.silentMode.Load()
}

// IsSilent reports whether the engine degraded to silent mode
func (e *Engine) IsSilent() bool {
	return e.silentMode.Load()
}

// SetVolume updates master volume (0.0-1.0)
func (e *Engine) SetVolume(vol float64) {
	vol = clampUnit(vol)

	e.mu.Lock()
	e.config.MasterVolume = vol
	live, master := e.live, e.master
	e.mu.Unlock()

	if live != nil {
		live.Lock()
		master.Gain().SetValue(vol)
		live.Unlock()
	}
}

// Analyser exposes metering of the live output; nil before Init
func (e *Engine) Analyser() *Analyser {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analyser
}

// SampleRate of live and offline output
func (e *Engine) SampleRate() int {
	return e.renderer.SampleRate()
}

// Stats reports playback counts and currently tracked voices
type Stats struct {
	Played  uint64
	Dropped uint64
	Voices  int
	Loops   int
}

// GetStats returns played, dropped and active counts
func (e *Engine) GetStats() Stats {
	s := Stats{Played: e.played.Load(), Dropped: e.dropped.Load()}
	if !e.initialized.Load() {
		return s
	}
	e.mu.Lock()
	s.Loops = len(e.loops)
	e.mu.Unlock()
	e.live.Lock()
	s.Voices = len(e.voices)
	e.live.Unlock()
	return s
}

// tap feeds rendered frames to the analyser on their way to the sink
type tap struct {
	source   *node.Context
	analyser *Analyser
}

func (t *tap) ReadFrames(dst []float64) {
	t.source.ReadFrames(dst)
	t.analyser.Write(dst)
}
