package audio

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/node"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// LoopInterval is the nominal cycle length: steps x step duration.
// Ping-pong and loop counts do not lengthen it.
func LoopInterval(p parameter.SoundParams) float64 {
	return float64(max(1, p.SequenceSteps)) * p.StepDuration()
}

// Loop replays a sound every interval until stopped. Iteration k starts at
// start + k*interval on the backend clock, so scheduling jitter never
// accumulates.
type Loop struct {
	engine   *Engine
	params   parameter.SoundParams
	opts     playOptions
	interval float64
	start    float64

	mu    sync.Mutex
	task  node.Task
	alive atomic.Bool

	iterations atomic.Int64
}

// PlayContinuous starts looping p. Each iteration plays the sequence once
// whatever the stored playback mode. The returned loop is inactive when the
// engine cannot play.
func (e *Engine) PlayContinuous(p parameter.SoundParams, opts ...PlayOption) *Loop {
	o := newPlayOptions(opts)
	p = o.apply(p)
	p.PlaybackMode = parameter.PlayOnce
	p.LoopCount = 1
	l := &Loop{engine: e, params: p, opts: o, interval: LoopInterval(p)}

	if !e.IsEnabled() {
		e.dropped.Add(1)
		return l
	}

	e.mu.Lock()
	e.loops[l] = struct{}{}
	e.mu.Unlock()

	e.live.Lock()
	l.start = e.live.CurrentTime() + o.offset
	e.live.Unlock()

	l.alive.Store(true)
	l.schedule(0)
	e.logger.Debug("loop started", zap.String("sound", p.Name), zap.Float64("interval", l.interval))
	return l
}

// Stop halts l; audio already scheduled for the current iteration plays out
func (e *Engine) Stop(l *Loop) {
	if l == nil {
		return
	}
	l.halt()
	e.mu.Lock()
	delete(e.loops, l)
	e.mu.Unlock()
}

// Stop halts the loop, see Engine.Stop
func (l *Loop) Stop() {
	l.engine.Stop(l)
}

// Active reports whether further iterations are pending
func (l *Loop) Active() bool { return l.alive.Load() }

// Iterations counts cycles scheduled so far
func (l *Loop) Iterations() int64 { return l.iterations.Load() }

// Interval is the cycle length in seconds
func (l *Loop) Interval() float64 { return l.interval }

func (l *Loop) halt() {
	if !l.alive.CompareAndSwap(true, false) {
		return
	}
	l.mu.Lock()
	if l.task != nil {
		l.task.Cancel()
	}
	l.mu.Unlock()
	l.engine.logger.Debug("loop stopped", zap.String("sound", l.params.Name), zap.Int64("iterations", l.iterations.Load()))
}

func (l *Loop) schedule(k int64) {
	at := l.start + float64(k)*l.interval

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive.Load() {
		return
	}
	l.task = l.engine.live.Schedule(at, func() { l.iterate(k, at) })
}

func (l *Loop) iterate(k int64, at float64) {
	if !l.alive.Load() {
		return
	}

	e := l.engine
	e.live.Lock()
	// Muted iterations are skipped but keep the grid
	if !e.muted.Load() {
		e.startVoiceLocked(e.asm.playSequence(l.params, at, l.opts.volume, e.master))
	}
	e.live.Unlock()

	l.iterations.Add(1)
	l.schedule(k + 1)
}
