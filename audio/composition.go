package audio

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/node"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// SoundSource resolves the sounds composer tracks reference
type SoundSource interface {
	Sound(key string) (parameter.SoundParams, bool)
}

// SoundList is a SoundSource over a slice, matching id then name
type SoundList []parameter.SoundParams

func (l SoundList) Sound(key string) (parameter.SoundParams, bool) {
	for _, p := range l {
		if p.ID != "" && p.ID == key {
			return p, true
		}
	}
	for _, p := range l {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return parameter.SoundParams{}, false
}

// Cell is one active grid cell resolved to a playable note
type Cell struct {
	Step   int
	Track  int
	Time   float64
	Params parameter.SoundParams
	Volume float64
}

// StepCells resolves the active cells of one step. The cell note sets the
// frequency; unknown notes keep the sound's base frequency.
func StepCells(state parameter.CompositionState, sounds SoundSource, step int, t float64) []Cell {
	var cells []Cell
	for i, tr := range state.Tracks {
		if step < 0 || step >= parameter.CompositionLen || !tr.Steps[step] || !tr.HasSound() {
			continue
		}
		p, ok := sounds.Sound(*tr.SoundID)
		if !ok {
			continue
		}
		p = parameter.Sanitize(p)
		if freq, ok := parameter.NoteFrequency(tr.StepNotes[step]); ok {
			p.BaseFrequency = freq
		}
		cells = append(cells, Cell{Step: step, Track: i, Time: t, Params: p, Volume: tr.Volume})
	}
	return cells
}

// CompositionCells resolves every active cell of one cycle starting at start
func CompositionCells(state parameter.CompositionState, sounds SoundSource, start float64) []Cell {
	step := state.StepSeconds()
	var cells []Cell
	for s := 0; s < parameter.CompositionLen; s++ {
		cells = append(cells, StepCells(state, sounds, s, start+float64(s)*step)...)
	}
	return cells
}

// compositionRun steps the grid on the live clock. Tempo changes re-anchor
// the step grid at the next step.
type compositionRun struct {
	engine *Engine
	state  atomic.Pointer[parameter.CompositionState]
	sounds SoundSource
	onStep func(step int)

	mu         sync.Mutex
	task       node.Task
	anchor     float64 // time of step anchorStep
	anchorStep int64
	bpm        float64

	alive atomic.Bool
}

// PlayComposition loops the composer grid, replacing any running
// composition. onStep, when set, runs on the render goroutine close to each
// step becoming audible and must not block.
func (e *Engine) PlayComposition(state parameter.CompositionState, sounds SoundSource, onStep func(step int)) bool {
	if !e.IsEnabled() || sounds == nil {
		e.dropped.Add(1)
		return false
	}
	e.StopComposition()

	state = state.Sanitize()
	run := &compositionRun{engine: e, sounds: sounds, onStep: onStep, bpm: state.BPM}
	run.state.Store(&state)

	e.live.Lock()
	run.anchor = e.live.CurrentTime()
	e.live.Unlock()

	e.mu.Lock()
	e.composition = run
	e.mu.Unlock()

	run.alive.Store(true)
	run.schedule(0, run.anchor)
	e.logger.Debug("composition started", zap.Float64("bpm", state.BPM), zap.Int("tracks", len(state.Tracks)))
	return true
}

// UpdateComposition swaps the grid of the running composition
func (e *Engine) UpdateComposition(state parameter.CompositionState) {
	e.mu.Lock()
	run := e.composition
	e.mu.Unlock()
	if run == nil {
		return
	}
	state = state.Sanitize()
	run.state.Store(&state)
}

// StopComposition halts the running composition; ringing notes play out
func (e *Engine) StopComposition() {
	e.mu.Lock()
	run := e.composition
	e.composition = nil
	e.mu.Unlock()
	if run != nil {
		run.halt()
	}
}

func (r *compositionRun) halt() {
	if !r.alive.CompareAndSwap(true, false) {
		return
	}
	r.mu.Lock()
	if r.task != nil {
		r.task.Cancel()
	}
	r.mu.Unlock()
	r.engine.logger.Debug("composition stopped")
}

func (r *compositionRun) schedule(k int64, at float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive.Load() {
		return
	}
	r.task = r.engine.live.Schedule(at, func() { r.tick(k, at) })
}

func (r *compositionRun) tick(k int64, at float64) {
	if !r.alive.Load() {
		return
	}
	state := *r.state.Load()
	step := int(k % parameter.CompositionLen)

	e := r.engine
	e.live.Lock()
	if !e.muted.Load() {
		for _, c := range StepCells(state, r.sounds, step, at) {
			e.startVoiceLocked(e.asm.playNote(c.Params, c.Time, c.Params.BaseFrequency, c.Volume, e.master))
		}
	}
	if r.onStep != nil {
		e.live.Schedule(at+constant.LiveLookahead, func() {
			if r.alive.Load() {
				r.onStep(step)
			}
		})
	}
	e.live.Unlock()

	r.mu.Lock()
	if state.BPM != r.bpm {
		r.anchor, r.anchorStep, r.bpm = at, k, state.BPM
	}
	next := r.anchor + float64(k+1-r.anchorStep)*state.StepSeconds()
	r.mu.Unlock()

	r.schedule(k+1, next)
}
