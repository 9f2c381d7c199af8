package audio

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/dsp"
	"github.com/lixenwraith/sfx-forge/node"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// RenderTail is the time rendered after the last note ends, covering the
// echo repeats when echo is on
func RenderTail(p parameter.SoundParams) float64 {
	tail := constant.RenderTailMargin
	if p.EchoAmount > 0 {
		tail += constant.EchoTailRepeats * p.EchoDelay
	}
	return tail
}

// ExportDuration is the offline render length of p in seconds
func ExportDuration(p parameter.SoundParams) float64 {
	return Span(p) + p.NoteDuration() + RenderTail(p)
}

// Renderer produces sounds faster than realtime on a private backend.
// Renders are deterministic: noise uses a fixed seed.
type Renderer struct {
	sampleRate int
	logger     *zap.Logger
}

// NewRenderer creates a renderer at sampleRate; nil logger discards
func NewRenderer(sampleRate int, logger *zap.Logger) *Renderer {
	if sampleRate <= 0 {
		sampleRate = constant.AudioSampleRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{sampleRate: sampleRate, logger: logger}
}

// SampleRate of rendered output
func (r *Renderer) SampleRate() int { return r.sampleRate }

// Render returns the mono samples of p, sanitized first
func (r *Renderer) Render(ctx context.Context, p parameter.SoundParams) ([]float64, error) {
	p = parameter.Sanitize(p)
	return r.render(ctx, "sound", ExportDuration(p), func(a *assembler, out node.Node) {
		a.playSequence(p, 0, 1, out)
	})
}

// ExportToWav renders p to a mono 16-bit WAV file
func (r *Renderer) ExportToWav(ctx context.Context, p parameter.SoundParams) ([]byte, error) {
	samples, err := r.Render(ctx, p)
	if err != nil {
		return nil, err
	}
	return EncodeWAV([][]float64{samples}, r.sampleRate), nil
}

// RenderComposition renders one cycle of the composer grid
func (r *Renderer) RenderComposition(ctx context.Context, state parameter.CompositionState, sounds SoundSource) ([]float64, error) {
	state = state.Sanitize()
	cells := CompositionCells(state, sounds, 0)

	// Cycle length, or longer if any cell rings past it
	duration := float64(parameter.CompositionLen) * state.StepSeconds()
	for _, c := range cells {
		duration = math.Max(duration, c.Time+c.Params.NoteDuration()+RenderTail(c.Params))
	}

	return r.render(ctx, "composition", duration, func(a *assembler, out node.Node) {
		for _, c := range cells {
			a.playNote(c.Params, c.Time, c.Params.BaseFrequency, c.Volume, out)
		}
	})
}

// ExportCompositionToWav renders one composer cycle to a mono 16-bit WAV file
func (r *Renderer) ExportCompositionToWav(ctx context.Context, state parameter.CompositionState, sounds SoundSource) ([]byte, error) {
	samples, err := r.RenderComposition(ctx, state, sounds)
	if err != nil {
		return nil, err
	}
	return EncodeWAV([][]float64{samples}, r.sampleRate), nil
}

func (r *Renderer) render(ctx context.Context, what string, duration float64, build func(a *assembler, out node.Node)) ([]float64, error) {
	if duration > constant.MaxExportSeconds {
		return nil, &RenderError{
			Stage: "plan",
			Cause: fmt.Errorf("%w: %.2fs > %.0fs", ErrExportTooLong, duration, constant.MaxExportSeconds),
		}
	}
	frames := int(math.Round(duration * float64(r.sampleRate)))
	began := time.Now()

	backend := node.NewContext(float64(r.sampleRate))
	backend.Lock()
	out := masterChain(backend, 1)
	build(newAssembler(backend, dsp.NewRand(constant.OfflineNoiseSeed)), out)
	backend.Unlock()

	samples, err := backend.Render(ctx, frames)
	if err != nil {
		return nil, &RenderError{Stage: "render", Cause: err}
	}

	r.logger.Debug("offline render complete",
		zap.String("kind", what),
		zap.Int("frames", frames),
		zap.Float64("seconds", duration),
		zap.Duration("elapsed", time.Since(began)),
	)
	return samples, nil
}
