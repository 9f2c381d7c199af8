package audio

import (
	"fmt"

	"go.uber.org/zap"
)

// FrameSource renders consecutive mono frames on demand
type FrameSource interface {
	ReadFrames(dst []float64)
}

// Sink drives a FrameSource at realtime pace
type Sink interface {
	Name() string
	Start(src FrameSource, sampleRate int) error
	SetMuted(muted bool)
	Close()
}

// failingSink reports asynchronous output failures
type failingSink interface {
	Errors() <-chan error
}

// openSink starts the sink selected by cfg. Auto tries the beep speaker,
// then a CLI pipe player.
func openSink(cfg *Config, src FrameSource, logger *zap.Logger) (Sink, error) {
	if cfg.Sink != nil {
		return cfg.Sink, cfg.Sink.Start(src, cfg.SampleRate)
	}

	var candidates []func() (Sink, error)
	speakerSink := func() (Sink, error) { return newSpeakerSink(), nil }
	pipe := func() (Sink, error) {
		backend, err := DetectBackend(cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		return newPipeSink(backend), nil
	}

	switch cfg.Backend {
	case SinkSpeaker:
		candidates = append(candidates, speakerSink)
	case SinkOto:
		candidates = append(candidates, func() (Sink, error) { return newOtoSink(), nil })
	case SinkPipe:
		candidates = append(candidates, pipe)
	case SinkDiscard:
		candidates = append(candidates, func() (Sink, error) { return newPipeSink(nil), nil })
	case SinkNone:
		return nil, ErrNoAudioBackend
	default:
		candidates = append(candidates, speakerSink, pipe)
	}

	var lastErr error = ErrNoAudioBackend
	for _, open := range candidates {
		sink, err := open()
		if err == nil {
			err = sink.Start(src, cfg.SampleRate)
		}
		if err == nil {
			return sink, nil
		}
		logger.Debug("audio sink unavailable", zap.Error(err))
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, lastErr)
}
