package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/sfx-forge/constant"
)

// The beep speaker owns a process-wide device
var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate int
)

// speakerSink plays through the beep speaker
type speakerSink struct {
	mu          sync.Mutex
	volume      *effects.Volume
	initialized bool
}

func newSpeakerSink() *speakerSink {
	return &speakerSink{}
}

func (s *speakerSink) Name() string { return string(SinkSpeaker) }

// Start initializes the speaker once per process and begins streaming src
func (s *speakerSink) Start(src FrameSource, sampleRate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	speakerOnce.Do(func() {
		rate := beep.SampleRate(sampleRate)
		speakerErr = speaker.Init(rate, rate.N(constant.SpeakerBufferDuration))
		speakerRate = sampleRate
	})
	if speakerErr != nil {
		return fmt.Errorf("%w: %v", ErrNoAudioBackend, speakerErr)
	}
	if speakerRate != sampleRate {
		return fmt.Errorf("%w: speaker already running at %d Hz", ErrNoAudioBackend, speakerRate)
	}

	s.volume = newVolume(&frameStreamer{source: src}, 1)
	speaker.Play(s.volume)
	s.initialized = true
	return nil
}

func (s *speakerSink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.volume.Silent = muted
	speaker.Unlock()
}

// Close detaches the stream; beep has no speaker shutdown, clearing the
// streamers leaves the device idle
func (s *speakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.initialized = false
}

// newVolume wraps a streamer with a linear volume (0 = silent)
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// frameStreamer adapts a mono FrameSource to a stereo beep.Streamer
type frameStreamer struct {
	source FrameSource
	buf    []float64
}

func (f *frameStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if cap(f.buf) < len(samples) {
		f.buf = make([]float64, len(samples))
	}
	buf := f.buf[:len(samples)]
	f.source.ReadFrames(buf)
	for i, v := range buf {
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (f *frameStreamer) Err() error { return nil }
