package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/lixenwraith/sfx-forge/constant"
)

// oto allows one context per process
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
)

// otoSink plays mono float32 frames through an oto player
type otoSink struct {
	player *oto.Player
	muted  atomic.Bool
}

func newOtoSink() *otoSink {
	return &otoSink{}
}

func (s *otoSink) Name() string { return string(SinkOto) }

func (s *otoSink) Start(src FrameSource, sampleRate int) error {
	if s.player != nil {
		return nil
	}

	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: constant.ExportChannels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   constant.AudioBufferDuration,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
		otoRate = sampleRate
	})
	if otoErr != nil {
		return fmt.Errorf("%w: %v", ErrNoAudioBackend, otoErr)
	}
	if otoRate != sampleRate {
		return fmt.Errorf("%w: oto already running at %d Hz", ErrNoAudioBackend, otoRate)
	}

	s.player = otoCtx.NewPlayer(&frameReader{source: src, muted: &s.muted})
	s.player.Play()
	return nil
}

func (s *otoSink) SetMuted(muted bool) { s.muted.Store(muted) }

func (s *otoSink) Close() {
	if s.player == nil {
		return
	}
	s.player.Pause()
	s.player.Close()
	s.player = nil
}

// frameReader encodes frames as float32 LE for the oto player
type frameReader struct {
	source FrameSource
	muted  *atomic.Bool
	buf    []float64
}

func (r *frameReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(r.buf) < n {
		r.buf = make([]float64, n)
	}
	buf := r.buf[:n]
	r.source.ReadFrames(buf)
	silent := r.muted.Load()
	for i, v := range buf {
		if silent {
			v = 0
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(float32(v)))
	}
	return n * 4, nil
}
