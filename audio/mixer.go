package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sfx-forge/constant"
)

// Mixer pulls rendered frames on a fixed tick and writes them to an output
// pipe as interleaved stereo int16 LE
type Mixer struct {
	output         io.Writer
	source         FrameSource
	samplesPerTick int

	stopChan chan struct{}
	done     chan struct{}
	stopped  atomic.Bool
	muted    atomic.Bool

	// Stats
	statsMu sync.Mutex
	ticks   uint64
	limited uint64

	// Error signaling
	errChan chan error
}

// NewMixer creates a mixer writing src to out
func NewMixer(out io.Writer, src FrameSource, sampleRate int) *Mixer {
	return &Mixer{
		output:         out,
		source:         src,
		samplesPerTick: int(int64(sampleRate) * int64(constant.AudioBufferDuration) / int64(time.Second)),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
		errChan:        make(chan error, 1),
	}
}

// Start begins the output loop
func (m *Mixer) Start() {
	go m.loop()
}

// Stop signals the mixer to halt and waits briefly for the loop to exit
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
		select {
		case <-m.done:
		case <-time.After(constant.AudioDrainTimeout):
		}
	}
}

// SetMuted writes silence while still advancing the source clock
func (m *Mixer) SetMuted(muted bool) {
	m.muted.Store(muted)
}

// Errors returns channel for pipe errors
func (m *Mixer) Errors() <-chan error {
	return m.errChan
}

func (m *Mixer) loop() {
	defer close(m.done)

	ticker := time.NewTicker(constant.AudioBufferDuration)
	defer ticker.Stop()

	mixBuf := make([]float64, m.samplesPerTick)
	outBytes := make([]byte, m.samplesPerTick*constant.AudioBytesPerFrame)

	for {
		select {
		case <-m.stopChan:
			return

		case <-ticker.C:
			m.source.ReadFrames(mixBuf)
			if m.muted.Load() {
				clear(mixBuf)
			}
			limited := floatToBytes(mixBuf, outBytes)

			m.statsMu.Lock()
			m.ticks++
			m.limited += uint64(limited)
			m.statsMu.Unlock()

			if _, err := m.output.Write(outBytes); err != nil {
				select {
				case m.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
		}
	}
}

// floatToBytes converts float64 mono to interleaved stereo int16 LE bytes.
// Applies soft limiting before hard clip and returns the number of limited samples.
func floatToBytes(in []float64, out []byte) int {
	limited := 0
	for i, v := range in {
		// Soft limiter (tanh-style)
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
			limited++
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
			limited++
		}

		// Hard clip
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}

		i16 := int16(v * 32767)
		idx := i * 4
		binary.LittleEndian.PutUint16(out[idx:], uint16(i16))   // L
		binary.LittleEndian.PutUint16(out[idx+2:], uint16(i16)) // R
	}
	return limited
}

// GetStats returns written ticks and soft-limited sample counts
func (m *Mixer) GetStats() (ticks, limited uint64) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.ticks, m.limited
}
