// Package node defines the audio graph capabilities synthesis is built on
// and provides a software implementation that renders in realtime for live
// sinks and faster than realtime for offline export.
package node

import (
	"sync"

	"github.com/lixenwraith/sfx-forge/parameter"
)

// Node is a graph vertex producing one mono signal
type Node interface {
	// Connect routes this node's output into dst's input
	Connect(dst Node)
	// ConnectParam adds this node's output to dst's computed value
	ConnectParam(dst AudioParam)
	// Disconnect removes every outgoing connection
	Disconnect()
}

// AudioParam is an automatable node parameter
type AudioParam interface {
	Value() float64
	SetValue(v float64)
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	ExponentialRampToValueAtTime(v, t float64)
}

// ScheduledSource produces output only between Start and Stop
type ScheduledSource interface {
	Node
	Start(t float64)
	Stop(t float64)
	Ended() bool
}

type OscillatorNode interface {
	ScheduledSource
	SetType(w parameter.Waveform)
	Frequency() AudioParam
}

type BufferSourceNode interface {
	ScheduledSource
	SetBuffer(b *Buffer)
	SetLoop(loop bool)
}

type GainNode interface {
	Node
	Gain() AudioParam
}

type WaveShaperNode interface {
	Node
	SetCurve(curve []float64)
}

type FilterNode interface {
	Node
	SetType(t parameter.FilterType)
	Frequency() AudioParam
	Q() AudioParam
}

type DelayNode interface {
	Node
	DelayTime() AudioParam
}

type ConvolverNode interface {
	Node
	SetBuffer(b *Buffer)
}

type CompressorNode interface {
	Node
	Threshold() AudioParam
	Knee() AudioParam
	Ratio() AudioParam
	Attack() AudioParam
	Release() AudioParam
	// Reduction is the most recent gain reduction in dB (<= 0)
	Reduction() float64
}

// Task is a pending callback on the backend clock
type Task interface {
	Cancel()
}

// Backend is the capability set the graph assembler needs. Graph mutation
// must happen while holding the backend's lock.
type Backend interface {
	sync.Locker

	SampleRate() float64
	CurrentTime() float64
	Destination() Node

	CreateBuffer(channels, length int) *Buffer
	CreateGain() GainNode
	CreateOscillator() OscillatorNode
	CreateBufferSource() BufferSourceNode
	CreateWaveShaper() WaveShaperNode
	CreateFilter() FilterNode
	CreateDelay(maxDelay float64) DelayNode
	CreateConvolver() ConvolverNode
	CreateCompressor() CompressorNode

	// Schedule runs fn on the render goroutine shortly before the clock reaches at.
	// fn runs without the backend lock held.
	Schedule(at float64, fn func()) Task
}

// Buffer holds planar sample data
type Buffer struct {
	SampleRate float64
	Channels   [][]float64
}

// NewBuffer allocates a zeroed buffer
func NewBuffer(channels, length int, sampleRate float64) *Buffer {
	b := &Buffer{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for i := range b.Channels {
		b.Channels[i] = make([]float64, length)
	}
	return b
}

// Len is the frame count
func (b *Buffer) Len() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}
