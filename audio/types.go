package audio

import (
	"errors"
	"fmt"
)

// BackendType identifies a CLI pipe backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// SinkKind selects the live output
type SinkKind string

const (
	SinkAuto    SinkKind = "auto"    // speaker, then pipe, then silent
	SinkSpeaker SinkKind = "speaker" // beep speaker
	SinkOto     SinkKind = "oto"
	SinkPipe    SinkKind = "pipe" // pacat, aplay and friends
	SinkDiscard SinkKind = "discard"
	SinkNone    SinkKind = "none"
)

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrNotInitialized = errors.New("audio engine not initialized")
	ErrRenderFailed   = errors.New("render failed")
	ErrExportTooLong  = errors.New("export exceeds maximum duration")
)

// RenderError records the stage at which an offline render failed
type RenderError struct {
	Stage string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrRenderFailed, e.Stage, e.Cause)
}

// Unwrap exposes both ErrRenderFailed and the cause to errors.Is
func (e *RenderError) Unwrap() []error {
	return []error{ErrRenderFailed, e.Cause}
}
