package audio

import (
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/sfx-forge/constant"
)

// Environment variables read by LoadConfig
const (
	EnvAudioEnabled = "SFX_FORGE_AUDIO_ENABLED"
	EnvMasterVolume = "SFX_FORGE_MASTER_VOLUME" // 0-100
	EnvSampleRate   = "SFX_FORGE_SAMPLE_RATE"
	EnvBackend      = "SFX_FORGE_BACKEND"
	EnvLogLevel     = "SFX_FORGE_LOG_LEVEL"
)

// Config holds engine settings
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	Backend      SinkKind
	LogLevel     string

	// Sink overrides Backend when set
	Sink Sink
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   constant.AudioSampleRate,
		Backend:      SinkAuto,
		LogLevel:     "info",
	}
}

// LoadConfig loads configuration from environment variables over defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if val, err := strconv.ParseBool(EnvOr(EnvAudioEnabled, "")); err == nil {
		cfg.Enabled = val
	}

	if val, err := strconv.Atoi(EnvOr(EnvMasterVolume, "")); err == nil {
		cfg.MasterVolume = clampUnit(float64(val) / 100.0)
	}

	if val, err := strconv.Atoi(EnvOr(EnvSampleRate, "")); err == nil && val > 0 {
		cfg.SampleRate = val
	}

	if kind, ok := ParseSinkKind(EnvOr(EnvBackend, "")); ok {
		cfg.Backend = kind
	}

	cfg.LogLevel = EnvOr(EnvLogLevel, cfg.LogLevel)
	return cfg
}

// EnvOr returns the trimmed value of key, or def when unset or blank
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// ParseSinkKind maps a backend name to its kind
func ParseSinkKind(s string) (SinkKind, bool) {
	switch kind := SinkKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case SinkAuto, SinkSpeaker, SinkOto, SinkPipe, SinkDiscard, SinkNone:
		return kind, true
	}
	return "", false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
