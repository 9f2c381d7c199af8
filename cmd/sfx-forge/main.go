package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
)

var version = "0.1.0"

// Persistent flags
var (
	logLevel   string
	backend    string
	sampleRate int
)

var logger = zap.NewNop()

func main() {
	ctx, stop := signalContext()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sfx-forge",
	Short: "Parametric sound effect synthesizer",
	Long: `sfx-forge synthesizes retro game sound effects from a small set of
parameters: oscillators, envelope, noise, modulation, filter, comb,
reverb, echo and an arpeggiating sequencer.

Sounds come from presets, share queries, JSON documents or a 32-bit seed,
and are played live or rendered to 16-bit mono WAV.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flush(logger)
	},
}

func init() {
	defaults := audio.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", audio.EnvOr(audio.EnvLogLevel, defaults.LogLevel), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Live output: auto, speaker, oto, pipe, discard, none (default from env)")
	rootCmd.PersistentFlags().IntVar(&sampleRate, "sample-rate", 0, "Sample rate in Hz (default from env or 44100)")

	rootCmd.AddCommand(exportCmd, playCmd, loopCmd, seedCmd, shareCmd, presetsCmd, composeCmd, analyzeCmd, serveCmd)
}

// audioConfig merges env configuration with command-line overrides
func audioConfig() (*audio.Config, error) {
	cfg := audio.LoadConfig()
	if backend != "" {
		kind, ok := audio.ParseSinkKind(backend)
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", backend)
		}
		cfg.Backend = kind
	}
	if sampleRate > 0 {
		cfg.SampleRate = sampleRate
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
