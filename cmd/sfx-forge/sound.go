package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/parameter"
)

var errNoOutput = errors.New("no audio output available")

var (
	exportSource, playSource, loopSource, shareSource *soundFlags

	exportOutput string
	playVolume   float64
	playPitch    float64
	playCutoff   float64
	seedShare    bool
	presetsJSON  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a sound to a WAV file",
	Long: `Render a sound offline to a 16-bit mono WAV file.

Examples:
  sfx-forge export --preset "Classic Laser" -o laser.wav
  sfx-forge export --seed 42
  sfx-forge export --share "bf=880&wf=square" -o - > blip.wav`,
	RunE: runExport,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a sound once on the live output",
	Long: `Play a sound on the live output and wait for it to finish.

Examples:
  sfx-forge play --preset "Shiny Coin"
  sfx-forge play --library sounds.json --sound Zap --pitch 1.5`,
	RunE: runPlay,
}

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Play a sound continuously until interrupted",
	RunE:  runLoop,
}

var seedCmd = &cobra.Command{
	Use:   "seed SEED",
	Short: "Print the params generated from a seed",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the share query of a sound",
	RunE:  runShare,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in presets",
	RunE:  runPresets,
}

func init() {
	exportSource = addSoundFlags(exportCmd)
	playSource = addSoundFlags(playCmd)
	loopSource = addSoundFlags(loopCmd)
	shareSource = addSoundFlags(shareCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, - for stdout (default from sound name)")

	for _, cmd := range []*cobra.Command{playCmd, loopCmd} {
		cmd.Flags().Float64Var(&playVolume, "volume", 1, "Voice volume multiplier")
		cmd.Flags().Float64Var(&playPitch, "pitch", 1, "Base frequency multiplier")
		cmd.Flags().Float64Var(&playCutoff, "lowpass", -1, "Filter cutoff override in Hz, 0 removes the filter, negative keeps the sound's")
	}

	seedCmd.Flags().BoolVar(&seedShare, "share", false, "Print the share query instead of JSON")
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "Print full params as JSON")
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := exportSource.resolve(cmd)
	if err != nil {
		return err
	}
	cfg, err := audioConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	data, err := audio.NewRenderer(cfg.SampleRate, logger).ExportToWav(cmd.Context(), p)
	if err != nil {
		return err
	}

	out := exportOutput
	if out == "" {
		out = p.FileName()
	}
	if err := writeOutput(cmd, out, data); err != nil {
		return err
	}
	logger.Info("exported",
		zap.String("sound", p.Name),
		zap.String("output", out),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// playOptions turns the live flags into params and engine options
func playOptions(p parameter.SoundParams) (parameter.SoundParams, []audio.PlayOption) {
	if playPitch > 0 && !math.IsInf(playPitch, 0) {
		p.BaseFrequency *= playPitch
	}
	opts := []audio.PlayOption{audio.WithVolume(playVolume)}
	if playCutoff >= 0 {
		opts = append(opts, audio.WithCutoff(playCutoff))
	}
	return p, opts
}

// liveEngine starts an engine on the configured output
func liveEngine() (*audio.Engine, error) {
	cfg, err := audioConfig()
	if err != nil {
		return nil, err
	}
	engine := audio.NewEngine(cfg, logger)
	if err := engine.Init(); err != nil {
		engine.Shutdown()
		return nil, fmt.Errorf("%w: %v", errNoOutput, err)
	}
	if engine.IsSilent() {
		engine.Shutdown()
		return nil, errNoOutput
	}
	return engine, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	p, err := playSource.resolve(cmd)
	if err != nil {
		return err
	}
	engine, err := liveEngine()
	if err != nil {
		return err
	}
	defer engine.Shutdown()

	p, opts := playOptions(p)
	if !engine.Play(p, opts...) {
		return errNoOutput
	}

	wait := audio.ExportDuration(parameter.Sanitize(p)) + constant.LiveLookahead
	if p.ReverbAmount > 0 {
		wait += constant.ReverbSeconds
	}

	select {
	case <-cmd.Context().Done():
	case <-time.After(time.Duration(wait * float64(time.Second))):
	}
	return nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	p, err := loopSource.resolve(cmd)
	if err != nil {
		return err
	}
	engine, err := liveEngine()
	if err != nil {
		return err
	}
	defer engine.Shutdown()

	p, opts := playOptions(p)
	loop := engine.PlayContinuous(p, opts...)
	if !loop.Active() {
		return errNoOutput
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "looping %q every %.3fs, Ctrl-C to stop\n", p.Name, loop.Interval())

	<-cmd.Context().Done()

	engine.Stop(loop)
	fmt.Fprintf(cmd.ErrOrStderr(), "stopped after %d iterations\n", loop.Iterations())
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	var seed uint32
	if _, err := fmt.Sscan(args[0], &seed); err != nil {
		return fmt.Errorf("seed must be an unsigned 32-bit integer: %w", err)
	}
	p := audio.ParamsFromSeed(seed)
	if seedShare {
		fmt.Fprintln(cmd.OutOrStdout(), parameter.EncodeShare(p))
		return nil
	}
	return printJSON(cmd, p)
}

func runShare(cmd *cobra.Command, args []string) error {
	p, err := shareSource.resolve(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), parameter.EncodeShare(p))
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets := parameter.Presets()
	if presetsJSON {
		return printJSON(cmd, presets)
	}
	for _, p := range presets {
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %6.0f Hz  %s\n", p.Name, p.BaseFrequency, p.EnvelopeShape)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
