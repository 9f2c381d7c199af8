package main

import (
	"fmt"
	"os"

	"github.com/gopxl/beep/wav"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/sfx-forge/audio"
)

var analyzeSource *soundFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE.wav]",
	Short: "Report levels and dominant frequency of a WAV file or sound",
	Long: `Report duration, peak, RMS, clipped samples and dominant frequency.

With a file argument the WAV is decoded; otherwise the selected sound is
rendered first.

Examples:
  sfx-forge analyze laser.wav
  sfx-forge analyze --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeSource = addSoundFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		samples, rate, err := decodeWAV(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, audio.Analyze(samples, rate))
	}

	p, err := analyzeSource.resolve(cmd)
	if err != nil {
		return err
	}
	cfg, err := audioConfig()
	if err != nil {
		return err
	}
	samples, err := audio.NewRenderer(cfg.SampleRate, logger).Render(cmd.Context(), p)
	if err != nil {
		return err
	}
	return printJSON(cmd, audio.Analyze(samples, cfg.SampleRate))
}

// decodeWAV reads a WAV file into mono samples in [-1, 1], averaging channels
func decodeWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	prec := format.Precision
	samples := make([]float64, 0, streamer.Len())
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for _, frame := range buf[:n] {
			l := audio.DecodedSample(frame[0], prec)
			r := audio.DecodedSample(frame[1], prec)
			samples = append(samples, (l+r)/2)
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return samples, int(format.SampleRate), nil
}
