package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/library"
	"github.com/lixenwraith/sfx-forge/parameter"
)

var (
	composeState   string
	composeLibrary string
	composeOutput  string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Play or render a composer grid",
	Long: `Play a composer grid live until interrupted, or render one cycle to WAV.

The state file holds either a grid document or a saved loop bundling the
grid with its sounds. Track sound ids resolve against the saved sounds,
then the library, then the built-in presets.

Examples:
  sfx-forge compose --state beat.json --library sounds.json
  sfx-forge compose --state saved-loop.json -o beat.wav`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&composeState, "state", "", "Grid or saved loop JSON file, - for stdin")
	composeCmd.Flags().StringVar(&composeLibrary, "library", "", "JSON sound library file")
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "Render one cycle to this WAV file instead of playing")
	composeCmd.MarkFlagRequired("state")
}

// loadComposition reads a grid or saved loop and the sounds it can use
func loadComposition(cmd *cobra.Command) (parameter.CompositionState, audio.SoundList, error) {
	data, err := readInput(cmd, composeState)
	if err != nil {
		return parameter.CompositionState{}, nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return parameter.CompositionState{}, nil, fmt.Errorf("composition: %w", err)
	}

	var (
		state  parameter.CompositionState
		sounds audio.SoundList
	)
	if _, saved := probe["state"]; saved {
		loop, err := parameter.DecodeSavedLoop(data)
		if err != nil {
			return state, nil, err
		}
		state = loop.State
		sounds = append(sounds, loop.Sounds...)
	} else if err := json.Unmarshal(data, &state); err != nil {
		return state, nil, fmt.Errorf("composition: %w", err)
	}

	if composeLibrary != "" {
		lib := library.New(logger)
		if _, err := lib.LoadFile(composeLibrary); err != nil {
			return state, nil, err
		}
		sounds = append(sounds, lib.Sounds()...)
	}
	sounds = append(sounds, parameter.Presets()...)

	state = state.Sanitize()
	for _, id := range state.UsedSoundIDs() {
		if _, ok := sounds.Sound(id); !ok {
			logger.Warn("track sound not found", zap.String("sound", id))
		}
	}
	return state, sounds, nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	state, sounds, err := loadComposition(cmd)
	if err != nil {
		return err
	}

	if composeOutput != "" {
		cfg, err := audioConfig()
		if err != nil {
			return err
		}
		data, err := audio.NewRenderer(cfg.SampleRate, logger).ExportCompositionToWav(cmd.Context(), state, sounds)
		if err != nil {
			return err
		}
		return writeOutput(cmd, composeOutput, data)
	}

	engine, err := liveEngine()
	if err != nil {
		return err
	}
	defer engine.Shutdown()

	out := cmd.ErrOrStderr()
	if !engine.PlayComposition(state, sounds, func(step int) {
		fmt.Fprintf(out, "\rstep %d/%d", step+1, parameter.CompositionLen)
	}) {
		return errNoOutput
	}
	fmt.Fprintf(out, "playing at %.0f bpm, Ctrl-C to stop\n", state.BPM)

	<-cmd.Context().Done()
	engine.StopComposition()
	fmt.Fprintln(out)
	return nil
}
