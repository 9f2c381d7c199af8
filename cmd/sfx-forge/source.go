package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/library"
	"github.com/lixenwraith/sfx-forge/parameter"
)

var errSourceConflict = errors.New("use only one of --seed, --preset, --params, --share, --sound")

// soundFlags select the sound a command works on
type soundFlags struct {
	seed    uint32
	preset  string
	params  string
	share   string
	sound   string
	library string
}

func addSoundFlags(cmd *cobra.Command) *soundFlags {
	f := &soundFlags{}
	fs := cmd.Flags()
	fs.Uint32Var(&f.seed, "seed", 0, "Generate the sound from a 32-bit seed")
	fs.StringVar(&f.preset, "preset", "", "Built-in preset name")
	fs.StringVar(&f.params, "params", "", "JSON params file, - for stdin")
	fs.StringVar(&f.share, "share", "", "Share query or URL carrying one")
	fs.StringVar(&f.sound, "sound", "", "Sound id or name from --library")
	fs.StringVar(&f.library, "library", "", "JSON sound library file")
	return f
}

// resolve returns the selected sound, or the default sound when none is set
func (f *soundFlags) resolve(cmd *cobra.Command) (parameter.SoundParams, error) {
	set := 0
	for _, name := range []string{"seed", "preset", "params", "share", "sound"} {
		if cmd.Flags().Changed(name) {
			set++
		}
	}
	if set > 1 {
		return parameter.SoundParams{}, errSourceConflict
	}

	switch {
	case cmd.Flags().Changed("seed"):
		return audio.ParamsFromSeed(f.seed), nil

	case f.preset != "":
		p, ok := parameter.Preset(f.preset)
		if !ok {
			return p, fmt.Errorf("unknown preset %q (see sfx-forge presets)", f.preset)
		}
		return p, nil

	case f.params != "":
		data, err := readInput(cmd, f.params)
		if err != nil {
			return parameter.SoundParams{}, err
		}
		return parameter.Decode(data)

	case f.share != "":
		query := f.share
		if _, after, ok := strings.Cut(query, "?"); ok {
			query = after
		}
		return parameter.DecodeShare(query), nil

	case f.sound != "":
		if f.library == "" {
			return parameter.SoundParams{}, errors.New("--sound needs --library")
		}
		lib := library.New(logger)
		if _, err := lib.LoadFile(f.library); err != nil {
			return parameter.SoundParams{}, err
		}
		p, ok := lib.Sound(f.sound)
		if !ok {
			return p, fmt.Errorf("sound %q not in %s (have %s)", f.sound, f.library, strings.Join(lib.Keys(), ", "))
		}
		return p, nil
	}
	return parameter.Default(), nil
}

// readInput reads path, or stdin for "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or stdout for "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
