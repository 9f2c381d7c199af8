package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/library"
	"github.com/lixenwraith/sfx-forge/server"
)

var (
	servePort    int
	serveLibrary string
	serveWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP render service",
	Long: `Serve rendered sounds over HTTP.

Routes:
  GET  /health            service status
  GET  /presets           built-in presets as JSON
  GET  /sounds            library sound names
  GET  /sounds/{key}.wav  library sound as WAV
  GET  /seed/{seed}       seeded params as JSON
  GET  /seed/{seed}.wav   seeded sound as WAV
  GET  /render.wav?...    share query as WAV
  POST /render            JSON params to WAV
  POST /composition       {"state": ..., "sounds": [...]} to WAV

Example:
  sfx-forge serve --port 8080 --library sounds.json --watch`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", constant.ServerDefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveLibrary, "library", "", "JSON sound library file")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the library when the file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := audioConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	lib := library.New(logger)
	if serveLibrary != "" {
		if _, err := lib.LoadFile(serveLibrary); err != nil {
			return err
		}
		if serveWatch {
			reloads, err := lib.Watch(ctx, serveLibrary)
			if err != nil {
				return err
			}
			go func() {
				for n := range reloads {
					logger.Debug("library watch reload", zap.Int("sounds", n))
				}
			}()
		}
	}

	srv := server.New(server.Config{Port: servePort, SampleRate: cfg.SampleRate}, lib, logger)
	return srv.Run(ctx)
}
