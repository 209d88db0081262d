package main

import (
	"context"
	"os"

	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	verbose  bool
)

func main() {
	ctx := context.Background()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("filmpy failed")
		if d := ffmpeg.Diagnostics(err); d != "" {
			os.Stderr.WriteString(d)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "filmpy",
		Short:         "filmpy - script driven clip editing",
		Long:          "Builds, edits, composites and writes clips described by XML scripts, using ffmpeg for media I/O.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := environment.Load(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			logging.Init(cfg.LogLevel)

			cmd.SetContext(environment.WithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./filmpy.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level debug")

	root.AddCommand(
		newRunCmd(),
		newProbeCmd(),
		newFormatsCmd(),
		newConfigCmd(),
		newServeCmd(),
		newSubmitCmd(),
	)
	return root
}

// toolkit runs real subprocesses with the loaded configuration.
func toolkit(cmd *cobra.Command) *ffmpeg.Toolkit {
	return ffmpeg.New(environment.FromContext(cmd.Context()), nil)
}
