package main

import (
	"github.com/bcc-code/bcc-media-clips/api"
	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr, workDir string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scripts submitted over HTTP",
		Long:  "Runs scripts submitted over HTTP. Script file paths must stay inside the work directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := environment.FromContext(cmd.Context())
			if workDir != "" {
				cfg.WorkDir = workDir
			}
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}
			server, err := api.NewServer(ffmpeg.New(cfg, nil))
			if err != nil {
				return err
			}
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "directory scripts may read and write (default: work_dir from the config, else the current directory)")
	cmd.Flags().BoolVar(&debug, "gin-debug", false, "run gin in debug mode")
	return cmd
}
