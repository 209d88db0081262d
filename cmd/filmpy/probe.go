package main

import (
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/davecgh/go-spew/spew"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "probe [media files...]",
		Short: "Print stream information for media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := toolkit(cmd)

			if dump {
				for _, path := range args {
					res, err := tools.ProbeFile(cmd.Context(), path)
					if err != nil {
						return err
					}
					spew.Fdump(cmd.OutOrStdout(), res)
				}
				return nil
			}

			infos := make([]ffmpeg.StreamInfo, 0, len(args))
			for _, path := range args {
				info, err := tools.GetStreamInfo(cmd.Context(), path)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return gocsv.Marshal(infos, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the raw probe result instead of a CSV summary")
	return cmd
}
