package main

import (
	"github.com/bcc-code/bcc-media-clips/editor"
	"github.com/bcc-code/bcc-media-clips/script"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "run [script.xml]",
		Short: "Run an XML clip script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := script.New(editor.New(toolkit(cmd)))
			clips, err := in.RunFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			log.Info().Str("script", args[0]).Int("clips", len(clips)).Msg("script complete")
			if summary {
				return gocsv.Marshal(clips, cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print the clips the script defined as CSV")
	return cmd
}
