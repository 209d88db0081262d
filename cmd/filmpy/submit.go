package main

import (
	"os"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/api"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "submit [script.xml]",
		Short: "Run a script on a filmpy server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return merry.Wrap(err)
			}
			clips, err := api.NewClient(server).Submit(cmd.Context(), body)
			if err != nil {
				if msg := merry.UserMessage(err); msg != "" {
					cmd.PrintErrln(msg)
				}
				return err
			}
			return gocsv.Marshal(clips, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8080", "server base URL")
	return cmd
}
