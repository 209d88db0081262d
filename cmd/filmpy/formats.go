package main

import (
	"fmt"
	"strings"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/script"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	var scriptTags bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List pixel formats, or the tags scripts understand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if scriptTags {
				fmt.Fprintf(out, "clips: %s\n", strings.Join(script.ClipTags(), " "))
				fmt.Fprintf(out, "operations: %s\n", strings.Join(script.Operations(), " "))
				return nil
			}
			return gocsv.Marshal(common.PixelFormatRows(), out)
		},
	}

	cmd.Flags().BoolVar(&scriptTags, "script", false, "list script clip tags and operations")
	return cmd
}
