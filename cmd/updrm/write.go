package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mirseo/updrm/steg"
)

func newWriteCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "write <carrier>",
		Short: "Embed a payload into a PNG or PDF carrier, overwriting it in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if dataFile == "-" || dataFile == "" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(dataFile)
			}
			if err != nil {
				return err
			}
			return steg.Write(args[0], data)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "-", "file to read the payload from (- for stdin)")
	return cmd
}
