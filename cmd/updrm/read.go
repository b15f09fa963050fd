package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mirseo/updrm/steg"
)

func newReadCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "read <carrier>",
		Short: "Extract a previously embedded payload from a PNG or PDF carrier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := steg.Read(args[0])
			if err != nil {
				return err
			}
			if outFile == "-" || outFile == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(outFile, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "-", "file to write the recovered payload to (- for stdout)")
	return cmd
}
