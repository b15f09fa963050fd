package main

import (
	"github.com/spf13/cobra"

	"github.com/mirseo/updrm/ulog"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "updrm",
		Short: "Embed and extract payloads carried invisibly in PNG/PDF files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ulog.EnableConsole(verbose)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newWriteCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newDiagnoseCmd())

	return root
}
