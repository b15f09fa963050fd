package main

import (
	"fmt"
	stdimage "image"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/mirseo/updrm/diagnostics"
)

const chiSquareDisturbedThreshold = 20.0

func newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <carrier.png>",
		Short: "Run a read-only chi-square test on a PNG carrier's LSB plane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			img, _, err := stdimage.Decode(f)
			if err != nil {
				return err
			}

			chi := diagnostics.ChiSquare(img)
			verdict := "looks untouched"
			if chi < chiSquareDisturbedThreshold {
				verdict = "looks statistically disturbed (consistent with sequential LSB embedding)"
			}
			fmt.Printf("chi-square(LSB) = %.4f: %s\n", chi, verdict)
			return nil
		},
	}
	return cmd
}
