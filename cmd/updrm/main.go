// Command updrm is the CLI front end for package steg: it embeds a
// payload into a PNG or PDF carrier, extracts it back out, and runs a
// read-only statistical diagnosis of a carrier's LSB plane.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
