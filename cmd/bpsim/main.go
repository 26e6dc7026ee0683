// Package main provides the entry point for bpsim.
// bpsim replays a branch trace through a branch predictor and reports how
// often the predictor was wrong.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
