// SPDX-License-Identifier: EPL-2.0

// Command audfeat extracts cepstral features from a labeled audio tree and
// produces a train/test split.
//
// Usage:
//
//	audfeat [flags] <command>
//
// Commands:
//
//	labels     - List labels and their indices
//	transform  - Extract features and write the per-label cache
//	split      - Assemble the cache and split it into train and test sets
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audfeat/cmd/audfeat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
