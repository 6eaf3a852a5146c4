// Command audioproject turns game localization files into per-language
// speech audio.
//
// Usage:
//
//	audioproject [flags] <command> [args]
//
// Commands:
//
//	run         - full pipeline: preprocess, match, generate, upload, archive
//	preprocess  - filter raw localization files against the reference locale
//	match       - dry-run language/voice matching and write the language table
//	voices      - fetch or list the provider voice catalog
//	archive     - copy the current run into Archive/<version>
//	report      - compare earlier voice selections with the current tiers
//	bucket      - upload, list and prune audio in the remote bucket
//	history     - show recorded runs
//	config      - manage deployment contexts
//
// Configuration:
//
//	Deployment contexts live in ~/.audioproject/audioproject/config.yaml.
//	Project settings are read from audioproject.yaml in the work directory.
package main

import (
	"fmt"
	"os"

	"github.com/Aufco/AudioProject-Female/cmd/audioproject/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
