// Command adbsweep is the entry point for the TCP service sweep scanner.
package main

import (
	"github.com/adbsweep/adbsweep/cmd/cli"
)

// Build information - set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
