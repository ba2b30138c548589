/*
SimpleLight Storage Emulator - virtual SD card and in-memory FAT filesystem
backends for running the SimpleLight firmware stack without flashcart hardware.

Copyright © 2026 shawly
*/
package main

import (
	"fmt"
	"os"

	"github.com/shawly/SimpleLight/cmd"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Check for version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("SimpleLight Storage Emulator %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cmd.Execute()
}
