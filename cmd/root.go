// Package cmd provides the command-line interface for the SimpleLight
// storage emulator. It drives the virtual SD card and the in-memory
// filesystem that the firmware stack runs against when no flashcart
// hardware is present.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "simplelight",
	Short: "SimpleLight storage emulation tools",
	Long: `SimpleLight Storage Emulator - explore and mutate the emulated storage
backends used by the SimpleLight firmware in EMU builds.

Two backends are available:
  sd      Sector-level access to a disk image through the virtual SD card
  fs      A session against the in-memory FAT-style filesystem
  mount   Expose the in-memory filesystem as a host mount (FUSE)

Examples:
  simplelight sd info disk.img
  simplelight sd dump disk.img sectors.bin --sector 0 --count 32
  simplelight fs tree
  simplelight fs cat /SYSTEM/RECENT.TXT --layout layout.yaml
  simplelight mount /mnt/simplelight

Use 'simplelight [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
