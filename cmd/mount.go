// Package cmd provides command-line interface for the storage emulator.
// This file contains the FUSE mount command, which exposes the in-memory
// filesystem at a host mount point.
package cmd

import (
	fusefslib "github.com/hanwen/go-fuse/v2/fs"
	"github.com/spf13/cobra"

	"github.com/shawly/SimpleLight/pkg/common"
	"github.com/shawly/SimpleLight/pkg/fusefs"
)

// mountCmd exposes a seeded in-memory filesystem as a read-only host mount,
// so the emulated card can be browsed with ordinary shell tools.
var mountCmd = &cobra.Command{
	Use:   "mount [mountpoint]",
	Short: "Expose the in-memory filesystem as a host mount (FUSE)",
	Long: `Expose the in-memory filesystem at a host mount point over FUSE.

The filesystem is seeded from a YAML layout manifest (--layout) or the
default layout. The mount is read-only and serves until it is unmounted.

Examples:
  simplelight mount /mnt/simplelight
  simplelight mount /mnt/simplelight --layout layout.yaml --debug`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}

		opts := &fusefslib.Options{}
		opts.Debug, _ = cmd.Flags().GetBool("debug")

		server, err := fusefslib.Mount(args[0], fusefs.New(fsys), opts)
		if err != nil {
			return common.FormatError(common.ErrFailedToMountImage, err)
		}
		common.LogInfo(common.InfoMountServing, args[0])
		server.Wait()
		return nil
	},
}

// init initializes the mount command and its flags.
func init() {
	rootCmd.AddCommand(mountCmd)

	mountCmd.Flags().String("layout", "", "YAML layout manifest to seed the filesystem")
	mountCmd.Flags().Int("max-nodes", 0, "Node pool capacity (default 64)")
	mountCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	mountCmd.Flags().Bool("debug", false, "Print FUSE debug information")
}
