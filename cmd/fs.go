// Package cmd provides command-line interface for the in-memory filesystem.
// This file contains one-shot sessions against a filesystem seeded from a
// layout manifest: listing, reading, writing and reshaping the tree, plus
// cluster-chain inspection.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawly/SimpleLight/pkg/common"
	"github.com/shawly/SimpleLight/pkg/fakefs"
)

// fsCmd represents the parent command for all in-memory filesystem
// operations. Every invocation mounts a fresh filesystem seeded from the
// --layout manifest (or the firmware's default layout) and runs one
// operation against it.
var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Run an operation against the in-memory filesystem",
	Long: `Run an operation against the in-memory FAT-style filesystem.

The filesystem is seeded from a YAML layout manifest (--layout) or, without
one, from the default tree the firmware expects on a fresh card.

Commands:
  tree      Print the full tree
  ls        List one directory
  cat       Print a file's content
  stat      Describe one entry
  mkdir     Create a directory chain
  rm        Remove a file or empty directory
  mv        Rename or move an entry
  write     Copy a local file into the filesystem
  clusters  Print a file's synthetic cluster chain

Examples:
  simplelight fs tree
  simplelight fs ls /GAMES --layout layout.yaml
  simplelight fs clusters /GAMES/Pokemon.gba`,
}

var fsTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the full tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		fmt.Println("/")
		return printTree(fsys, "/", 1)
	},
}

var fsLsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List one directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		dir, err := fsys.OpenDir(path)
		if err != nil {
			return err
		}
		defer dir.Close()
		for {
			info, err := dir.Next()
			if err != nil {
				return err
			}
			if info.Name == "" {
				return nil
			}
			fmt.Println(formatEntry(info))
		}
	},
}

var fsCatCmd = &cobra.Command{
	Use:   "cat [path]",
	Short: "Print a file's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		fp, err := fsys.Open(args[0], fakefs.ModeRead)
		if err != nil {
			return err
		}
		defer fp.Close()
		buf := make([]byte, 4096)
		for {
			n, err := fp.Read(buf)
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
			if _, err := os.Stdout.Write(buf[:n]); err != nil {
				return err
			}
		}
	},
}

var fsStatCmd = &cobra.Command{
	Use:   "stat [path]",
	Short: "Describe one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		info, err := fsys.Stat(args[0])
		if err != nil {
			return err
		}
		kind := "file"
		if info.Dir {
			kind = "directory"
		}
		fmt.Printf("Name:          %s\n", info.Name)
		fmt.Printf("Kind:          %s\n", kind)
		fmt.Printf("Size:          %d (%s)\n", info.Size, common.HumanSize(info.Size))
		if !info.Dir {
			fmt.Printf("Start cluster: %d\n", info.StartCluster)
		}
		return nil
	},
}

var fsMkdirCmd = &cobra.Command{
	Use:   "mkdir [path]",
	Short: "Create a directory chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		if err := fsys.Mkdir(args[0]); err != nil {
			return err
		}
		common.LogInfo(common.InfoDirectoryCreated, args[0])
		return nil
	},
}

var fsRmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Remove a file or empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		if err := fsys.Unlink(args[0]); err != nil {
			return err
		}
		common.LogInfo(common.InfoEntryRemoved, args[0])
		return nil
	},
}

var fsMvCmd = &cobra.Command{
	Use:   "mv [old_path] [new_path]",
	Short: "Rename or move an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		if err := fsys.Rename(args[0], args[1]); err != nil {
			return err
		}
		common.LogInfo(common.InfoEntryRenamed, args[0], args[1])
		return nil
	},
}

var fsWriteCmd = &cobra.Command{
	Use:   "write [path] [local_file]",
	Short: "Copy a local file into the filesystem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToReadInput, err)
		}
		fp, err := fsys.Open(args[0], fakefs.ModeWrite|fakefs.ModeCreateAlways)
		if err != nil {
			return err
		}
		defer fp.Close()
		n, err := fp.Write(data)
		if err != nil {
			return err
		}
		common.LogInfo(common.InfoFileWritten, n, args[0])
		return nil
	},
}

// fsClustersCmd prints the synthetic cluster chain of a file the way a FAT
// walker would see it: each cluster with the sector its data starts at.
var fsClustersCmd = &cobra.Command{
	Use:   "clusters [path]",
	Short: "Print a file's synthetic cluster chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, err := mountSession(cmd)
		if err != nil {
			return err
		}
		fp, err := fsys.Open(args[0], fakefs.ModeRead)
		if err != nil {
			return err
		}
		defer fp.Close()

		fmt.Printf("%s: %d bytes, %d bytes per cluster\n",
			args[0], fp.Size(), fsys.ClusterSizeBytes())
		cluster := fp.StartCluster()
		for cluster != fakefs.EndOfChain {
			fmt.Printf("  cluster %-6d sector %d\n", cluster, fsys.ClusterToSector(cluster))
			cluster = fsys.NextCluster(fp, cluster)
		}
		fmt.Println("  end of chain")
		return nil
	},
}

// mountSession mounts a fresh filesystem from the --layout manifest, or the
// default layout when none is given
func mountSession(cmd *cobra.Command) (*fakefs.Filesystem, error) {
	applyVerbose(cmd)

	var layout *fakefs.Layout
	layoutPath, _ := cmd.Flags().GetString("layout")
	if layoutPath != "" {
		f, err := os.Open(layoutPath)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadLayout, err)
		}
		defer f.Close()
		layout, err = fakefs.LoadLayout(f)
		if err != nil {
			return nil, err
		}
	}

	maxNodes, _ := cmd.Flags().GetInt("max-nodes")
	fsys := fakefs.New(fakefs.Config{MaxNodes: maxNodes})
	if err := fsys.Mount(layout); err != nil {
		return nil, err
	}
	return fsys, nil
}

func formatEntry(info fakefs.Info) string {
	if info.Dir {
		return fmt.Sprintf("%-32s <DIR>", info.Name)
	}
	return fmt.Sprintf("%-32s %10d", info.Name, info.Size)
}

func printTree(fsys *fakefs.Filesystem, path string, depth int) error {
	dir, err := fsys.OpenDir(path)
	if err != nil {
		return err
	}
	defer dir.Close()
	for {
		info, err := dir.Next()
		if err != nil {
			return err
		}
		if info.Name == "" {
			return nil
		}
		indent := strings.Repeat("  ", depth)
		if info.Dir {
			fmt.Printf("%s%s/\n", indent, info.Name)
			child := path + "/" + info.Name
			if path == "/" {
				child = "/" + info.Name
			}
			if err := printTree(fsys, child, depth+1); err != nil {
				return err
			}
		} else {
			fmt.Printf("%s%s (%s)\n", indent, info.Name, common.HumanSize(info.Size))
		}
	}
}

// init initializes the fs command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(fsCmd)

	subcommands := []*cobra.Command{
		fsTreeCmd, fsLsCmd, fsCatCmd, fsStatCmd, fsMkdirCmd,
		fsRmCmd, fsMvCmd, fsWriteCmd, fsClustersCmd,
	}
	for _, c := range subcommands {
		fsCmd.AddCommand(c)
		c.Flags().String("layout", "", "YAML layout manifest to seed the filesystem")
		c.Flags().Int("max-nodes", 0, "Node pool capacity (default 64)")
		c.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	}
}
