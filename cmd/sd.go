// Package cmd provides command-line interface for the virtual SD card.
// This file contains sector-level commands over a disk image: summary,
// sector dumps and sector writes in both storage modes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shawly/SimpleLight/pkg/common"
	"github.com/shawly/SimpleLight/pkg/fakesd"
)

// sdCmd represents the parent command for all virtual SD card operations.
var sdCmd = &cobra.Command{
	Use:   "sd",
	Short: "Sector-level access to a disk image",
	Long: `Sector-level access to a disk image through the virtual SD card.

Commands:
  info      Show image geometry and boot sector summary
  dump      Copy a sector range out of the image
  write     Write data over a sector range and emit the merged image

Examples:
  simplelight sd info disk.img
  simplelight sd dump disk.img out.bin --sector 2048 --count 8
  simplelight sd write disk.img data.bin merged.img --sector 2048 --overlay`,
}

// sdInfoCmd summarizes a disk image: usable geometry plus the BPB fields
// of its boot sector.
var sdInfoCmd = &cobra.Command{
	Use:   "info [image_file]",
	Short: "Show image geometry and boot sector summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Image: %s\n", args[0])
		fmt.Printf("Sectors: %d (%s usable)\n", store.SectorCount(),
			common.HumanSize(int64(store.SectorCount())*int64(store.SectorSize())))

		bs, err := store.ReadBootSector()
		if err != nil {
			return err
		}
		kind := "FAT12/16"
		if bs.FAT32() {
			kind = "FAT32"
		}
		fmt.Printf("Boot sector: %s (%s)\n", bs.FSType, kind)
		fmt.Printf("  OEM name:            %s\n", bs.OEMName)
		fmt.Printf("  Volume label:        %s\n", bs.VolumeLabel)
		fmt.Printf("  Bytes per sector:    %d\n", bs.BytesPerSector)
		fmt.Printf("  Sectors per cluster: %d\n", bs.SectorsPerCluster)
		fmt.Printf("  Reserved sectors:    %d\n", bs.ReservedSectors)
		fmt.Printf("  FAT copies:          %d\n", bs.NumFATs)
		fmt.Printf("  Sectors per FAT:     %d\n", bs.SectorsPerFAT)
		fmt.Printf("  Total sectors:       %d\n", bs.TotalSectors)
		fmt.Printf("  First data sector:   %d\n", bs.FirstDataSector())
		return nil
	},
}

// sdDumpCmd copies a sector range out of the image through ReadSectors.
var sdDumpCmd = &cobra.Command{
	Use:   "dump [image_file] [output_file]",
	Short: "Copy a sector range out of the image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(cmd, args[0])
		if err != nil {
			return err
		}
		sector, count, err := sectorRangeFlags(cmd)
		if err != nil {
			return err
		}

		buf := make([]byte, count*store.SectorSize())
		if err := store.ReadSectors(sector, count, buf); err != nil {
			return fmt.Errorf("%s: %w", common.ErrInvalidSectorRange, err)
		}
		if err := os.WriteFile(args[1], buf, 0o644); err != nil {
			return common.FormatError(common.ErrFailedToWriteOutput, err)
		}
		common.LogInfo(common.InfoSectorsDumped, count, sector, args[1])
		return nil
	},
}

// sdWriteCmd writes file data over a sector range and emits the merged
// image. With --overlay the write goes through the bounded overlay cache
// instead of a full mutable copy, so exhausting the overlay surfaces the
// same capacity error the firmware would see.
var sdWriteCmd = &cobra.Command{
	Use:   "write [image_file] [data_file] [output_file]",
	Short: "Write data over a sector range and emit the merged image",
	Long: `Write data over a sector range and emit the merged image.

The data file is padded with zeros up to a whole number of sectors. With
--overlay the store keeps the base image read-only and tracks modified
sectors in a fixed-capacity cache; writing more distinct sectors than the
capacity allows fails, matching the constrained-memory behavior of the
emulated card.

Example:
  simplelight sd write disk.img data.bin merged.img --sector 2048
  simplelight sd write disk.img data.bin merged.img --sector 2048 --overlay`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyVerbose(cmd)
		image, err := os.ReadFile(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToReadImage, err)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToReadInput, err)
		}

		overlay, _ := cmd.Flags().GetBool("overlay")
		capacity, _ := cmd.Flags().GetInt("overlay-capacity")
		var store *fakesd.Store
		if overlay {
			store, err = fakesd.NewOverlayStore(image, capacity)
		} else {
			store, err = fakesd.NewStore(image)
		}
		if err != nil {
			return err
		}

		sectorFlag, _ := cmd.Flags().GetInt("sector")
		sector, err := common.SafeIntToUint32(sectorFlag)
		if err != nil {
			return err
		}

		// pad to a whole number of sectors
		dataLen, err := common.SafeIntToUint32(len(data))
		if err != nil {
			return err
		}
		count := common.SizeInSectors(dataLen, store.SectorSize())
		padded := make([]byte, count*store.SectorSize())
		copy(padded, data)

		if err := store.WriteSectors(sector, count, padded); err != nil {
			return err
		}
		common.LogInfo(common.InfoSectorsWritten, count, sector)

		merged := make([]byte, int64(store.SectorCount())*int64(store.SectorSize()))
		if err := store.ReadSectors(0, store.SectorCount(), merged); err != nil {
			return err
		}
		if err := os.WriteFile(args[2], merged, 0o644); err != nil {
			return common.FormatError(common.ErrFailedToWriteOutput, err)
		}
		common.LogInfo(common.InfoImageWritten, args[2])
		return nil
	},
}

// loadStore reads an image file into a full-copy store
func loadStore(cmd *cobra.Command, path string) (*fakesd.Store, error) {
	applyVerbose(cmd)
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadImage, err)
	}
	return fakesd.NewStore(image)
}

// sectorRangeFlags reads the --sector and --count flags
func sectorRangeFlags(cmd *cobra.Command) (sector uint32, count uint32, err error) {
	sectorFlag, _ := cmd.Flags().GetInt("sector")
	countFlag, _ := cmd.Flags().GetInt("count")
	if sector, err = common.SafeIntToUint32(sectorFlag); err != nil {
		return 0, 0, err
	}
	if count, err = common.SafeIntToUint32(countFlag); err != nil {
		return 0, 0, err
	}
	return sector, count, nil
}

// applyVerbose propagates the --verbose flag to the logging helpers
func applyVerbose(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	common.SetVerboseMode(verbose)
}

// init initializes the sd command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(sdCmd)

	sdCmd.AddCommand(sdInfoCmd)
	sdCmd.AddCommand(sdDumpCmd)
	sdCmd.AddCommand(sdWriteCmd)

	sdDumpCmd.Flags().Int("sector", 0, "First sector of the range")
	sdDumpCmd.Flags().Int("count", 1, "Number of sectors")

	sdWriteCmd.Flags().Int("sector", 0, "First sector of the range")
	sdWriteCmd.Flags().Bool("overlay", false, "Use the bounded sparse overlay instead of a full copy")
	sdWriteCmd.Flags().Int("overlay-capacity", 0, "Overlay slot count (default 256)")

	for _, c := range []*cobra.Command{sdInfoCmd, sdDumpCmd, sdWriteCmd} {
		c.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	}
}
