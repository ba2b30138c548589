// Package common provides common utilities for sector-addressed storage.
// This file contains size and cluster arithmetic shared by the sector
// store and the virtual filesystem.
package common

import (
	"fmt"
	"strings"
)

// SizeInSectors calculates the number of sectors needed for a given size in bytes
func SizeInSectors(sizeBytes uint32, sectorSize uint32) uint32 {
	return (sizeBytes + sectorSize - 1) / sectorSize
}

// SizeInClusters calculates the number of clusters a file of the given size
// occupies. A zero-length file still occupies one cluster, matching FAT
// behavior for allocated files.
func SizeInClusters(sizeBytes int64, clusterSizeBytes int64) uint32 {
	n := (sizeBytes + clusterSizeBytes - 1) / clusterSizeBytes
	if n == 0 {
		n = 1
	}
	return uint32(n)
}

// HumanSize formats a byte count using binary units
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(size)/float64(div), []string{"KiB", "MiB", "GiB"}[exp])
}

// TrimPadding removes trailing spaces and NUL bytes from fixed-width
// on-disk string fields such as the volume label
func TrimPadding(field []byte) string {
	return strings.TrimRight(string(field), " \x00")
}
