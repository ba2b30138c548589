// Package common provides shared utilities for the storage emulator.
// This file contains logging helpers and the message constants used
// across the sector store, filesystem and CLI packages.
package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToReadImage      = "failed to read disk image"
	ErrFailedToReadLayout     = "failed to read layout manifest"
	ErrFailedToParseLayout    = "failed to parse layout manifest"
	ErrFailedToReadBootSector = "failed to read boot sector"
	ErrFailedToWriteOutput    = "failed to write output file"
	ErrFailedToReadInput      = "failed to read input file"
	ErrFailedToMountImage     = "failed to mount filesystem"
	ErrImageTooSmall          = "disk image smaller than one sector"
	ErrInvalidSectorRange     = "invalid sector range"
)

// Info messages
const (
	InfoImageLoaded      = "Loaded disk image: %d bytes, %d usable sectors"
	InfoOverlayMode      = "Overlay mode enabled: %d sector capacity"
	InfoSectorsDumped    = "Dumped %d sectors starting at %d to: %s"
	InfoSectorsWritten   = "Wrote %d sectors starting at %d"
	InfoImageWritten     = "Merged image written to: %s"
	InfoLayoutLoaded     = "Layout manifest loaded: %d entries"
	InfoFilesystemReady  = "Filesystem mounted: %d nodes in use"
	InfoMountServing     = "Serving filesystem at %s (unmount to stop)"
	InfoFileWritten      = "Wrote %d bytes to %s"
	InfoEntryRemoved     = "Removed %s"
	InfoEntryRenamed     = "Renamed %s to %s"
	InfoDirectoryCreated = "Created directory %s"
)

// Debug messages
const (
	DebugOverlaySeeded    = "Overlay slot seeded for sector %d (%d/%d used)"
	DebugSectorRead       = "Read %d sectors at %d"
	DebugSectorWrite      = "Write %d sectors at %d"
	DebugNodeAllocated    = "Node allocated: %s (slot %d)"
	DebugNodeReleased     = "Node released: %s"
	DebugClusterAssigned  = "Clusters %d-%d assigned to %s"
	DebugPathResolved     = "Resolved %s"
	DebugFuseInodeAdded   = "FUSE inode added for %s"
	DebugBootSectorFields = "Boot sector: %s, %d bytes/sector, %d sectors/cluster"
)

// Warning messages
const (
	WarnOverlayNearCapacity = "Overlay is %d/%d full; further writes to new sectors may fail"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}
