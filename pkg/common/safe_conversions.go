// Package common provides common utilities for the storage emulator.
// This file contains checked integer conversions used when CLI flag
// values cross into the fixed-width types of the storage layers.
package common

import (
	"fmt"
	"math"
)

// SafeIntToUint32 safely converts int to uint32 with bounds checking
func SafeIntToUint32(value int) (uint32, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint32", value)
	}
	if int64(value) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, uint64(math.MaxUint32))
	}
	return uint32(value), nil
}
