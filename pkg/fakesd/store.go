// Package fakesd emulates the SimpleLight SD card in host memory. It serves
// and mutates fixed-size sectors of an embedded read-only disk image, either
// through a full mutable copy of the image or through a bounded sparse
// write-overlay when a full copy is not wanted.
package fakesd

import (
	"errors"
	"fmt"

	"github.com/shawly/SimpleLight/pkg/common"
)

// SectorSize is the fixed sector size of the emulated card in bytes
const SectorSize = 512

// DefaultOverlayCapacity is the default number of distinct modified sectors
// an overlay-mode store can hold before writes start failing
const DefaultOverlayCapacity = 256

// Sentinel errors returned by Store operations. Callers check these with
// errors.Is; ReadSectors and WriteSectors wrap them with request context.
var (
	ErrNoImage        = errors.New("no disk image present")
	ErrNotInitialized = errors.New("store not initialized")
	ErrZeroCount      = errors.New("sector count must not be zero")
	ErrOutOfRange     = errors.New("sector range out of bounds")
	ErrBufferSize     = errors.New("buffer too small for sector range")
	ErrOverlayFull    = errors.New("overlay capacity exhausted")
)

// BlockDevice is the block-device contract consumed by FAT driver glue.
// The Store satisfies it in both full-copy and overlay mode.
type BlockDevice interface {
	ReadSectors(sector uint32, count uint32, buf []byte) error
	WriteSectors(sector uint32, count uint32, buf []byte) error
	SectorSize() uint32
	SectorCount() uint32
	Status() error
}

var _ = (BlockDevice)((*Store)(nil))

// Store emulates a sector-addressed card over an immutable base image.
//
// In full-copy mode all reads and writes go through a private mutable copy of
// the image. In overlay mode the base image stays read-only and writes land in
// a fixed-capacity cache of modified sectors; reads resolve each sector
// against the overlay first and fall back to the base image.
type Store struct {
	image       []byte
	mutable     []byte
	sectorCount uint32

	overlay    map[uint32][]byte
	overlayCap int
}

// NewStore creates a full-copy store over the given image. The usable size is
// the image size truncated down to a whole number of sectors.
func NewStore(image []byte) (*Store, error) {
	s := &Store{}
	if err := s.init(image, false, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// NewOverlayStore creates an overlay-mode store over the given image. The
// base image is never copied; at most capacity distinct sectors can be
// modified before WriteSectors fails with ErrOverlayFull. A capacity of zero
// or less selects DefaultOverlayCapacity.
func NewOverlayStore(image []byte, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultOverlayCapacity
	}
	s := &Store{}
	if err := s.init(image, true, capacity); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init(image []byte, overlay bool, capacity int) error {
	if len(image) == 0 {
		return ErrNoImage
	}
	usable := len(image) - len(image)%SectorSize
	if usable == 0 {
		return fmt.Errorf("%s: %w", common.ErrImageTooSmall, ErrNoImage)
	}
	s.image = image
	s.sectorCount = uint32(usable / SectorSize)
	if overlay {
		s.mutable = nil
		s.overlay = make(map[uint32][]byte, capacity)
		s.overlayCap = capacity
		common.LogDebug(common.InfoOverlayMode, capacity)
	} else {
		s.mutable = make([]byte, usable)
		copy(s.mutable, image[:usable])
		s.overlay = nil
		s.overlayCap = 0
	}
	common.LogDebug(common.InfoImageLoaded, len(image), s.sectorCount)
	return nil
}

// Reset discards all modifications, returning the store to the state it had
// immediately after construction. The storage mode is preserved.
func (s *Store) Reset() error {
	return s.init(s.image, s.mutable == nil, s.overlayCap)
}

// SectorSize returns the sector size in bytes
func (s *Store) SectorSize() uint32 {
	return SectorSize
}

// SectorCount returns the number of usable sectors
func (s *Store) SectorCount() uint32 {
	return s.sectorCount
}

// OverlayMode reports whether the store runs in overlay mode
func (s *Store) OverlayMode() bool {
	return s.mutable == nil
}

// OverlayUsed returns the number of occupied overlay slots. Always zero in
// full-copy mode.
func (s *Store) OverlayUsed() int {
	return len(s.overlay)
}

// Status reports whether the store is usable
func (s *Store) Status() error {
	if s.sectorCount == 0 {
		return ErrNotInitialized
	}
	return nil
}

func (s *Store) checkRange(sector, count uint32, buf []byte) error {
	if s.sectorCount == 0 {
		return ErrNotInitialized
	}
	if count == 0 {
		return ErrZeroCount
	}
	if sector >= s.sectorCount || count > s.sectorCount-sector {
		return fmt.Errorf("%w: sector %d count %d (have %d sectors)",
			ErrOutOfRange, sector, count, s.sectorCount)
	}
	// Byte math in int64 so multi-GiB ranges cannot wrap uint32
	if need := int64(count) * SectorSize; int64(len(buf)) < need {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBufferSize, need, len(buf))
	}
	return nil
}

// ReadSectors copies count sectors starting at sector into buf. Reads always
// reflect the most recent write to each sector, whichever tier holds it.
func (s *Store) ReadSectors(sector uint32, count uint32, buf []byte) error {
	if err := s.checkRange(sector, count, buf); err != nil {
		return err
	}
	common.LogDebug(common.DebugSectorRead, count, sector)
	if s.mutable != nil {
		off := int64(sector) * SectorSize
		copy(buf, s.mutable[off:off+int64(count)*SectorSize])
		return nil
	}
	// Overlay mode resolves each sector independently
	for i := uint32(0); i < count; i++ {
		dst := buf[int64(i)*SectorSize : int64(i+1)*SectorSize]
		if payload, ok := s.overlay[sector+i]; ok {
			copy(dst, payload)
		} else {
			base := int64(sector+i) * SectorSize
			copy(dst, s.image[base:base+SectorSize])
		}
	}
	return nil
}

// WriteSectors copies count sectors from buf into the store starting at
// sector. In overlay mode, exhausting the overlay mid-request fails with
// ErrOverlayFull and leaves the sectors written so far in place; there is no
// rollback.
func (s *Store) WriteSectors(sector uint32, count uint32, buf []byte) error {
	if err := s.checkRange(sector, count, buf); err != nil {
		return err
	}
	common.LogDebug(common.DebugSectorWrite, count, sector)
	if s.mutable != nil {
		off := int64(sector) * SectorSize
		copy(s.mutable[off:off+int64(count)*SectorSize], buf)
		return nil
	}
	for i := uint32(0); i < count; i++ {
		payload, ok := s.overlay[sector+i]
		if !ok {
			if len(s.overlay) >= s.overlayCap {
				return fmt.Errorf("%w: %d sectors modified, sector %d not cached",
					ErrOverlayFull, len(s.overlay), sector+i)
			}
			payload = make([]byte, SectorSize)
			s.overlay[sector+i] = payload
			common.LogDebug(common.DebugOverlaySeeded, sector+i, len(s.overlay), s.overlayCap)
			if len(s.overlay) == s.overlayCap {
				common.LogWarn(common.WarnOverlayNearCapacity, len(s.overlay), s.overlayCap)
			}
		}
		copy(payload, buf[int64(i)*SectorSize:int64(i+1)*SectorSize])
	}
	return nil
}
