// Package fakesd emulates the SimpleLight SD card in host memory.
// This file contains the boot sector (BPB) parser used to summarize
// the embedded FAT image.
package fakesd

import (
	"bytes"
	"fmt"

	"github.com/shawly/SimpleLight/pkg/common"
)

// BootSector holds the BPB fields of sector 0 that matter to the emulator
type BootSector struct {
	OEMName           string
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors      uint32
	SectorsPerFAT     uint32
	RootCluster       uint32 // FAT32 only, zero otherwise
	VolumeLabel       string
	FSType            string
}

// FAT32 reports whether the boot sector describes a FAT32 volume
func (b *BootSector) FAT32() bool {
	return b.RootCluster != 0
}

// FirstDataSector computes the sector where the data area begins:
// reserved region, then the FATs, then the FAT12/16 root directory
func (b *BootSector) FirstDataSector() uint32 {
	rootDirSectors := common.SizeInSectors(uint32(b.RootEntryCount)*32, uint32(b.BytesPerSector))
	return uint32(b.ReservedSectors) + uint32(b.NumFATs)*b.SectorsPerFAT + rootDirSectors
}

// ReadBootSector parses the BPB out of sector 0 of the store
func (s *Store) ReadBootSector() (*BootSector, error) {
	sector := make([]byte, SectorSize)
	if err := s.ReadSectors(0, 1, sector); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadBootSector, err)
	}
	if sector[510] != 0x55 || sector[511] != 0xAA {
		return nil, fmt.Errorf("%s: missing 0x55AA signature", common.ErrFailedToReadBootSector)
	}

	r := bytes.NewReader(sector)
	bs := &BootSector{}

	if err := common.SkipBytes(r, 3); err != nil { // jump instruction
		return nil, err
	}
	oem, err := common.ReadBytes(r, 8)
	if err != nil {
		return nil, err
	}
	bs.OEMName = common.TrimPadding(oem)
	if bs.BytesPerSector, err = common.ReadUint16LE(r); err != nil {
		return nil, err
	}
	if bs.SectorsPerCluster, err = common.ReadUint8(r); err != nil {
		return nil, err
	}
	if bs.ReservedSectors, err = common.ReadUint16LE(r); err != nil {
		return nil, err
	}
	if bs.NumFATs, err = common.ReadUint8(r); err != nil {
		return nil, err
	}
	if bs.RootEntryCount, err = common.ReadUint16LE(r); err != nil {
		return nil, err
	}
	totalSectors16, err := common.ReadUint16LE(r)
	if err != nil {
		return nil, err
	}
	if err := common.SkipBytes(r, 1); err != nil { // media descriptor
		return nil, err
	}
	sectorsPerFAT16, err := common.ReadUint16LE(r)
	if err != nil {
		return nil, err
	}
	if err := common.SkipBytes(r, 8); err != nil { // geometry, hidden sectors
		return nil, err
	}
	totalSectors32, err := common.ReadUint32LE(r)
	if err != nil {
		return nil, err
	}

	bs.TotalSectors = uint32(totalSectors16)
	if bs.TotalSectors == 0 {
		bs.TotalSectors = totalSectors32
	}

	if sectorsPerFAT16 != 0 {
		// FAT12/16: volume label at offset 43, type string at 54
		bs.SectorsPerFAT = uint32(sectorsPerFAT16)
		readLabelAndType(sector, 43, 54, bs)
	} else {
		// FAT32: extended BPB
		if bs.SectorsPerFAT, err = common.ReadUint32LE(r); err != nil {
			return nil, err
		}
		if err := common.SkipBytes(r, 4); err != nil { // flags, version
			return nil, err
		}
		if bs.RootCluster, err = common.ReadUint32LE(r); err != nil {
			return nil, err
		}
		readLabelAndType(sector, 71, 82, bs)
	}

	common.LogDebug(common.DebugBootSectorFields, bs.FSType, bs.BytesPerSector, bs.SectorsPerCluster)
	return bs, nil
}

func readLabelAndType(sector []byte, labelOffset, typeOffset int, bs *BootSector) {
	bs.VolumeLabel = common.TrimPadding(sector[labelOffset : labelOffset+11])
	bs.FSType = common.TrimPadding(sector[typeOffset : typeOffset+8])
}
