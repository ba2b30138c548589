// Package common provides tests for the little-endian readers
package common

import (
	"bytes"
	"testing"
)

func TestLittleEndianReaders(t *testing.T) {
	r := bytes.NewReader([]byte{0x12, 0x34, 0x12, 0x78, 0x56, 0x34, 0x12, 0xFF})

	v8, err := ReadUint8(r)
	if err != nil || v8 != 0x12 {
		t.Errorf("ReadUint8() = %#x, %v, want 0x12", v8, err)
	}
	v16, err := ReadUint16LE(r)
	if err != nil || v16 != 0x1234 {
		t.Errorf("ReadUint16LE() = %#x, %v, want 0x1234", v16, err)
	}
	v32, err := ReadUint32LE(r)
	if err != nil || v32 != 0x12345678 {
		t.Errorf("ReadUint32LE() = %#x, %v, want 0x12345678", v32, err)
	}
}

func TestReadBytes(t *testing.T) {
	r := bytes.NewReader([]byte("FAT16   "))
	got, err := ReadBytes(r, 5)
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if string(got) != "FAT16" {
		t.Errorf("ReadBytes() = %q, want %q", got, "FAT16")
	}

	if _, err := ReadBytes(r, 10); err == nil {
		t.Error("ReadBytes() past end succeeded, want error")
	}
}

func TestSkipBytes(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3, 4, 5})
	if err := SkipBytes(r, 3); err != nil {
		t.Fatalf("SkipBytes() error = %v", err)
	}
	v, err := ReadUint8(r)
	if err != nil || v != 4 {
		t.Errorf("ReadUint8() after skip = %d, %v, want 4", v, err)
	}
}

func TestSafeIntToUint32(t *testing.T) {
	if _, err := SafeIntToUint32(-1); err == nil {
		t.Error("SafeIntToUint32(-1) succeeded, want error")
	}
	v, err := SafeIntToUint32(2048)
	if err != nil || v != 2048 {
		t.Errorf("SafeIntToUint32(2048) = %d, %v", v, err)
	}
}
