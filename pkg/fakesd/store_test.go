// Package fakesd provides tests for the virtual SD card sector store
package fakesd

import (
	"bytes"
	"errors"
	"testing"
)

// testImage builds an image of sectorCount sectors where every byte of
// sector n has the value n (mod 256)
func testImage(sectorCount int) []byte {
	image := make([]byte, sectorCount*SectorSize)
	for s := 0; s < sectorCount; s++ {
		for i := 0; i < SectorSize; i++ {
			image[s*SectorSize+i] = byte(s)
		}
	}
	return image
}

func sectorOf(value byte) []byte {
	payload := make([]byte, SectorSize)
	for i := range payload {
		payload[i] = value
	}
	return payload
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(testImage(16))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store.SectorCount() != 16 {
		t.Errorf("SectorCount() = %d, want 16", store.SectorCount())
	}
	if store.SectorSize() != SectorSize {
		t.Errorf("SectorSize() = %d, want %d", store.SectorSize(), SectorSize)
	}
	if store.OverlayMode() {
		t.Error("OverlayMode() = true, want false")
	}
	if err := store.Status(); err != nil {
		t.Errorf("Status() error = %v", err)
	}
}

func TestNewStoreEmptyImage(t *testing.T) {
	if _, err := NewStore(nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("NewStore(nil) error = %v, want ErrNoImage", err)
	}
	// less than one sector rounds down to zero usable sectors
	if _, err := NewStore(make([]byte, SectorSize-1)); !errors.Is(err, ErrNoImage) {
		t.Errorf("NewStore(short) error = %v, want ErrNoImage", err)
	}
}

func TestStoreTruncatesPartialSector(t *testing.T) {
	image := make([]byte, 4*SectorSize+100)
	store, err := NewStore(image)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store.SectorCount() != 4 {
		t.Errorf("SectorCount() = %d, want 4", store.SectorCount())
	}
}

func TestReadSectors(t *testing.T) {
	store, err := NewStore(testImage(8))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	buf := make([]byte, 2*SectorSize)
	if err := store.ReadSectors(3, 2, buf); err != nil {
		t.Fatalf("ReadSectors() error = %v", err)
	}
	if !bytes.Equal(buf[:SectorSize], sectorOf(3)) {
		t.Error("sector 3 content mismatch")
	}
	if !bytes.Equal(buf[SectorSize:], sectorOf(4)) {
		t.Error("sector 4 content mismatch")
	}
}

func TestReadSectorsValidation(t *testing.T) {
	store, err := NewStore(testImage(8))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	buf := make([]byte, 16*SectorSize)

	tests := []struct {
		name    string
		sector  uint32
		count   uint32
		wantErr error
	}{
		{"zero count", 0, 0, ErrZeroCount},
		{"start beyond end", 8, 1, ErrOutOfRange},
		{"count beyond end", 6, 3, ErrOutOfRange},
		{"count wildly beyond end", 0, 16, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReadSectors(tt.sector, tt.count, buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadSectors(%d, %d) error = %v, want %v", tt.sector, tt.count, err, tt.wantErr)
			}
			err = store.WriteSectors(tt.sector, tt.count, buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WriteSectors(%d, %d) error = %v, want %v", tt.sector, tt.count, err, tt.wantErr)
			}
		})
	}
}

func TestReadSectorsShortBuffer(t *testing.T) {
	store, err := NewStore(testImage(8))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	buf := make([]byte, SectorSize)
	if err := store.ReadSectors(0, 2, buf); !errors.Is(err, ErrBufferSize) {
		t.Errorf("ReadSectors() error = %v, want ErrBufferSize", err)
	}
}

func TestCheckRangeLargeGeometry(t *testing.T) {
	// A card this size is never allocated by the tests; the geometry alone
	// exercises the byte arithmetic. 1<<23 sectors of 512 bytes is 4 GiB,
	// which wraps to zero in 32-bit math.
	store := &Store{sectorCount: 1 << 24}

	if err := store.checkRange(0, 1<<23, nil); !errors.Is(err, ErrBufferSize) {
		t.Errorf("checkRange(4 GiB range, nil buf) error = %v, want ErrBufferSize", err)
	}
	if err := store.checkRange(1<<23, 1<<23, make([]byte, SectorSize)); !errors.Is(err, ErrBufferSize) {
		t.Errorf("checkRange(offset 4 GiB range, short buf) error = %v, want ErrBufferSize", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	image := testImage(8)
	for _, overlay := range []bool{false, true} {
		name := "full copy"
		if overlay {
			name = "overlay"
		}
		t.Run(name, func(t *testing.T) {
			var store *Store
			var err error
			if overlay {
				store, err = NewOverlayStore(image, 16)
			} else {
				store, err = NewStore(image)
			}
			if err != nil {
				t.Fatalf("store construction error = %v", err)
			}

			payload := append(sectorOf(0xAA), sectorOf(0xBB)...)
			if err := store.WriteSectors(2, 2, payload); err != nil {
				t.Fatalf("WriteSectors() error = %v", err)
			}

			got := make([]byte, 2*SectorSize)
			if err := store.ReadSectors(2, 2, got); err != nil {
				t.Fatalf("ReadSectors() error = %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Error("read-back differs from written payload")
			}

			// base image must stay untouched
			if !bytes.Equal(image[2*SectorSize:3*SectorSize], sectorOf(2)) {
				t.Error("base image mutated by write")
			}
		})
	}
}

func TestOverlayLeavesOtherSectorsUnchanged(t *testing.T) {
	store, err := NewOverlayStore(testImage(8), 16)
	if err != nil {
		t.Fatalf("NewOverlayStore() error = %v", err)
	}
	if err := store.WriteSectors(4, 1, sectorOf(0xEE)); err != nil {
		t.Fatalf("WriteSectors() error = %v", err)
	}

	buf := make([]byte, SectorSize)
	for s := uint32(0); s < 8; s++ {
		if err := store.ReadSectors(s, 1, buf); err != nil {
			t.Fatalf("ReadSectors(%d) error = %v", s, err)
		}
		want := sectorOf(byte(s))
		if s == 4 {
			want = sectorOf(0xEE)
		}
		if !bytes.Equal(buf, want) {
			t.Errorf("sector %d content mismatch", s)
		}
	}
}

func TestOverlayCapacityExhausted(t *testing.T) {
	store, err := NewOverlayStore(testImage(8), 2)
	if err != nil {
		t.Fatalf("NewOverlayStore() error = %v", err)
	}

	// a three-sector write into a two-slot overlay fails partway through
	payload := make([]byte, 3*SectorSize)
	for i := range payload {
		payload[i] = 0x5A
	}
	err = store.WriteSectors(1, 3, payload)
	if !errors.Is(err, ErrOverlayFull) {
		t.Fatalf("WriteSectors() error = %v, want ErrOverlayFull", err)
	}
	if store.OverlayUsed() != 2 {
		t.Errorf("OverlayUsed() = %d, want 2", store.OverlayUsed())
	}

	// the sectors accepted before the failure stay written
	buf := make([]byte, SectorSize)
	if err := store.ReadSectors(1, 1, buf); err != nil {
		t.Fatalf("ReadSectors() error = %v", err)
	}
	if !bytes.Equal(buf, sectorOf(0x5A)) {
		t.Error("sector 1 lost the write accepted before exhaustion")
	}
	if err := store.ReadSectors(3, 1, buf); err != nil {
		t.Fatalf("ReadSectors() error = %v", err)
	}
	if !bytes.Equal(buf, sectorOf(3)) {
		t.Error("sector 3 should still hold base image content")
	}

	// rewriting an already-cached sector does not need a new slot
	if err := store.WriteSectors(1, 1, sectorOf(0x11)); err != nil {
		t.Errorf("rewrite of cached sector error = %v", err)
	}
}

func TestReset(t *testing.T) {
	for _, overlay := range []bool{false, true} {
		store, err := NewStore(testImage(8))
		if overlay {
			store, err = NewOverlayStore(testImage(8), 4)
		}
		if err != nil {
			t.Fatalf("store construction error = %v", err)
		}
		if err := store.WriteSectors(0, 1, sectorOf(0xFF)); err != nil {
			t.Fatalf("WriteSectors() error = %v", err)
		}
		if err := store.Reset(); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
		buf := make([]byte, SectorSize)
		if err := store.ReadSectors(0, 1, buf); err != nil {
			t.Fatalf("ReadSectors() error = %v", err)
		}
		if !bytes.Equal(buf, sectorOf(0)) {
			t.Errorf("overlay=%v: Reset() did not restore base content", overlay)
		}
		if store.OverlayUsed() != 0 {
			t.Errorf("overlay=%v: OverlayUsed() = %d after Reset, want 0", overlay, store.OverlayUsed())
		}
	}
}
