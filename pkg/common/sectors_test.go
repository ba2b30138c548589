// Package common provides tests for sector and cluster arithmetic
package common

import "testing"

func TestSizeInSectors(t *testing.T) {
	tests := []struct {
		size       uint32
		sectorSize uint32
		want       uint32
	}{
		{0, 512, 0},
		{1, 512, 1},
		{512, 512, 1},
		{513, 512, 2},
		{1024, 512, 2},
	}
	for _, tt := range tests {
		if got := SizeInSectors(tt.size, tt.sectorSize); got != tt.want {
			t.Errorf("SizeInSectors(%d, %d) = %d, want %d", tt.size, tt.sectorSize, got, tt.want)
		}
	}
}

func TestSizeInClusters(t *testing.T) {
	tests := []struct {
		size        int64
		clusterSize int64
		want        uint32
	}{
		{0, 2048, 1}, // empty files still occupy one cluster
		{1, 2048, 1},
		{2048, 2048, 1},
		{2049, 2048, 2},
		{4096, 2048, 2},
	}
	for _, tt := range tests {
		if got := SizeInClusters(tt.size, tt.clusterSize); got != tt.want {
			t.Errorf("SizeInClusters(%d, %d) = %d, want %d", tt.size, tt.clusterSize, got, tt.want)
		}
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{100, "100 B"},
		{2048, "2.0 KiB"},
		{8 * 1024 * 1024, "8.0 MiB"},
	}
	for _, tt := range tests {
		if got := HumanSize(tt.size); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestTrimPadding(t *testing.T) {
	tests := []struct {
		field []byte
		want  string
	}{
		{[]byte("NO NAME    "), "NO NAME"},
		{[]byte("SYSTEM\x00\x00"), "SYSTEM"},
		{[]byte("        "), ""},
	}
	for _, tt := range tests {
		if got := TrimPadding(tt.field); got != tt.want {
			t.Errorf("TrimPadding(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
