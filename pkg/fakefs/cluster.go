// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains the synthetic cluster-chain arithmetic. Files get
// contiguous chains, so the chain can be computed from a file's size and
// start cluster instead of being stored in an on-disk FAT. The results must
// match what a real FAT walker would produce for a contiguous allocation;
// the firmware streams ROM data by walking clusters this way.
package fakefs

import "github.com/shawly/SimpleLight/pkg/common"

// EndOfChain is the end-of-cluster-chain sentinel returned by NextCluster,
// matching the FAT16 end marker the firmware checks against
const EndOfChain uint32 = 0xFFFF

// ClusterSizeBytes returns the size of one cluster in bytes
func (f *Filesystem) ClusterSizeBytes() int64 {
	return int64(f.cfg.SectorsPerCluster) * int64(f.cfg.SectorSize)
}

// NextCluster returns the cluster following current in the file's chain, or
// EndOfChain when current is the file's last cluster. A current value below
// the chain start returns the start cluster.
func (f *Filesystem) NextCluster(fp *File, current uint32) uint32 {
	if fp.valid() != nil {
		return EndOfChain
	}
	clusters := common.SizeInClusters(fp.node.size, f.ClusterSizeBytes())
	start := fp.node.startCluster
	if start == 0 {
		start = 2
	}
	if current < start {
		return start
	}
	index := current - start
	if index+1 >= clusters {
		return EndOfChain
	}
	return current + 1
}

// ClusterToSector maps a cluster number to the sector where its data begins.
// The mapping is linear from the configured data-area base; cluster numbering
// starts at 2 per FAT convention.
func (f *Filesystem) ClusterToSector(cluster uint32) uint32 {
	if cluster < 2 {
		return 0
	}
	return f.cfg.DataBaseSector + (cluster-2)*f.cfg.SectorsPerCluster
}
