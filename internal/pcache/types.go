package pcache

import (
	"strconv"

	"github.com/go-cinder/cinder"
)

// TieredConfig configures a tiered PartitionCache
type TieredConfig struct {
	InitialSize        int                        // total number of entries held in memory across the hot and compressed tiers
	CompressedFraction float32                    // portion of InitialSize held lz4-compressed rather than hot. Defaults to 0.5.
	DiskPath           string                     // directory for spill files once the compressed tier is full
	Compressor         cinder.PartitionCompressor // codec for the compressed and disk tiers
}

// Key produces the cache key for a (frame id, partition index) pair
func Key(frameID string, idx int) string {
	return frameID + "/" + strconv.Itoa(idx)
}
