package cinder

import "io"

// PartitionCache stores materialized Partitions for Datasets which have been
// marked for memoization. Entries are keyed by (frame id, partition index).
// A written entry remains retrievable until explicitly invalidated - the
// cache may demote entries to cheaper storage tiers, but never discards them.
// Concurrent Puts for distinct keys are independent; concurrent Puts for the
// same key are last-write-wins.
type PartitionCache interface {
	Destroy()                                         // Destroy tears down this cache, removing any spill files
	Put(frameID string, idx int, part Partition)      // Put stores a materialized Partition, overwriting any previous entry for the same key
	Get(frameID string, idx int) (Partition, error)   // Get retrieves a previously stored Partition, promoting it to the hot tier. The entry remains in the cache.
	HasAll(frameID string, numPartitions int) bool    // HasAll returns true iff every partition index for the given frame has an entry
	NumElements(frameID string) int                   // NumElements returns the total number of elements materialized for the given frame
	Invalidate(frameID string)                        // Invalidate removes all entries for the given frame
}

// PartitionCompressor serializes and compresses Partitions for the cold tiers
// of a PartitionCache
type PartitionCompressor interface {
	Compress(w io.Writer, part Partition) error // Compress serializes and compresses partition data to a write stream
	Decompress(r io.Reader) (Partition, error)  // Decompress decompresses and deserializes partition data from a read stream
	Destroy()                                   // Destroy tears down this PartitionCompressor
}
