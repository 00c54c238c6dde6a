package cinder

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about a running
// Cinder engine
type RuntimeStatistics interface {
	// GetStartTime returns the time at which the engine ran its first action
	GetStartTime() time.Time
	// GetNumActionsRun returns the number of actions executed so far
	GetNumActionsRun() int64
	// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far
	GetNumPartitionsProcessed() int64
	// GetNumElementsProcessed returns the number of elements which have been processed so far
	GetNumElementsProcessed() int64
	// GetNumCacheHits returns the number of partition cache hits so far
	GetNumCacheHits() int64
	// GetNumCacheMisses returns the number of partition cache misses so far
	GetNumCacheMisses() int64
	// GetLastActionRuntime returns the wall-clock runtime of the most recent action
	GetLastActionRuntime() time.Duration
}
