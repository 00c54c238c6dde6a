package stats

import (
	"sync"
	"time"
)

// RunStatistics tracks statistics about a running Cinder engine. All methods
// are safe for concurrent use by partition workers.
type RunStatistics struct {
	lock                 sync.Mutex
	started              bool
	startTime            time.Time
	actionsRun           int64
	partitionsProcessed  int64
	elementsProcessed    int64
	cacheHits            int64
	cacheMisses          int64
	lastActionRuntime    time.Duration
}

// CreateRunStatistics produces an empty RunStatistics tracker
func CreateRunStatistics() *RunStatistics {
	return &RunStatistics{}
}

// StartAction records the beginning of an action, returning its start time
func (rs *RunStatistics) StartAction() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	now := time.Now()
	if !rs.started {
		rs.started = true
		rs.startTime = now
	}
	rs.actionsRun++
	return now
}

// FinishAction records the end of an action begun at start
func (rs *RunStatistics) FinishAction(start time.Time) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.lastActionRuntime = time.Since(start)
}

// RecordPartition records the processing of one partition containing
// numElements elements
func (rs *RunStatistics) RecordPartition(numElements int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.partitionsProcessed++
	rs.elementsProcessed += int64(numElements)
}

// RecordCacheHit records a partition cache hit
func (rs *RunStatistics) RecordCacheHit() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.cacheHits++
}

// RecordCacheMiss records a partition cache miss
func (rs *RunStatistics) RecordCacheMiss() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.cacheMisses++
}

// GetStartTime returns the time at which the engine ran its first action
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetNumActionsRun returns the number of actions executed so far
func (rs *RunStatistics) GetNumActionsRun() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.actionsRun
}

// GetNumPartitionsProcessed returns the number of Partitions processed so far
func (rs *RunStatistics) GetNumPartitionsProcessed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.partitionsProcessed
}

// GetNumElementsProcessed returns the number of elements processed so far
func (rs *RunStatistics) GetNumElementsProcessed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.elementsProcessed
}

// GetNumCacheHits returns the number of partition cache hits so far
func (rs *RunStatistics) GetNumCacheHits() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.cacheHits
}

// GetNumCacheMisses returns the number of partition cache misses so far
func (rs *RunStatistics) GetNumCacheMisses() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.cacheMisses
}

// GetLastActionRuntime returns the wall-clock runtime of the most recent action
func (rs *RunStatistics) GetLastActionRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.lastActionRuntime
}
