package util

import (
	"github.com/go-cinder/cinder"
)

// Cache marks the current frame of a Dataset for memoization: the first
// action to execute through it materializes its per-partition results into
// the engine's partition cache, and later actions read the materialized data
// instead of recomputing it (or re-reading a mutated source). Marking is
// idempotent and yields the same logical handle - no new frame is created.
func Cache() *cinder.DatasetOperation {
	return &cinder.DatasetOperation{
		TaskType: cinder.CacheTaskType,
		Do: func(d cinder.Dataset) (*cinder.DatasetOperationResult, error) {
			// the cache marker is handled by Dataset.To itself
			return &cinder.DatasetOperationResult{}, nil
		},
	}
}
