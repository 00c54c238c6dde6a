package errors

import (
	"fmt"
)

// InvalidOperatorError occurs when a transformation or action is constructed
// with malformed arguments, such as a nil function. It is raised
// synchronously at construction time, before any frame is created, and never
// triggers execution.
type InvalidOperatorError struct {
	TaskType string
	Reason   string
}

// Error returns a textual representation of this InvalidOperatorError
func (e InvalidOperatorError) Error() string {
	return fmt.Sprintf("Invalid %s operator: %s", e.TaskType, e.Reason)
}

// ComputationError occurs when a user-supplied function fails or panics while
// processing an element during an action. It carries the partition index and
// element offset of the failure. Cache entries already committed by other
// partitions are not rolled back.
type ComputationError struct {
	PartitionIndex int
	ElementIndex   int
	Cause          error
}

// Error returns a textual representation of this ComputationError
func (e ComputationError) Error() string {
	return fmt.Sprintf("Computation failed in partition %d at element %d: %v", e.PartitionIndex, e.ElementIndex, e.Cause)
}

// Unwrap returns the underlying cause of this ComputationError
func (e ComputationError) Unwrap() error {
	return e.Cause
}

// CacheConsistencyError occurs when the partition cache claims full coverage
// for a frame but a lookup for a valid partition index misses. It signals an
// implementation bug and is always fatal to the in-flight action.
type CacheConsistencyError struct {
	Key string
}

// Error returns a textual representation of this CacheConsistencyError
func (e CacheConsistencyError) Error() string {
	return fmt.Sprintf("Cache entry %s missing despite full coverage", e.Key)
}

// EmptyDatasetError occurs when a Reduce action is applied to a Dataset which
// yields no elements
type EmptyDatasetError struct{}

// Error returns a textual representation of this EmptyDatasetError
func (e EmptyDatasetError) Error() string {
	return "Cannot reduce an empty Dataset"
}

// NoMorePartitionsError occurs when a partition index outside a DataSource's
// range is requested
type NoMorePartitionsError struct {
	Index int
}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return fmt.Sprintf("No partition with index %d", e.Index)
}
