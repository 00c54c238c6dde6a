package cinder

// MapOperation - A generic function for transforming an element into a new element
type MapOperation func(el interface{}) (interface{}, error)

// FilterOperation - A generic function for determining whether or not an element should be retained
type FilterOperation func(el interface{}) (bool, error)

// ReductionOperation - A generic function for folding two values into one.
// Reduction results are only deterministic if the operation is associative
// and commutative, which is the caller's responsibility - no ordering
// guarantee is provided across partitions.
type ReductionOperation func(acc interface{}, el interface{}) (interface{}, error)

// AccumulatorFactory is a function that produces a fresh Accumulator
type AccumulatorFactory func() Accumulator

// DatasetOperationResult is the result of a DatasetOperation
type DatasetOperationResult struct {
	Task Task
}

// DatasetOperation - A generic transformation of a Dataset, returning a Task
// that performs the per-element "work"
type DatasetOperation struct {
	TaskType TaskType
	Do       func(Dataset) (*DatasetOperationResult, error)
}
