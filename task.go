package cinder

// A Task is a transformation step applied to the elements of a Partition.
type Task interface {
	Name() string // Name returns a human-readable name for this Task
}

// An ElementTask is a Task which processes one element at a time. Runs of
// ElementTasks are fused by the plan compiler into a single pass per
// partition, so no intermediate partition is materialized between them.
type ElementTask interface {
	Task
	// Apply processes a single element, returning the transformed element
	// and whether it should be retained downstream.
	Apply(el interface{}) (out interface{}, keep bool, err error)
}
