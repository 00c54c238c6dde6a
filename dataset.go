package cinder

// A Dataset is a tool for constructing a chain of deferred transformations
// over a partitioned collection of elements. Datasets are immutable handles:
// chaining an operation produces a new Dataset whose ancestry is shared
// structurally with the original, and never touches any element of the
// underlying data. Only an action (Engine.Reduce, Engine.Count, ...) triggers
// execution.
type Dataset interface {
	ID() string                                // ID retrieves the unique ID of this Dataset's newest frame
	GetDataSource() DataSource                 // GetDataSource returns the DataSource at the root of this Dataset's lineage
	GetTaskType() TaskType                     // GetTaskType returns the type of the transformation this Dataset represents
	IsCached() bool                            // IsCached returns true iff this Dataset has been marked for memoization
	To(...*DatasetOperation) (Dataset, error)  // To is a "functional operations" factory method for Datasets, chaining operations onto the current one(s).
}
