package cinder

// A Partition is a contiguous portion of a partitioned collection, consisting
// of an ordered sequence of elements. Partitions are immutable once produced,
// and are not generally interacted with directly, instead being manipulated
// in parallel by the plan executor.
type Partition interface {
	ID() string                                          // ID retrieves the ID of this Partition
	Index() int                                          // Index retrieves the position of this Partition within its collection
	GetNumElements() int                                 // GetNumElements retrieves the number of elements in this Partition
	GetElement(i int) interface{}                        // GetElement retrieves a specific element from this Partition
	ForEachElement(fn func(i int, el interface{}) error) error // ForEachElement iterates over elements in a Partition, stopping at the first error
}

// A BuildablePartition can be appended to. Used in the implementation of
// DataSources and in the materialization of cached results.
type BuildablePartition interface {
	Partition
	Append(el interface{}) // Append adds an element to the end of this Partition
}
