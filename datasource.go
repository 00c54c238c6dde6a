package cinder

// A DataSource is a source of elements which will be manipulated according to
// transformations and actions defined in a Dataset. It describes how the
// underlying collection is divided into Partitions, and how to materialize
// each one. Partition count is fixed for the life of a DataSource.
type DataSource interface {
	ID() string                      // ID retrieves the unique ID of this DataSource
	Name() string                    // Name returns a human-readable name for this DataSource, for lineage listings
	NumPartitions() int              // NumPartitions returns the fixed number of Partitions this DataSource divides its data into
	Load(idx int) (Partition, error) // Load materializes a single Partition of source data
}
