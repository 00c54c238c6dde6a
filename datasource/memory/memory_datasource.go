package memory

import (
	"log"

	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/errors"
	"github.com/go-cinder/cinder/internal/dataset"
	"github.com/go-cinder/cinder/internal/partition"
	uuid "github.com/gofrs/uuid"
)

// SourceConf configures an in-memory DataSource
type SourceConf struct {
	NumPartitions int // The number of Partitions the data is divided into. Defaults to 2.
}

// DataSource is an in-memory buffer of elements which will be manipulated
// according to a Dataset. The buffer is read at execution time, not at
// construction: a caller who mutates it between actions will observe the
// mutation on uncached lineages only.
type DataSource struct {
	id   string
	data []interface{}
	conf *SourceConf
}

// CreateDataset is a factory for in-memory Datasets, dividing data into a
// fixed number of contiguous Partitions
func CreateDataset(data []interface{}, conf *SourceConf) cinder.Dataset {
	if conf == nil {
		conf = &SourceConf{}
	}
	if conf.NumPartitions == 0 {
		conf.NumPartitions = 2
	}
	if conf.NumPartitions < 1 {
		log.Panicf("SourceConf.NumPartitions %d must be at least 1", conf.NumPartitions)
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID: %v", err)
	}
	source := &DataSource{id: id.String(), data: data, conf: conf}
	return dataset.CreateDataset(source)
}

// ID retrieves the unique ID of this DataSource
func (s *DataSource) ID() string {
	return s.id
}

// Name returns a human-readable name for this DataSource
func (s *DataSource) Name() string {
	return "memory"
}

// NumPartitions returns the fixed number of Partitions this DataSource
// divides its data into
func (s *DataSource) NumPartitions() int {
	return s.conf.NumPartitions
}

// Load materializes a single Partition of source data. Elements are copied
// out of the backing buffer at call time.
func (s *DataSource) Load(idx int) (cinder.Partition, error) {
	if idx < 0 || idx >= s.conf.NumPartitions {
		return nil, errors.NoMorePartitionsError{Index: idx}
	}
	start, end := partitionRange(len(s.data), s.conf.NumPartitions, idx)
	elements := make([]interface{}, end-start)
	copy(elements, s.data[start:end])
	return partition.FromElements(s.id, idx, elements), nil
}

// partitionRange computes the contiguous element range [start, end) for a
// partition, distributing any remainder across the leading partitions
func partitionRange(numElements, numPartitions, idx int) (int, int) {
	base := numElements / numPartitions
	rem := numElements % numPartitions
	start := base*idx + min(idx, rem)
	size := base
	if idx < rem {
		size++
	}
	return start, start + size
}
