package dataset

import (
	"log"

	"github.com/go-cinder/cinder"
	cerrors "github.com/go-cinder/cinder/errors"
	uuid "github.com/gofrs/uuid"
)

// A datasetImpl implements Dataset internally for Cinder. Each datasetImpl is
// one frame of the transformation DAG: it references its parent frame (never
// owning it - ancestry is shared structurally between handles) and carries
// the per-element Task introduced at this frame. Frames are immutable after
// creation except for the cached flag, which is set-once.
type datasetImpl struct {
	id       string
	parent   *datasetImpl   // the parent Dataset. Nil if this is the source frame.
	source   cinder.DataSource
	task     cinder.Task    // the task represented by this frame, nil for the source frame
	taskType cinder.TaskType
	cached   bool           // true iff this frame has been marked for memoization
}

// CreateDataset is a factory for Datasets. This function is not intended to
// be used directly, as Datasets are returned by DataSource packages.
func CreateDataset(source cinder.DataSource) cinder.Dataset {
	return &datasetImpl{
		id:       newID(),
		parent:   nil,
		source:   source,
		task:     nil,
		taskType: cinder.ExtractTaskType,
	}
}

func newID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID: %v", err)
	}
	return id.String()
}

// ID retrieves the unique ID of this Dataset's newest frame
func (ds *datasetImpl) ID() string {
	return ds.id
}

// GetDataSource returns the DataSource at the root of this Dataset's lineage
func (ds *datasetImpl) GetDataSource() cinder.DataSource {
	return ds.source
}

// GetTaskType returns the type of the transformation this Dataset represents
func (ds *datasetImpl) GetTaskType() cinder.TaskType {
	return ds.taskType
}

// IsCached returns true iff this Dataset has been marked for memoization
func (ds *datasetImpl) IsCached() bool {
	return ds.cached
}

// To is a "functional operations" factory method for Datasets, chaining
// operations onto the current one(s). No element of the underlying data is
// touched. A cache-marker operation sets the cached flag on the current frame
// and yields the same logical handle, idempotently; every other operation
// yields a new frame whose parent is the current one.
func (ds *datasetImpl) To(ops ...*cinder.DatasetOperation) (cinder.Dataset, error) {
	next := ds
	// See https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for details of approach
	for _, op := range ops {
		if op == nil || op.Do == nil {
			return nil, cerrors.InvalidOperatorError{TaskType: "unknown", Reason: "nil operation"}
		}
		if op.TaskType == cinder.CacheTaskType {
			next.cached = true
			continue
		}
		result, err := op.Do(next)
		if err != nil {
			return nil, err
		}
		next = &datasetImpl{
			id:       newID(),
			parent:   next,
			source:   next.source,
			task:     result.Task,
			taskType: op.TaskType,
		}
	}
	return next, nil
}
