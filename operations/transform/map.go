package transform

import (
	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/errors"
	iutil "github.com/go-cinder/cinder/internal/util"
)

type mapTask struct {
	fn cinder.MapOperation
}

func (t *mapTask) Name() string {
	return "map"
}

func (t *mapTask) Apply(el interface{}) (interface{}, bool, error) {
	out, err := t.fn(el)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Map transforms each element of a Dataset into a new element. No data is
// touched until an action runs.
func Map(fn cinder.MapOperation) *cinder.DatasetOperation {
	return &cinder.DatasetOperation{
		TaskType: cinder.MapTaskType,
		Do: func(d cinder.Dataset) (*cinder.DatasetOperationResult, error) {
			if fn == nil {
				return nil, errors.InvalidOperatorError{TaskType: "map", Reason: "nil map function"}
			}
			return &cinder.DatasetOperationResult{
				Task: &mapTask{fn: iutil.SafeMapOperation(fn)},
			}, nil
		},
	}
}
