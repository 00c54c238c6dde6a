package transform

import (
	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/errors"
	iutil "github.com/go-cinder/cinder/internal/util"
)

type filterTask struct {
	fn cinder.FilterOperation
}

func (t *filterTask) Name() string {
	return "filter"
}

func (t *filterTask) Apply(el interface{}) (interface{}, bool, error) {
	keep, err := t.fn(el)
	if err != nil {
		return nil, false, err
	}
	return el, keep, nil
}

// Filter retains only the elements of a Dataset for which fn returns true.
// No data is touched until an action runs.
func Filter(fn cinder.FilterOperation) *cinder.DatasetOperation {
	return &cinder.DatasetOperation{
		TaskType: cinder.FilterTaskType,
		Do: func(d cinder.Dataset) (*cinder.DatasetOperationResult, error) {
			if fn == nil {
				return nil, errors.InvalidOperatorError{TaskType: "filter", Reason: "nil filter predicate"}
			}
			return &cinder.DatasetOperationResult{
				Task: &filterTask{fn: iutil.SafeFilterOperation(fn)},
			}, nil
		},
	}
}
