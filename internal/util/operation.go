package util

import (
	"fmt"

	"github.com/go-cinder/cinder"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp cinder.MapOperation) (safeMapOp cinder.MapOperation) {
	return func(el interface{}) (out interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nElement: %v\n%s", anErr, el, GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nElement: %v\n%s", r, el, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nElement: %v", err, el)
			}
		}()
		out, err = mapOp(el)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp cinder.FilterOperation) (safeFilterOp cinder.FilterOperation) {
	return func(el interface{}) (keep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Filter Panic: %w\nElement: %v\n%s", anErr, el, GetTrace())
				} else {
					err = fmt.Errorf("Filter Panic: %v\nElement: %v\n%s", r, el, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nElement: %v", err, el)
			}
		}()
		keep, err = filterOp(el)
		return
	}
}

// SafeReductionOperation wraps a ReductionOperation such that panics are recovered and nice error messages are constructed
func SafeReductionOperation(reductionOp cinder.ReductionOperation) (safeReductionOp cinder.ReductionOperation) {
	return func(acc interface{}, el interface{}) (out interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Reduction Panic: %w\nAccumulated: %v\nElement: %v\n%s", anErr, acc, el, GetTrace())
				} else {
					err = fmt.Errorf("Reduction Panic: %v\nAccumulated: %v\nElement: %v\n%s", r, acc, el, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Reduction Error: %w\nAccumulated: %v\nElement: %v", err, acc, el)
			}
		}()
		out, err = reductionOp(acc, el)
		return
	}
}
