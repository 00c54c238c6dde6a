package accumulators

import (
	"fmt"

	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/errors"
)

// Reducer returns a factory for Reduce Accumulators folding with fn
func Reducer(fn cinder.ReductionOperation) cinder.AccumulatorFactory {
	return func() cinder.Accumulator {
		return &Reduce{fn: fn}
	}
}

// Reduce folds elements with a binary ReductionOperation, holding a single
// accumulated value rather than buffering any intermediate sequence. Elements
// arrive strictly sequentially within a partition; partial results are merged
// across partitions in ascending index order.
type Reduce struct {
	fn     cinder.ReductionOperation
	result interface{}
	seen   bool
}

// GetResult returns the folded value, or an EmptyDatasetError if no element
// was ever accumulated
func (a *Reduce) GetResult() (interface{}, error) {
	if !a.seen {
		return nil, errors.EmptyDatasetError{}
	}
	return a.result, nil
}

// Accumulate folds an element into this Accumulator
func (a *Reduce) Accumulate(el interface{}) error {
	if !a.seen {
		a.result = el
		a.seen = true
		return nil
	}
	out, err := a.fn(a.result, el)
	if err != nil {
		return err
	}
	a.result = out
	return nil
}

// Merge merges another Accumulator into this one
func (a *Reduce) Merge(o cinder.Accumulator) error {
	ra, ok := o.(*Reduce)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Reduce Accumulator")
	}
	if !ra.seen {
		return nil
	}
	if !a.seen {
		a.result = ra.result
		a.seen = true
		return nil
	}
	out, err := a.fn(a.result, ra.result)
	if err != nil {
		return err
	}
	a.result = out
	return nil
}
