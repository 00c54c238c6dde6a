package accumulators

import (
	"fmt"

	"github.com/go-cinder/cinder"
)

// Compose returns a factory for Composed Accumulators
func Compose(faccs ...cinder.AccumulatorFactory) cinder.AccumulatorFactory {
	return func() cinder.Accumulator {
		accs := make([]cinder.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators, feeding every element to each of them
type Composed struct {
	accs []cinder.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []cinder.Accumulator {
	return c.accs
}

// Accumulate adds an element to all contained Accumulators
func (c *Composed) Accumulate(el interface{}) error {
	for _, a := range c.accs {
		if err := a.Accumulate(el); err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Accumulator into this one
func (c *Composed) Merge(o cinder.Accumulator) error {
	co, ok := o.(*Composed)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Composed Accumulator")
	}
	if len(co.accs) != len(c.accs) {
		return fmt.Errorf("Incoming Composed Accumulator has a different shape")
	}
	for i, a := range c.accs {
		if err := a.Merge(co.accs[i]); err != nil {
			return err
		}
	}
	return nil
}
