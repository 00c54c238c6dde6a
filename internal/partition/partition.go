package partition

import (
	"fmt"

	"github.com/go-cinder/cinder"
)

// partitionImpl is an ordered, in-memory sequence of elements
type partitionImpl struct {
	ownerID  string
	idx      int
	elements []interface{}
}

// CreatePartition creates a new Partition with a given capacity, belonging to
// the collection or frame identified by ownerID
func CreatePartition(ownerID string, idx int, capacity int) cinder.BuildablePartition {
	return &partitionImpl{
		ownerID:  ownerID,
		idx:      idx,
		elements: make([]interface{}, 0, capacity),
	}
}

// FromElements creates a Partition wrapping an existing element slice. The
// slice is owned by the Partition after this call.
func FromElements(ownerID string, idx int, elements []interface{}) cinder.BuildablePartition {
	return &partitionImpl{
		ownerID:  ownerID,
		idx:      idx,
		elements: elements,
	}
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return fmt.Sprintf("%s-%d", p.ownerID, p.idx)
}

// Index retrieves the position of this Partition within its collection
func (p *partitionImpl) Index() int {
	return p.idx
}

// GetNumElements retrieves the number of elements in this Partition
func (p *partitionImpl) GetNumElements() int {
	return len(p.elements)
}

// GetElement retrieves a specific element from this Partition
func (p *partitionImpl) GetElement(i int) interface{} {
	return p.elements[i]
}

// ForEachElement iterates over elements in this Partition, stopping at the
// first error
func (p *partitionImpl) ForEachElement(fn func(i int, el interface{}) error) error {
	for i, el := range p.elements {
		if err := fn(i, el); err != nil {
			return err
		}
	}
	return nil
}

// Append adds an element to the end of this Partition
func (p *partitionImpl) Append(el interface{}) {
	p.elements = append(p.elements, el)
}
