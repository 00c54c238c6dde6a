package cinder

// An Accumulator is the terminal stage of an action, which siphons elements
// from Partitions into a custom data structure. One Accumulator is produced
// per Partition, each fed strictly sequentially, and partial results are then
// merged in ascending partition order. Accumulators are how Reduce and Count
// are implemented, and custom ones may be supplied via Engine.Accumulate.
type Accumulator interface {
	Accumulate(el interface{}) error // Accumulate adds an element to this Accumulator
	Merge(o Accumulator) error       // Merge merges another Accumulator into this one
}
