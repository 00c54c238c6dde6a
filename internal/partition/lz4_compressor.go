package partition

import (
	"encoding/gob"
	"io"

	"github.com/go-cinder/cinder"
	"github.com/pierrec/lz4"
)

func init() {
	// element values travel inside interface{} slots, so their concrete
	// types must be registered for gob. Callers caching custom element
	// types register them the same way.
	gob.Register(int(0))
	gob.Register(int8(0))
	gob.Register(int16(0))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(uint(0))
	gob.Register(uint8(0))
	gob.Register(uint16(0))
	gob.Register(uint32(0))
	gob.Register(uint64(0))
	gob.Register(float32(0))
	gob.Register(float64(0))
	gob.Register(false)
	gob.Register("")
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
}

// gobPartition is the wire form of a partitionImpl
type gobPartition struct {
	OwnerID  string
	Index    int
	Elements []interface{}
}

// LZ4PartitionCompressor serializes Partitions with gob and compresses them
// with the lz4 compression algorithm. Used by the partition cache's cold
// tiers.
type LZ4PartitionCompressor struct{}

// CreateLZ4PartitionCompressor instantiates a new LZ4PartitionCompressor
func CreateLZ4PartitionCompressor() cinder.PartitionCompressor {
	return &LZ4PartitionCompressor{}
}

// Compress serializes and compresses partition data to a write stream
func (lz4pc *LZ4PartitionCompressor) Compress(w io.Writer, part cinder.Partition) error {
	elements := make([]interface{}, part.GetNumElements())
	for i := range elements {
		elements[i] = part.GetElement(i)
	}
	var ownerID string
	if p, ok := part.(*partitionImpl); ok {
		ownerID = p.ownerID
	} else {
		ownerID = part.ID()
	}
	compressor := lz4.NewWriter(w)
	enc := gob.NewEncoder(compressor)
	if err := enc.Encode(&gobPartition{
		OwnerID:  ownerID,
		Index:    part.Index(),
		Elements: elements,
	}); err != nil {
		return err
	}
	return compressor.Close()
}

// Decompress decompresses and deserializes partition data from a read stream
func (lz4pc *LZ4PartitionCompressor) Decompress(r io.Reader) (cinder.Partition, error) {
	decompressor := lz4.NewReader(r)
	dec := gob.NewDecoder(decompressor)
	var gp gobPartition
	if err := dec.Decode(&gp); err != nil {
		return nil, err
	}
	return FromElements(gp.OwnerID, gp.Index, gp.Elements), nil
}

// Destroy tears down this PartitionCompressor
func (lz4pc *LZ4PartitionCompressor) Destroy() {}
