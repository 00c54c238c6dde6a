package pcache

import (
	"bytes"
	"container/list"
	"fmt"
	"log"
	"os"
	"path"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/docker/docker/pkg/locker"
	"github.com/go-cinder/cinder"
)

// tiered is a PartitionCache which never discards entries. Memory stays
// bounded by demoting the least-recently-used entries to an lz4-compressed
// in-memory tier, and from there to disk. Accessed entries are promoted back
// to the hot tier.
type tiered struct {
	config         *TieredConfig
	plocks         *locker.Locker
	lock           sync.Mutex             // guards all tier maps, lists and the index
	hot            map[string]*list.Element
	hotList        *list.List             // back is oldest, front is newest
	compressed     map[string]*list.Element
	compressedList *list.List             // back is oldest, front is newest
	disk           map[string]string      // key to spill file path
	index          map[string]map[int]int // frame id to partition index to element count
	maxHot         int
	maxCompressed  int
}

type cachedPartition struct {
	key   string
	value cinder.Partition
}

type cachedCompressedPartition struct {
	key   string
	value []byte
}

// CreateTiered produces a tiered PartitionCache
func CreateTiered(config *TieredConfig) cinder.PartitionCache {
	if config.InitialSize < 2 {
		log.Panicf("TieredConfig.InitialSize %d must be at least 2", config.InitialSize)
	}
	if config.CompressedFraction < 0 || config.CompressedFraction > 1 {
		log.Panicf("TieredConfig.CompressedFraction %f must be between 0 and 1", config.CompressedFraction)
	}
	if config.CompressedFraction == 0 {
		config.CompressedFraction = 0.5
	}
	if config.Compressor == nil {
		log.Panicf("TieredConfig.Compressor was nil")
	}
	maxHot := int(float32(config.InitialSize) * (1 - config.CompressedFraction))
	if maxHot < 1 {
		maxHot = 1
	}
	maxCompressed := config.InitialSize - maxHot
	if maxCompressed < 1 {
		maxCompressed = 1
	}
	return &tiered{
		config:         config,
		plocks:         locker.New(),
		hot:            make(map[string]*list.Element),
		hotList:        list.New(),
		compressed:     make(map[string]*list.Element),
		compressedList: list.New(),
		disk:           make(map[string]string),
		index:          make(map[string]map[int]int),
		maxHot:         maxHot,
		maxCompressed:  maxCompressed,
	}
}

// Destroy tears down this cache, removing any spill files
func (c *tiered) Destroy() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, p := range c.disk {
		if err := os.Remove(p); err != nil {
			log.Printf("Unable to remove spill file %s", p)
		}
	}
	c.hot = make(map[string]*list.Element)
	c.hotList = list.New()
	c.compressed = make(map[string]*list.Element)
	c.compressedList = list.New()
	c.disk = make(map[string]string)
	c.index = make(map[string]map[int]int)
	c.config.Compressor.Destroy()
}

// Put stores a materialized Partition, overwriting any previous entry for the
// same key (last write wins)
func (c *tiered) Put(frameID string, idx int, part cinder.Partition) {
	key := Key(frameID, idx)
	c.plocks.Lock(key)
	defer c.plocks.Unlock(key)
	c.lock.Lock()
	defer c.lock.Unlock()
	c.removeEntry(key)
	e := c.hotList.PushFront(&cachedPartition{key: key, value: part})
	c.hot[key] = e
	if c.index[frameID] == nil {
		c.index[frameID] = make(map[int]int)
	}
	c.index[frameID][idx] = part.GetNumElements()
	c.demote()
}

// Get retrieves a previously stored Partition, promoting it to the hot tier.
// The entry remains in the cache. Returns an error if no entry exists for the
// key.
func (c *tiered) Get(frameID string, idx int) (cinder.Partition, error) {
	key := Key(frameID, idx)
	c.plocks.Lock(key)
	defer c.plocks.Unlock(key)
	c.lock.Lock()
	defer c.lock.Unlock()
	if e, ok := c.hot[key]; ok {
		c.hotList.MoveToFront(e)
		return e.Value.(*cachedPartition).value, nil
	}
	if e, ok := c.compressed[key]; ok {
		part, err := c.config.Compressor.Decompress(bytes.NewReader(e.Value.(*cachedCompressedPartition).value))
		if err != nil {
			return nil, err
		}
		delete(c.compressed, key)
		c.compressedList.Remove(e)
		c.promote(key, part)
		return part, nil
	}
	if p, ok := c.disk[key]; ok {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("Unable to load disk-swapped partition %s: %w", p, err)
		}
		part, err := c.config.Compressor.Decompress(f)
		cerr := f.Close()
		if err != nil {
			return nil, err
		}
		if cerr != nil {
			return nil, cerr
		}
		if err := os.Remove(p); err != nil {
			log.Printf("Unable to remove spill file %s", p)
		}
		delete(c.disk, key)
		c.promote(key, part)
		return part, nil
	}
	return nil, fmt.Errorf("Partition %s is not in the cache", key)
}

// HasAll returns true iff every partition index for the given frame has an entry
func (c *tiered) HasAll(frameID string, numPartitions int) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	m, ok := c.index[frameID]
	if !ok || numPartitions < 1 {
		return false
	}
	for i := 0; i < numPartitions; i++ {
		if _, ok := m[i]; !ok {
			return false
		}
	}
	return true
}

// NumElements returns the total number of elements materialized for the given frame
func (c *tiered) NumElements(frameID string) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	total := 0
	for _, n := range c.index[frameID] {
		total += n
	}
	return total
}

// Invalidate removes all entries for the given frame
func (c *tiered) Invalidate(frameID string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for idx := range c.index[frameID] {
		c.removeEntry(Key(frameID, idx))
	}
	delete(c.index, frameID)
}

// promote inserts an entry at the front of the hot tier, demoting older
// entries as necessary. Caller must hold c.lock.
func (c *tiered) promote(key string, part cinder.Partition) {
	e := c.hotList.PushFront(&cachedPartition{key: key, value: part})
	c.hot[key] = e
	c.demote()
}

// demote moves entries down the tiers until both in-memory tiers are within
// bounds. Entries are never discarded. Caller must hold c.lock.
func (c *tiered) demote() {
	for c.hotList.Len() > c.maxHot {
		e := c.hotList.Back()
		cp := e.Value.(*cachedPartition)
		c.hotList.Remove(e)
		delete(c.hot, cp.key)
		var buf bytes.Buffer
		if err := c.config.Compressor.Compress(&buf, cp.value); err != nil {
			log.Panicf("Unable to compress partition %s: %v", cp.key, err)
		}
		ce := c.compressedList.PushFront(&cachedCompressedPartition{key: cp.key, value: buf.Bytes()})
		c.compressed[cp.key] = ce
	}
	for c.compressedList.Len() > c.maxCompressed {
		e := c.compressedList.Back()
		ccp := e.Value.(*cachedCompressedPartition)
		p := c.spillPath(ccp.key)
		if err := os.WriteFile(p, ccp.value, 0644); err != nil {
			log.Panicf("Unable to spill partition %s to %s: %v", ccp.key, p, err)
		}
		c.compressedList.Remove(e)
		delete(c.compressed, ccp.key)
		c.disk[ccp.key] = p
	}
}

// removeEntry deletes an entry from whichever tier holds it. Caller must hold
// c.lock.
func (c *tiered) removeEntry(key string) {
	if e, ok := c.hot[key]; ok {
		c.hotList.Remove(e)
		delete(c.hot, key)
		return
	}
	if e, ok := c.compressed[key]; ok {
		c.compressedList.Remove(e)
		delete(c.compressed, key)
		return
	}
	if p, ok := c.disk[key]; ok {
		if err := os.Remove(p); err != nil {
			log.Printf("Unable to remove spill file %s", p)
		}
		delete(c.disk, key)
	}
}

func (c *tiered) spillPath(key string) string {
	return path.Join(c.config.DiskPath, fmt.Sprintf("%x.cpart", xxhash.Sum64String(key)))
}
