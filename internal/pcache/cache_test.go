package pcache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-cinder/cinder/internal/partition"
	"github.com/stretchr/testify/require"
)

func createTestCache(t *testing.T, size int) *tiered {
	cache := CreateTiered(&TieredConfig{
		InitialSize: size,
		DiskPath:    t.TempDir(),
		Compressor:  partition.CreateLZ4PartitionCompressor(),
	})
	iCache, ok := cache.(*tiered)
	require.True(t, ok)
	return iCache
}

func TestCacheTierDemotion(t *testing.T) {
	cache := createTestCache(t, 2)
	defer cache.Destroy()

	numPartitions := 6
	for i := 0; i < numPartitions; i++ {
		part := partition.FromElements("frame", i, []interface{}{i, i * 10})
		cache.Put("frame", i, part)
	}
	// hot and compressed tiers hold one entry each, the rest spilled to disk
	require.Equal(t, 1, len(cache.hot))
	require.Equal(t, 1, len(cache.compressed))
	require.Equal(t, 4, len(cache.disk))
	require.True(t, cache.HasAll("frame", numPartitions))
	require.Equal(t, numPartitions*2, cache.NumElements("frame"))

	// every entry remains retrievable regardless of tier
	for i := 0; i < numPartitions; i++ {
		part, err := cache.Get("frame", i)
		require.Nil(t, err)
		require.Equal(t, 2, part.GetNumElements())
		require.Equal(t, i, part.GetElement(0))
		require.Equal(t, i*10, part.GetElement(1))
	}
}

func TestCacheGetIsNonDestructive(t *testing.T) {
	cache := createTestCache(t, 4)
	defer cache.Destroy()

	cache.Put("frame", 0, partition.FromElements("frame", 0, []interface{}{42}))
	for i := 0; i < 3; i++ {
		part, err := cache.Get("frame", 0)
		require.Nil(t, err)
		require.Equal(t, 42, part.GetElement(0))
	}
	require.True(t, cache.HasAll("frame", 1))
}

func TestCacheLastWriteWins(t *testing.T) {
	cache := createTestCache(t, 4)
	defer cache.Destroy()

	cache.Put("frame", 0, partition.FromElements("frame", 0, []interface{}{1}))
	cache.Put("frame", 0, partition.FromElements("frame", 0, []interface{}{2}))
	part, err := cache.Get("frame", 0)
	require.Nil(t, err)
	require.Equal(t, 1, part.GetNumElements())
	require.Equal(t, 2, part.GetElement(0))
	require.Equal(t, 1, cache.NumElements("frame"))
}

func TestCacheHasAllRequiresFullCoverage(t *testing.T) {
	cache := createTestCache(t, 8)
	defer cache.Destroy()

	cache.Put("frame", 0, partition.FromElements("frame", 0, []interface{}{1}))
	cache.Put("frame", 2, partition.FromElements("frame", 2, []interface{}{3}))
	require.False(t, cache.HasAll("frame", 3))
	require.False(t, cache.HasAll("other", 1))

	cache.Put("frame", 1, partition.FromElements("frame", 1, []interface{}{2}))
	require.True(t, cache.HasAll("frame", 3))
}

func TestCacheInvalidate(t *testing.T) {
	cache := createTestCache(t, 2)
	defer cache.Destroy()

	for i := 0; i < 4; i++ {
		cache.Put("frame", i, partition.FromElements("frame", i, []interface{}{i}))
	}
	require.True(t, cache.HasAll("frame", 4))
	cache.Invalidate("frame")
	require.False(t, cache.HasAll("frame", 4))
	require.Equal(t, 0, cache.NumElements("frame"))
	_, err := cache.Get("frame", 0)
	require.NotNil(t, err)
}

func TestCacheConcurrentPuts(t *testing.T) {
	cache := createTestCache(t, 4)
	defer cache.Destroy()

	numPartitions := 32
	var wg sync.WaitGroup
	for i := 0; i < numPartitions; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cache.Put("frame", idx, partition.FromElements("frame", idx, []interface{}{idx}))
		}(i)
	}
	wg.Wait()
	require.True(t, cache.HasAll("frame", numPartitions))
	for i := 0; i < numPartitions; i++ {
		part, err := cache.Get("frame", i)
		require.Nil(t, err, fmt.Sprintf("partition %d should be retrievable", i))
		require.Equal(t, i, part.GetElement(0))
	}
}
