package integration_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-cinder/cinder/datasource/memory"
	"github.com/go-cinder/cinder/operations/transform"
	"github.com/go-cinder/cinder/operations/util"
	"github.com/stretchr/testify/require"
)

// after one action through a cached handle, later actions built from it must
// not re-invoke the per-element functions for already-cached partitions
func TestCachedMapIsInvokedOncePerElement(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	var calls int64
	ds := memory.CreateDataset(intData(10), &memory.SourceConf{NumPartitions: 1})
	mapped, err := ds.To(
		transform.Map(func(el interface{}) (interface{}, error) {
			atomic.AddInt64(&calls, 1)
			return el, nil
		}),
		util.Cache(),
	)
	require.Nil(t, err)

	sum, err := e.Reduce(context.Background(), mapped, sumInts)
	require.Nil(t, err)
	require.Equal(t, 45, sum)

	over3, err := mapped.To(transform.Filter(func(el interface{}) (bool, error) {
		return el.(int) > 3, nil
	}))
	require.Nil(t, err)
	cnt, err := e.Count(context.Background(), over3)
	require.Nil(t, err)
	require.EqualValues(t, 6, cnt)

	// ten invocations across both actions, not twenty
	require.EqualValues(t, 10, atomic.LoadInt64(&calls))
}

func TestMarkCachedTwiceBehavesLikeOnce(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	ds := memory.CreateDataset(intData(20), &memory.SourceConf{NumPartitions: 2})
	once, err := ds.To(transform.Map(func(el interface{}) (interface{}, error) {
		return el.(int) + 1, nil
	}), util.Cache(), util.Cache())
	require.Nil(t, err)
	require.True(t, once.IsCached())

	sum, err := e.Reduce(context.Background(), once, sumInts)
	require.Nil(t, err)
	require.Equal(t, 210, sum)
	cnt, err := e.Count(context.Background(), once)
	require.Nil(t, err)
	require.EqualValues(t, 20, cnt)
}

// once materialized, cached data takes precedence over a source that has
// since been mutated - intentional memoization, not a staleness bug
func TestCacheTakesPrecedenceOverMutatedSource(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	data := []interface{}{1, 2, 3, 4}
	ds := memory.CreateDataset(data, &memory.SourceConf{NumPartitions: 2})
	cached, err := ds.To(util.Cache())
	require.Nil(t, err)

	sum, err := e.Reduce(context.Background(), cached, sumInts)
	require.Nil(t, err)
	require.Equal(t, 10, sum)

	data[0] = 100

	// the cached handle still observes the first materialization
	sum, err = e.Reduce(context.Background(), cached, sumInts)
	require.Nil(t, err)
	require.Equal(t, 10, sum)

	// an uncached twin over the same buffer observes the mutation
	fresh := memory.CreateDataset(data, &memory.SourceConf{NumPartitions: 2})
	sum, err = e.Reduce(context.Background(), fresh, sumInts)
	require.Nil(t, err)
	require.Equal(t, 109, sum)
}

// partitions cached under a small hot tier must survive demotion through the
// compressed and disk tiers intact
func TestCachedPartitionsSurviveTierDemotion(t *testing.T) {
	e, err := createTestEngineWithCacheSize(t, 2)
	require.Nil(t, err)
	defer e.Stop()

	var calls int64
	ds := memory.CreateDataset(intData(1000), &memory.SourceConf{NumPartitions: 8})
	mapped, err := ds.To(transform.Map(func(el interface{}) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return el.(int) * 3, nil
	}), util.Cache())
	require.Nil(t, err)

	first, err := e.Reduce(context.Background(), mapped, sumInts)
	require.Nil(t, err)
	second, err := e.Reduce(context.Background(), mapped, sumInts)
	require.Nil(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1000, atomic.LoadInt64(&calls))
}
