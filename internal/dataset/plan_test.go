package dataset

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/accumulators"
	cerrors "github.com/go-cinder/cinder/errors"
	"github.com/go-cinder/cinder/internal/partition"
	"github.com/go-cinder/cinder/internal/pcache"
	"github.com/go-cinder/cinder/operations/transform"
	"github.com/go-cinder/cinder/operations/util"
	"github.com/stretchr/testify/require"
)

// testSource is an in-package DataSource for plan tests
type testSource struct {
	id   string
	data [][]interface{}
}

func (s *testSource) ID() string   { return s.id }
func (s *testSource) Name() string { return "test" }
func (s *testSource) NumPartitions() int {
	return len(s.data)
}
func (s *testSource) Load(idx int) (cinder.Partition, error) {
	if idx < 0 || idx >= len(s.data) {
		return nil, cerrors.NoMorePartitionsError{Index: idx}
	}
	elements := make([]interface{}, len(s.data[idx]))
	copy(elements, s.data[idx])
	return partition.FromElements(s.id, idx, elements), nil
}

func createTestCache(t *testing.T) cinder.PartitionCache {
	return pcache.CreateTiered(&pcache.TieredConfig{
		InitialSize: 16,
		DiskPath:    t.TempDir(),
		Compressor:  partition.CreateLZ4PartitionCompressor(),
	})
}

func identity() *cinder.DatasetOperation {
	return transform.Map(func(el interface{}) (interface{}, error) { return el, nil })
}

func TestToChainsFramesWithoutExecuting(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1, 2}, {3, 4}}}
	ds := CreateDataset(src)
	next, err := ds.To(identity(), transform.Filter(func(el interface{}) (bool, error) { return true, nil }))
	require.Nil(t, err)
	require.NotEqual(t, ds.ID(), next.ID())
	require.Equal(t, cinder.FilterTaskType, next.GetTaskType())

	plan, err := createPlan(next.(*datasetImpl))
	require.Nil(t, err)
	require.Equal(t, 3, plan.Size())
	require.Equal(t, cinder.ExtractTaskType, plan.frames[0].taskType)
	require.Equal(t, cinder.MapTaskType, plan.frames[1].taskType)
	require.Equal(t, cinder.FilterTaskType, plan.frames[2].taskType)
}

func TestToSharesAncestryStructurally(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1}}}
	ds := CreateDataset(src)
	mapped, err := ds.To(identity())
	require.Nil(t, err)
	a, err := mapped.To(identity())
	require.Nil(t, err)
	b, err := mapped.To(identity())
	require.Nil(t, err)
	require.Equal(t, a.(*datasetImpl).parent, b.(*datasetImpl).parent)
	require.Equal(t, mapped.(*datasetImpl), a.(*datasetImpl).parent)
}

func TestCacheMarkerIsIdempotentAndYieldsSameHandle(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1}}}
	ds := CreateDataset(src)
	mapped, err := ds.To(identity())
	require.Nil(t, err)
	once, err := mapped.To(util.Cache())
	require.Nil(t, err)
	twice, err := once.To(util.Cache())
	require.Nil(t, err)
	require.Equal(t, mapped.ID(), once.ID())
	require.Equal(t, once, twice)
	require.True(t, mapped.IsCached())
}

func TestNilOperationsFailAtConstruction(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1}}}
	ds := CreateDataset(src)
	_, err := ds.To(transform.Map(nil))
	require.NotNil(t, err)
	var invalid cerrors.InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	_, err = ds.To(transform.Filter(nil))
	require.ErrorAs(t, err, &invalid)
}

func TestCompileFusesUncachedChainIntoOneSegment(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1, 2, 3}}}
	ds := CreateDataset(src)
	chained, err := ds.To(identity(), identity(), transform.Filter(func(el interface{}) (bool, error) { return true, nil }))
	require.Nil(t, err)

	plan, err := createPlan(chained.(*datasetImpl))
	require.Nil(t, err)
	cp, err := plan.compile(nil)
	require.Nil(t, err)
	require.False(t, cp.boundaryIsCache)
	require.Equal(t, cinder.ExtractTaskType, cp.boundary.taskType)
	require.Equal(t, 1, len(cp.segments))
	require.Equal(t, 3, len(cp.segments[0].frames))
	require.Equal(t, "", cp.segments[0].materializeID)
}

func TestCompileSplitsSegmentsAtCachedFrames(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1, 2, 3}}}
	ds := CreateDataset(src)
	mapped, err := ds.To(identity(), util.Cache())
	require.Nil(t, err)
	leaf, err := mapped.To(transform.Filter(func(el interface{}) (bool, error) { return true, nil }))
	require.Nil(t, err)

	plan, err := createPlan(leaf.(*datasetImpl))
	require.Nil(t, err)
	cp, err := plan.compile(nil)
	require.Nil(t, err)
	require.Equal(t, 2, len(cp.segments))
	require.Equal(t, mapped.ID(), cp.segments[0].materializeID)
	require.Equal(t, "", cp.segments[1].materializeID)
}

func TestExecutorSkipsUserFunctionsBelowCachedBoundary(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1, 2}, {3, 4}}}
	cache := createTestCache(t)
	defer cache.Destroy()

	var calls int64
	ds := CreateDataset(src)
	mapped, err := ds.To(transform.Map(func(el interface{}) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return el.(int) * 2, nil
	}), util.Cache())
	require.Nil(t, err)

	pe := CreatePlanExecutor(&PlanExecutorConf{NumWorkers: 2, Cache: cache})
	acc, err := pe.Execute(context.Background(), mapped, accumulators.Counter)
	require.Nil(t, err)
	require.EqualValues(t, 4, acc.(*accumulators.Count).GetCount())
	require.EqualValues(t, 4, atomic.LoadInt64(&calls))

	// a second action reads materialized partitions, never re-invoking the map
	pe2 := CreatePlanExecutor(&PlanExecutorConf{NumWorkers: 2, Cache: cache})
	result, err := pe2.Execute(context.Background(), mapped, accumulators.Reducer(func(a, b interface{}) (interface{}, error) {
		return a.(int) + b.(int), nil
	}))
	require.Nil(t, err)
	sum, err := result.(*accumulators.Reduce).GetResult()
	require.Nil(t, err)
	require.Equal(t, 20, sum)
	require.EqualValues(t, 4, atomic.LoadInt64(&calls))
}

func TestExecutorCollectMaterializesResultPartitions(t *testing.T) {
	src := &testSource{id: "src", data: [][]interface{}{{1, 2, 3}, {4, 5}}}
	ds := CreateDataset(src)
	doubled, err := ds.To(transform.Map(func(el interface{}) (interface{}, error) { return el.(int) * 2, nil }))
	require.Nil(t, err)

	pe := CreatePlanExecutor(&PlanExecutorConf{NumWorkers: 2})
	parts, err := pe.Collect(context.Background(), doubled)
	require.Nil(t, err)
	require.Equal(t, 2, len(parts))
	require.Equal(t, 3, parts[0].GetNumElements())
	require.Equal(t, 2, parts[1].GetNumElements())
	require.Equal(t, 2, parts[0].GetElement(0))
	require.Equal(t, 10, parts[1].GetElement(1))
}
