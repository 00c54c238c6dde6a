package integration_test

import (
	"context"
	"testing"

	"github.com/go-cinder/cinder/datasource/memory"
	"github.com/go-cinder/cinder/operations/transform"
	"github.com/stretchr/testify/require"
)

// count must equal the element count regardless of how many partitions the
// collection is split into
func TestCountIsIndependentOfPartitioning(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	numElements := 103
	for _, numPartitions := range []int{1, 2, 3, 7, 16} {
		ds := memory.CreateDataset(intData(numElements), &memory.SourceConf{NumPartitions: numPartitions})
		cnt, err := e.Count(context.Background(), ds)
		require.Nil(t, err)
		require.EqualValues(t, numElements, cnt, "with %d partitions", numPartitions)
	}
}

func TestFilteredCountFusesFilterIntoThePass(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	ds := memory.CreateDataset(intData(50), &memory.SourceConf{NumPartitions: 4})
	multiplesOf5, err := ds.To(transform.Filter(func(el interface{}) (bool, error) {
		return el.(int)%5 == 0, nil
	}))
	require.Nil(t, err)

	cnt, err := e.Count(context.Background(), multiplesOf5)
	require.Nil(t, err)
	require.EqualValues(t, 10, cnt)
}

func TestCountEmptyDataset(t *testing.T) {
	e := createTestEngine(t)
	defer e.Stop()

	ds := memory.CreateDataset(nil, &memory.SourceConf{NumPartitions: 3})
	cnt, err := e.Count(context.Background(), ds)
	require.Nil(t, err)
	require.EqualValues(t, 0, cnt)
}
