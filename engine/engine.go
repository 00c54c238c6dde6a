// Package engine provides the execution half of Cinder: an explicit,
// re-instantiable object which runs actions against lazily built Datasets.
// An Engine owns the partition cache consulted and populated by memoized
// frames, so Datasets executed through the same Engine share materialized
// results.
package engine

import (
	"context"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/accumulators"
	"github.com/go-cinder/cinder/errors"
	"github.com/go-cinder/cinder/internal/dataset"
	"github.com/go-cinder/cinder/internal/partition"
	"github.com/go-cinder/cinder/internal/pcache"
	"github.com/go-cinder/cinder/internal/stats"
	iutil "github.com/go-cinder/cinder/internal/util"
	"github.com/go-cinder/cinder/logging"
	uuid "github.com/gofrs/uuid"
)

// Options configures an Engine
type Options struct {
	NumWorkers              int       // maximum number of partitions processed concurrently. Defaults to the number of CPUs.
	CacheInitialSize        int       // number of cache entries held in memory before tier demotion begins. Defaults to 32.
	CacheCompressedFraction float32   // portion of in-memory cache entries held lz4-compressed. Defaults to 0.5.
	TempDir                 string    // directory for cache spill files. Defaults to the OS temp dir.
	LogLevel                int       // minimum level of emitted log messages. Defaults to logging.WarnLevel.
	LogOutput               io.Writer // destination for log messages. Defaults to os.Stderr.
}

// An Engine executes actions against Datasets. Create one per process or per
// workload; Engines are independent and hold no global state.
type Engine struct {
	id    string
	opts  *Options
	cache cinder.PartitionCache
	log   *logging.Logger
	stats *stats.RunStatistics
}

// Create produces an Engine from the given Options. Zero-valued fields are
// defaulted. The caller should Stop the Engine when finished with it to
// remove any cache spill files.
func Create(opts *Options) (*Engine, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	if opts.CacheInitialSize == 0 {
		opts.CacheInitialSize = 32
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logging.WarnLevel
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID: %v", err)
	}
	cache := pcache.CreateTiered(&pcache.TieredConfig{
		InitialSize:        opts.CacheInitialSize,
		CompressedFraction: opts.CacheCompressedFraction,
		DiskPath:           opts.TempDir,
		Compressor:         partition.CreateLZ4PartitionCompressor(),
	})
	return &Engine{
		id:    id.String(),
		opts:  opts,
		cache: cache,
		log:   logging.CreateLogger(opts.LogLevel, opts.LogOutput),
		stats: stats.CreateRunStatistics(),
	}, nil
}

// ID returns the unique ID of this Engine
func (e *Engine) ID() string {
	return e.id
}

// Stop tears down this Engine, destroying its partition cache
func (e *Engine) Stop() {
	e.cache.Destroy()
}

// Reduce folds every surviving element of a Dataset with fn, an associative
// and commutative binary operation, and returns the folded value. Triggers
// execution of the Dataset's plan and blocks until it completes or fails.
// Reducing a Dataset which yields no elements returns an EmptyDatasetError.
func (e *Engine) Reduce(ctx context.Context, d cinder.Dataset, fn cinder.ReductionOperation) (interface{}, error) {
	if fn == nil {
		return nil, errors.InvalidOperatorError{TaskType: "reduce", Reason: "nil reduction function"}
	}
	acc, err := e.run(ctx, d, accumulators.Reducer(iutil.SafeReductionOperation(fn)))
	if err != nil {
		return nil, err
	}
	return acc.(*accumulators.Reduce).GetResult()
}

// Count returns the number of surviving elements of a Dataset. Triggers
// execution of the Dataset's plan.
func (e *Engine) Count(ctx context.Context, d cinder.Dataset) (uint64, error) {
	acc, err := e.run(ctx, d, accumulators.Counter)
	if err != nil {
		return 0, err
	}
	return acc.(*accumulators.Count).GetCount(), nil
}

// Accumulate feeds every surviving element of a Dataset into Accumulators
// produced by facc, one per partition, and returns the merged result.
// Triggers execution of the Dataset's plan.
func (e *Engine) Accumulate(ctx context.Context, d cinder.Dataset, facc cinder.AccumulatorFactory) (cinder.Accumulator, error) {
	if facc == nil {
		return nil, errors.InvalidOperatorError{TaskType: "accumulate", Reason: "nil accumulator factory"}
	}
	return e.run(ctx, d, facc)
}

// Collect materializes a Dataset's result partitions and returns them in
// index order. Triggers execution of the Dataset's plan.
func (e *Engine) Collect(ctx context.Context, d cinder.Dataset) ([]cinder.Partition, error) {
	start := e.stats.StartAction()
	defer e.stats.FinishAction(start)
	pe := dataset.CreatePlanExecutor(e.executorConf())
	e.log.Debugf("engine %s collecting dataset %s via executor %s", e.id, d.ID(), pe.ID())
	return pe.Collect(ctx, d)
}

// Describe returns a human-readable top-to-bottom listing of the DAG from a
// handle to its source, annotating memoized frames with their materialized
// size in this Engine's cache. Diagnostics only.
func (e *Engine) Describe(d cinder.Dataset) string {
	return dataset.CreateLineageString(d, e.cache)
}

// Invalidate removes any materialized cache entries for the given handle's
// frame. The frame stays marked for memoization, so the next action through
// it recomputes and re-materializes.
func (e *Engine) Invalidate(d cinder.Dataset) {
	e.cache.Invalidate(d.ID())
}

// GetStatistics returns statistics about the actions this Engine has run
func (e *Engine) GetStatistics() cinder.RuntimeStatistics {
	return e.stats
}

func (e *Engine) run(ctx context.Context, d cinder.Dataset, facc cinder.AccumulatorFactory) (cinder.Accumulator, error) {
	start := e.stats.StartAction()
	defer e.stats.FinishAction(start)
	pe := dataset.CreatePlanExecutor(e.executorConf())
	e.log.Debugf("engine %s executing dataset %s via executor %s", e.id, d.ID(), pe.ID())
	return pe.Execute(ctx, d, facc)
}

func (e *Engine) executorConf() *dataset.PlanExecutorConf {
	return &dataset.PlanExecutorConf{
		NumWorkers: e.opts.NumWorkers,
		Cache:      e.cache,
		Log:        e.log,
		Stats:      e.stats,
	}
}
