package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/go-cinder/cinder"
	cerrors "github.com/go-cinder/cinder/errors"
	"github.com/go-cinder/cinder/internal/partition"
	"github.com/go-cinder/cinder/internal/pcache"
	"github.com/go-cinder/cinder/internal/stats"
	iutil "github.com/go-cinder/cinder/internal/util"
	"github.com/go-cinder/cinder/logging"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// how many elements are processed between cancellation checks
const cancellationCheckInterval = 1024

// PlanExecutorConf configures a PlanExecutor
type PlanExecutorConf struct {
	NumWorkers int                   // maximum number of partitions processed concurrently. 0 means no limit.
	Cache      cinder.PartitionCache // shared partition cache, or nil to disable memoization
	Log        *logging.Logger
	Stats      *stats.RunStatistics
}

// A PlanExecutor turns a Dataset ending in an action into a concrete result,
// materializing only what is necessary. PlanExecutors are cheap,
// re-instantiable values: one is created per action, sharing the engine's
// cache and statistics.
type PlanExecutor struct {
	id   string
	conf *PlanExecutorConf
}

// CreatePlanExecutor is a factory for PlanExecutors
func CreatePlanExecutor(conf *PlanExecutorConf) *PlanExecutor {
	if conf.Log == nil {
		conf.Log = logging.CreateLogger(logging.ErrorLevel, os.Stderr)
	}
	if conf.Stats == nil {
		conf.Stats = stats.CreateRunStatistics()
	}
	return &PlanExecutor{
		id:   newID(),
		conf: conf,
	}
}

// ID returns the unique ID of this PlanExecutor
func (pe *PlanExecutor) ID() string {
	return pe.id
}

// Execute runs the plan ending at the given handle, feeding each partition's
// surviving elements into a fresh Accumulator from facc and merging the
// partial results in ascending partition order. Blocks until every partition
// completes or one fails.
func (pe *PlanExecutor) Execute(ctx context.Context, d cinder.Dataset, facc cinder.AccumulatorFactory) (cinder.Accumulator, error) {
	impl, cp, err := pe.prepare(d)
	if err != nil {
		return nil, err
	}
	accs := make([]cinder.Accumulator, cp.numPartitions)
	errs := make([]error, cp.numPartitions)
	g, gctx := errgroup.WithContext(ctx)
	if pe.conf.NumWorkers > 0 {
		g.SetLimit(pe.conf.NumWorkers)
	}
	for i := 0; i < cp.numPartitions; i++ {
		i := i
		g.Go(func() error {
			acc := facc()
			accs[i] = acc
			_, err := pe.executePartition(gctx, cp, i, acc, "")
			errs[i] = err
			return err
		})
	}
	if werr := g.Wait(); werr != nil {
		return nil, pe.combineErrors(errs, werr)
	}
	result := facc()
	for i := 0; i < cp.numPartitions; i++ {
		if err := result.Merge(accs[i]); err != nil {
			return nil, err
		}
	}
	pe.conf.Log.Debugf("executor %s finished plan for %s (%d partitions)", pe.id, impl.id, cp.numPartitions)
	return result, nil
}

// Collect runs the plan ending at the given handle and returns the fully
// materialized result partitions in index order
func (pe *PlanExecutor) Collect(ctx context.Context, d cinder.Dataset) ([]cinder.Partition, error) {
	impl, cp, err := pe.prepare(d)
	if err != nil {
		return nil, err
	}
	parts := make([]cinder.Partition, cp.numPartitions)
	errs := make([]error, cp.numPartitions)
	g, gctx := errgroup.WithContext(ctx)
	if pe.conf.NumWorkers > 0 {
		g.SetLimit(pe.conf.NumWorkers)
	}
	for i := 0; i < cp.numPartitions; i++ {
		i := i
		g.Go(func() error {
			part, err := pe.executePartition(gctx, cp, i, nil, impl.id)
			parts[i] = part
			errs[i] = err
			return err
		})
	}
	if werr := g.Wait(); werr != nil {
		return nil, pe.combineErrors(errs, werr)
	}
	return parts, nil
}

// prepare linearizes and compiles the plan for a handle
func (pe *PlanExecutor) prepare(d cinder.Dataset) (*datasetImpl, *compiledPlan, error) {
	impl, ok := d.(*datasetImpl)
	if !ok {
		return nil, nil, fmt.Errorf("Dataset was not produced by a Cinder DataSource")
	}
	plan, err := createPlan(impl)
	if err != nil {
		return nil, nil, err
	}
	cp, err := plan.compile(pe.conf.Cache)
	if err != nil {
		return nil, nil, err
	}
	return impl, cp, nil
}

// executePartition runs the fused segments of a compiled plan against a
// single partition. If acc is non-nil, surviving elements of the final
// segment are fed into it. If materializeID is non-empty, the final result
// partition is materialized under that owner and returned even when the final
// segment is not cached.
func (pe *PlanExecutor) executePartition(ctx context.Context, cp *compiledPlan, idx int, acc cinder.Accumulator, materializeID string) (cinder.Partition, error) {
	input, err := pe.readBoundary(cp, idx)
	if err != nil {
		return nil, err
	}
	pe.conf.Stats.RecordPartition(input.GetNumElements())

	if len(cp.segments) == 0 {
		// the action sits directly on the boundary frame
		if err := pe.drain(ctx, input, idx, acc); err != nil {
			return nil, err
		}
		return input, nil
	}

	var result cinder.Partition
	for si, seg := range cp.segments {
		last := si == len(cp.segments)-1
		var out cinder.BuildablePartition
		switch {
		case seg.materializeID != "":
			out = partition.CreatePartition(seg.materializeID, idx, input.GetNumElements())
		case last && materializeID != "":
			out = partition.CreatePartition(materializeID, idx, input.GetNumElements())
		}
		fused := seg.fused
		err := input.ForEachElement(func(i int, el interface{}) error {
			if i%cancellationCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			v, keep, ferr := fused(el)
			if ferr != nil {
				return cerrors.ComputationError{PartitionIndex: idx, ElementIndex: i, Cause: ferr}
			}
			if !keep {
				return nil
			}
			if out != nil {
				out.Append(v)
			}
			if last && acc != nil {
				if aerr := acc.Accumulate(v); aerr != nil {
					return cerrors.ComputationError{PartitionIndex: idx, ElementIndex: i, Cause: aerr}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if seg.materializeID != "" && pe.conf.Cache != nil {
			// per-partition commits are independent and stand even if a
			// sibling partition later fails
			pe.conf.Cache.Put(seg.materializeID, idx, out)
			pe.conf.Stats.RecordCacheMiss()
		}
		if out != nil {
			input = out
			result = out
		}
	}
	return result, nil
}

// readBoundary materializes the partition data at the execution boundary,
// either from the cache or from the source
func (pe *PlanExecutor) readBoundary(cp *compiledPlan, idx int) (cinder.Partition, error) {
	if cp.boundaryIsCache {
		part, err := pe.conf.Cache.Get(cp.boundary.id, idx)
		if err != nil {
			// coverage was probed during compilation, so a miss here is an
			// engine bug, never retried
			return nil, cerrors.CacheConsistencyError{Key: pcache.Key(cp.boundary.id, idx)}
		}
		pe.conf.Stats.RecordCacheHit()
		return part, nil
	}
	part, err := cp.boundary.source.Load(idx)
	if err != nil {
		return nil, err
	}
	if cp.boundary.cached && pe.conf.Cache != nil {
		// a memoized source frame materializes its raw partitions on first read
		pe.conf.Cache.Put(cp.boundary.id, idx, part)
		pe.conf.Stats.RecordCacheMiss()
	}
	return part, nil
}

// drain feeds every element of a partition into an accumulator
func (pe *PlanExecutor) drain(ctx context.Context, part cinder.Partition, idx int, acc cinder.Accumulator) error {
	if acc == nil {
		return nil
	}
	return part.ForEachElement(func(i int, el interface{}) error {
		if i%cancellationCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := acc.Accumulate(el); err != nil {
			return cerrors.ComputationError{PartitionIndex: idx, ElementIndex: i, Cause: err}
		}
		return nil
	})
}

// combineErrors surfaces partition failures in ascending partition order,
// dropping cancellations triggered by a sibling's failure
func (pe *PlanExecutor) combineErrors(errs []error, waitErr error) error {
	var merr *multierror.Error
	for _, err := range errs {
		if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
			merr = multierror.Append(merr, err)
		}
	}
	if merr == nil {
		return waitErr
	}
	if len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	pe.conf.Log.Errorf("multiple partitions failed:\n%s", iutil.FormatMultiError(merr.Errors))
	return merr.ErrorOrNil()
}
