package dataset

import (
	"fmt"

	"github.com/go-cinder/cinder"
)

// fusedOperation is a compiled run of per-element tasks. Each element is
// pushed through the whole run in one pass before the next element starts.
type fusedOperation func(el interface{}) (out interface{}, keep bool, err error)

// A segment is a maximal run of per-element frames which executes as one
// fused pass per partition. Segments end either at a frame marked for
// memoization (in which case the segment's output is materialized and stored
// under materializeID) or at the frame the action was invoked on.
type segment struct {
	frames        []*datasetImpl
	materializeID string // frame id to cache results under, or "" if this segment's output is not materialized
	fused         fusedOperation
}

// planImpl is the linearized execution plan for a Dataset: its frames in
// root-to-leaf order
type planImpl struct {
	frames []*datasetImpl // frames[0] is the source frame
	source cinder.DataSource
}

// compiledPlan is a planImpl bound to a cache state: an execution boundary
// plus the fused segments above it
type compiledPlan struct {
	boundary        *datasetImpl // the frame data is read from
	boundaryIsCache bool         // true if the boundary reads from the partition cache rather than the source
	segments        []*segment
	numPartitions   int
}

// createPlan linearizes the DAG reachable from a handle by walking parent
// references. The walk is acyclic by construction: a frame can only reference
// frames created strictly before it.
func createPlan(ds *datasetImpl) (*planImpl, error) {
	depth := 0
	for f := ds; f != nil; f = f.parent {
		depth++
	}
	frames := make([]*datasetImpl, depth)
	for f := ds; f != nil; f = f.parent {
		depth--
		frames[depth] = f
	}
	if frames[0].taskType != cinder.ExtractTaskType || frames[0].source == nil {
		return nil, fmt.Errorf("Plan does not terminate in a DataSource frame")
	}
	return &planImpl{frames: frames, source: frames[0].source}, nil
}

// Size returns the number of frames in this Plan
func (p *planImpl) Size() int {
	return len(p.frames)
}

// compile determines the execution boundary for the current cache state and
// fuses the frames above it into segments. The boundary is the deepest frame,
// walking from the action towards the source, which is flagged for
// memoization and has a cache entry for every partition; failing that, the
// source frame.
func (p *planImpl) compile(cache cinder.PartitionCache) (*compiledPlan, error) {
	numPartitions := p.source.NumPartitions()
	boundaryIdx := 0
	boundaryIsCache := false
	for i := len(p.frames) - 1; i >= 0; i-- {
		if p.frames[i].cached && cache != nil && cache.HasAll(p.frames[i].id, numPartitions) {
			boundaryIdx = i
			boundaryIsCache = true
			break
		}
	}
	segments, err := splitSegments(p.frames[boundaryIdx+1:])
	if err != nil {
		return nil, err
	}
	return &compiledPlan{
		boundary:        p.frames[boundaryIdx],
		boundaryIsCache: boundaryIsCache,
		segments:        segments,
		numPartitions:   numPartitions,
	}, nil
}

// splitSegments groups frames into fused runs, breaking after every frame
// marked for memoization so its output can be materialized
func splitSegments(frames []*datasetImpl) ([]*segment, error) {
	segments := make([]*segment, 0, 1)
	run := make([]*datasetImpl, 0, len(frames))
	for i, f := range frames {
		if _, ok := f.task.(cinder.ElementTask); !ok {
			return nil, fmt.Errorf("Frame %s (%s) does not carry a per-element task", f.id, f.taskType)
		}
		run = append(run, f)
		if f.cached || i == len(frames)-1 {
			seg := &segment{frames: run}
			if f.cached {
				seg.materializeID = f.id
			}
			seg.fused = fuseFrames(run)
			segments = append(segments, seg)
			run = make([]*datasetImpl, 0, len(frames)-i)
		}
	}
	return segments, nil
}

// fuseFrames compiles a linear run of per-element frames into a single fused
// function. This is an explicit compilation step over a task list, not
// runtime recursion through the chain.
func fuseFrames(frames []*datasetImpl) fusedOperation {
	tasks := make([]cinder.ElementTask, len(frames))
	for i, f := range frames {
		tasks[i] = f.task.(cinder.ElementTask)
	}
	return func(el interface{}) (interface{}, bool, error) {
		cur := el
		for _, t := range tasks {
			out, keep, err := t.Apply(cur)
			if err != nil {
				return nil, false, err
			}
			if !keep {
				return nil, false, nil
			}
			cur = out
		}
		return cur, true, nil
	}
}
