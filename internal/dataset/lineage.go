package dataset

import (
	"fmt"
	"strings"

	"github.com/go-cinder/cinder"
)

// CreateLineageString produces a human-readable top-to-bottom listing of the
// DAG from a handle to its source frame, annotating each frame with whether
// it is marked for memoization and, if materialized, how many elements are
// stored. Diagnostics only, never consulted for control flow.
func CreateLineageString(d cinder.Dataset, cache cinder.PartitionCache) string {
	impl, ok := d.(*datasetImpl)
	if !ok {
		return fmt.Sprintf("(unknown Dataset %s)", d.ID())
	}
	plan, err := createPlan(impl)
	if err != nil {
		return fmt.Sprintf("(invalid Dataset %s: %v)", d.ID(), err)
	}
	numPartitions := plan.source.NumPartitions()
	var b strings.Builder
	indent := ""
	for i := len(plan.frames) - 1; i >= 0; i-- {
		f := plan.frames[i]
		if i < len(plan.frames)-1 {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(" +- ")
			indent += "    "
		}
		label := string(f.taskType)
		if f.taskType == cinder.ExtractTaskType {
			label = fmt.Sprintf("extract %s", plan.source.Name())
		}
		fmt.Fprintf(&b, "(%d) %s [%s]", numPartitions, label, shortID(f.id))
		if f.cached {
			if cache != nil && cache.HasAll(f.id, numPartitions) {
				fmt.Fprintf(&b, " <cached: %d elements materialized>", cache.NumElements(f.id))
			} else {
				b.WriteString(" <cached: not materialized>")
			}
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
