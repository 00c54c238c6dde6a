package cinder

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// NoOpTaskType indicates that this task does not manipulate data
	NoOpTaskType TaskType = "no_op"
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task triggers a Filter
	FilterTaskType TaskType = "filter"
	// CacheTaskType indicates that this task marks a Dataset for memoization
	CacheTaskType TaskType = "cache"
	// ReduceTaskType indicates that this task triggers a Reduce action
	ReduceTaskType TaskType = "reduce"
	// CountTaskType indicates that this task triggers a Count action
	CountTaskType TaskType = "count"
	// CollectTaskType indicates that this task triggers a Collect action
	CollectTaskType TaskType = "collect"
	// AccumulateTaskType indicates that this task triggers an Accumulation
	AccumulateTaskType TaskType = "accumulate"
)
