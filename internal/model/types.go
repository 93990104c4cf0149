package model

import "strconv"

// MetricKind selects which quantity the external sampler reports per sample
// and therefore how displayed values are formatted and scaled.
type MetricKind int

const (
	// TimeMetric means sample values are microseconds spent on the stack.
	TimeMetric MetricKind = iota
	// MemoryMetric means sample values are bytes allocated on the stack.
	MemoryMetric
)

// String returns the metric name as used in sampler metadata and dumps.
func (k MetricKind) String() string {
	if k == MemoryMetric {
		return "memory"
	}
	return "time"
}

// Frame identifies one function frame in a sampled stack. It is the unit of
// merging: two frames belong to the same call-tree node exactly when all
// three fields are equal. A zero Line marks synthetic frames with no source
// location.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Sample is one decoded stack sample emitted by the external sampler.
// Frames are ordered outermost first; an empty Frames slice is a legal idle
// sample. Metric is in the unit of the session's MetricKind and may be
// negative, in which case the sample is counted but not aggregated.
type Sample struct {
	PID    int
	TID    string // thread id as printed by the sampler, possibly hex
	Frames []Frame
	Metric int64
}

// ThreadKey names a thread uniquely for the life of a session.
func ThreadKey(pid int, tid string) string {
	return strconv.Itoa(pid) + ":" + tid
}
