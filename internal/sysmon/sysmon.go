// Package sysmon tracks session timing and OS-level metrics of the profiled
// process: cpu load, resident memory, and its running high-water mark.
package sysmon

import "time"

// ProcStats resolves per-process metrics. The dashboard only ever needs
// these three questions answered, so that is the whole contract; the real
// implementation sits on gopsutil, tests use fakes.
type ProcStats interface {
	CPUPercent(pid int) (float64, error)
	MemoryRSS(pid int) (uint64, error)
	Cmdline(pid int) (string, error)
}

// Frozen is a point-in-time copy of the tracker's session values, taken
// when the display pauses.
type Frozen struct {
	Duration  time.Duration
	MaxMemory uint64
}

// Tracker owns the session clock and the memory high-water mark. Like the
// rest of the model it is confined to the event loop goroutine.
type Tracker struct {
	stats  ProcStats
	start  time.Time
	end    time.Time
	maxMem uint64

	now func() time.Time
}

// NewTracker returns a tracker polling through the given collaborator.
func NewTracker(stats ProcStats) *Tracker {
	return &Tracker{stats: stats, now: time.Now}
}

// Start stamps the session start time.
func (t *Tracker) Start() { t.start = t.now() }

// Stop stamps the session end time, fixing Duration. Calling it again
// re-stamps the end.
func (t *Tracker) Stop() { t.end = t.now() }

// Duration returns the elapsed session time: zero before Start, live while
// running, fixed after Stop. It is never negative.
func (t *Tracker) Duration() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	end := t.end
	if end.IsZero() {
		end = t.now()
	}
	if end.Before(t.start) {
		return 0
	}
	return end.Sub(t.start)
}

// CPU returns the process cpu load in percent. A missing process or any
// poll failure degrades to zero rather than erroring the display.
func (t *Tracker) CPU(pid int) float64 {
	if pid <= 0 {
		return 0
	}
	v, err := t.stats.CPUPercent(pid)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Memory returns the process resident set size in bytes and folds it into
// the session high-water mark.
func (t *Tracker) Memory(pid int) uint64 {
	if pid <= 0 {
		return 0
	}
	v, err := t.stats.MemoryRSS(pid)
	if err != nil {
		return 0
	}
	if v > t.maxMem {
		t.maxMem = v
	}
	return v
}

// MaxMemory returns the largest resident set seen so far. Memory-mode
// percentages scale against it.
func (t *Tracker) MaxMemory() uint64 { return t.maxMem }

// Cmdline returns the process command line, or empty when unavailable.
func (t *Tracker) Cmdline(pid int) string {
	if pid <= 0 {
		return ""
	}
	s, err := t.stats.Cmdline(pid)
	if err != nil {
		return ""
	}
	return s
}

// Freeze captures the session values the paused display keeps showing.
func (t *Tracker) Freeze() Frozen {
	return Frozen{Duration: t.Duration(), MaxMemory: t.maxMem}
}
