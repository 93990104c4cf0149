package sysmon

import (
	"github.com/shirou/gopsutil/v3/process"
)

// GopsStats implements ProcStats on gopsutil. Process handles are cached so
// successive CPUPercent calls measure the interval since the previous poll
// instead of since process start.
type GopsStats struct {
	procs map[int]*process.Process
}

// NewGopsStats returns an empty gopsutil-backed collaborator.
func NewGopsStats() *GopsStats {
	return &GopsStats{procs: make(map[int]*process.Process)}
}

func (g *GopsStats) handle(pid int) (*process.Process, error) {
	if p, ok := g.procs[pid]; ok {
		return p, nil
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, err
	}
	g.procs[pid] = p
	return p, nil
}

// CPUPercent returns the process cpu load since the previous call.
func (g *GopsStats) CPUPercent(pid int) (float64, error) {
	p, err := g.handle(pid)
	if err != nil {
		return 0, err
	}
	return p.CPUPercent()
}

// MemoryRSS returns the process resident set size in bytes.
func (g *GopsStats) MemoryRSS(pid int) (uint64, error) {
	p, err := g.handle(pid)
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

// Cmdline returns the process command line.
func (g *GopsStats) Cmdline(pid int) (string, error) {
	p, err := g.handle(pid)
	if err != nil {
		return "", err
	}
	return p.Cmdline()
}
