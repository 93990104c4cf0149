package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/proftop/proftop/internal/stats"
)

// startSave snapshots the visible statistics on the event loop, then hands
// the file work to a command goroutine. The snapshot is what makes that
// split safe: the dump never races live ingestion.
func (d *Dashboard) startSave() tea.Cmd {
	snap := d.activeAgg().Clone()
	meta := d.dumpMetadata()
	name := fmt.Sprintf("proftop_%d_%d.prof", time.Now().Unix(), d.pid)
	path := filepath.Join(d.saveDir, name)

	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return saveDoneMsg{err: err}
		}
		err = snap.Dump(f, stats.DumpOptions{Metadata: meta})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return saveDoneMsg{err: err}
		}
		return saveDoneMsg{path: path}
	}
}

// dumpMetadata is the sampler metadata in arrival order, plus the session
// duration unless the sampler's own trailer already reported one.
func (d *Dashboard) dumpMetadata() []stats.Meta {
	meta := make([]stats.Meta, 0, len(d.metaKeys)+1)
	for _, k := range d.metaKeys {
		meta = append(meta, stats.Meta{Key: k, Value: d.meta[k]})
	}
	if _, ok := d.meta["duration"]; !ok {
		meta = append(meta, stats.Meta{
			Key:   "duration",
			Value: strconv.FormatInt(d.activeDuration().Microseconds(), 10),
		})
	}
	return meta
}
