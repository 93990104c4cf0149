package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/proftop/proftop/internal/model"
)

// Row is one serialized call-tree path: the thread it belongs to, the frame
// path from the root, and the accumulated metrics at that position. A row
// with no frames carries the thread-level totals.
type Row struct {
	Thread string // registry key, pid:tid
	Frames []model.Frame
	Own    int64
	Total  int64
}

// RowFilter selects rows for inclusion in a dump.
type RowFilter func(Row) bool

// DropZeroRows is the default dump filter: a position that accumulated
// neither own nor total weight carries no information.
func DropZeroRows(r Row) bool { return r.Own != 0 || r.Total != 0 }

// Meta is one `# key: value` header entry of a dump.
type Meta struct {
	Key   string
	Value string
}

// DumpOptions control the dump header and row selection.
type DumpOptions struct {
	Metadata []Meta
	Filter   RowFilter // nil means DropZeroRows
}

// Rows flattens the aggregate depth-first: threads in registry order, then
// within each thread every tree position in first-seen order, parents before
// children. The first row of each thread is the frameless thread row.
func (a *Aggregate) Rows() []Row {
	var rows []Row
	for _, key := range a.registry.Keys() {
		th, ok := a.threads[key]
		if !ok {
			continue
		}
		rows = append(rows, Row{Thread: key, Own: th.Own, Total: th.Total})
		var walk func(path []model.Frame, n *Node)
		walk = func(path []model.Frame, n *Node) {
			path = append(path, n.Frame)
			rows = append(rows, Row{
				Thread: key,
				Frames: append([]model.Frame(nil), path...),
				Own:    n.Own,
				Total:  n.Total,
			})
			for _, c := range n.Children() {
				walk(path, c)
			}
		}
		for _, root := range th.Roots() {
			walk(nil, root)
		}
	}
	return rows
}

// Dump writes the aggregate as plain text: optional metadata header, blank
// separator, then one line per row that passes the filter.
func (a *Aggregate) Dump(w io.Writer, opts DumpOptions) error {
	filter := opts.Filter
	if filter == nil {
		filter = DropZeroRows
	}
	for _, m := range opts.Metadata {
		if _, err := fmt.Fprintf(w, "# %s: %s\n", m.Key, m.Value); err != nil {
			return err
		}
	}
	if len(opts.Metadata) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	for _, r := range a.Rows() {
		if !filter(r) {
			continue
		}
		if _, err := io.WriteString(w, formatRow(r)); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(r Row) string {
	var b strings.Builder
	pid, tid, _ := strings.Cut(r.Thread, ":")
	b.WriteString("P")
	b.WriteString(pid)
	b.WriteString(";T")
	b.WriteString(tid)
	for _, f := range r.Frames {
		b.WriteString(";")
		b.WriteString(f.File)
		b.WriteString(":")
		b.WriteString(f.Function)
		b.WriteString(":")
		b.WriteString(strconv.Itoa(f.Line))
	}
	b.WriteString(" ")
	b.WriteString(strconv.FormatInt(r.Own, 10))
	b.WriteString(" ")
	b.WriteString(strconv.FormatInt(r.Total, 10))
	b.WriteString("\n")
	return b.String()
}
