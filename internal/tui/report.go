package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/stats"
	"github.com/proftop/proftop/internal/ui"
)

// reportCtx is the scaling context shared by every row of one refresh:
// which metric the values are in, the denominators percentages scale
// against, and the display threshold as a fraction of that scale.
type reportCtx struct {
	kind      model.MetricKind
	duration  float64 // seconds
	peak      uint64  // bytes
	threshold float64
}

func (c reportCtx) scale(v int64) float64 {
	if c.kind == model.MemoryMetric {
		return scaleMemory(v, c.peak)
	}
	return scaleTime(v, c.duration)
}

// fraction returns a node total as a fraction of the session scale, the
// quantity the threshold prunes against.
func (c reportCtx) fraction(total int64) float64 {
	if c.kind == model.MemoryMetric {
		if c.peak == 0 {
			return 0
		}
		return float64(total) / float64(c.peak)
	}
	if c.duration <= 0 {
		return 0
	}
	return float64(total) / 1e6 / c.duration
}

// pathRows renders the thread's most recent stack, one row per frame from
// the outermost call down, stopping at the first frame whose accumulated
// total falls under the threshold.
func pathRows(th *stats.Thread, ctx reportCtx) [][]ui.Text {
	var rows [][]ui.Text
	var node *stats.Node
	for i, f := range th.LastStack() {
		var ok bool
		if i == 0 {
			node, ok = th.Root(f)
		} else {
			node, ok = node.Child(f)
		}
		if !ok || ctx.fraction(node.Total) < ctx.threshold {
			break
		}
		rows = append(rows, []ui.Text{
			metricCell(ctx.kind, node.Own, true),
			metricCell(ctx.kind, node.Total, true),
			scaleCell(ctx.scale(node.Own), true),
			scaleCell(ctx.scale(node.Total), true),
			pathFrameCell(f),
		})
	}
	return rows
}

func pathFrameCell(f model.Frame) ui.Text {
	return ui.Text{
		{Str: " " + f.Function + " "},
		{Str: "(" + f.File + ":" + strconv.Itoa(f.Line) + ")", At: ui.Attr{Color: "inactive"}},
	}
}

// fullRows renders the whole call tree with box-drawing connectors. Rows on
// the thread's most recent stack keep full styling; everything else is
// dimmed. Subtrees under the threshold are skipped whole.
func fullRows(th *stats.Thread, ctx reportCtx) [][]ui.Text {
	frames := th.LastStack()
	var rows [][]ui.Text

	var walk func(n *stats.Node, marker, childPrefix string, level int, parentActive bool)
	walk = func(n *stats.Node, marker, childPrefix string, level int, parentActive bool) {
		if ctx.fraction(n.Total) < ctx.threshold {
			return
		}
		active := parentActive && level < len(frames) && n.Frame == frames[level]
		rows = append(rows, []ui.Text{
			metricCell(ctx.kind, n.Own, active),
			metricCell(ctx.kind, n.Total, active),
			scaleCell(ctx.scale(n.Own), active),
			scaleCell(ctx.scale(n.Total), active),
			fullFrameCell(n.Frame, marker, active),
		})
		kids := n.Children()
		for i, c := range kids {
			if i < len(kids)-1 {
				walk(c, childPrefix+"├─ ", childPrefix+"│  ", level+1, active)
			} else {
				walk(c, childPrefix+"└─ ", childPrefix+"   ", level+1, active)
			}
		}
	}

	roots := th.Roots()
	for i, r := range roots {
		if i < len(roots)-1 {
			walk(r, "├─ ", "│  ", 0, true)
		} else {
			walk(r, "└─ ", "   ", 0, true)
		}
	}
	return rows
}

func fullFrameCell(f model.Frame, marker string, active bool) ui.Text {
	fn := ui.Chunk{Str: f.Function}
	if !active {
		fn.At = ui.Attr{Color: "inactive"}
	}
	return ui.Text{
		{Str: " " + marker, At: ui.Attr{Color: "inactive"}},
		fn,
		{Str: " (", At: ui.Attr{Color: "inactive"}},
		{Str: f.File, At: ui.Attr{Color: "filename"}},
		{Str: ":", At: ui.Attr{Color: "inactive"}},
		{Str: strconv.Itoa(f.Line), At: ui.Attr{Color: "lineno"}},
		{Str: ")", At: ui.Attr{Color: "inactive"}},
	}
}

// flameHeader titles a thread's flame graph with its total and its share of
// the session scale.
func (c reportCtx) flameHeader(key string, total int64) string {
	pct := int(c.scale(total))
	if pct > 100 {
		pct = 100
	}
	var amount string
	if c.kind == model.MemoryMetric {
		amount = strings.TrimSpace(fmtMem(total))
	} else {
		amount = fmtTime(total)
	}
	return fmt.Sprintf("THREAD %s ⏲ %s (%d%%)", key, amount, pct)
}

// flameTree folds a thread's call tree into flame graph bands level by
// level, breadth-first. Nodes that share function and file under the same
// band merge: their weights add up and their children land in the same
// bucket, so recursion noise collapses the way it does in any flamegraph
// tool.
func flameTree(th *stats.Thread, header string) *ui.FlameNode {
	root := &ui.FlameNode{Label: header, Value: th.Total}
	buckets := map[*ui.FlameNode]map[string]*ui.FlameNode{root: {}}

	type item struct {
		src *stats.Node
		dst *ui.FlameNode
	}
	queue := make([]item, 0, len(th.Roots()))
	for _, r := range th.Roots() {
		queue = append(queue, item{r, root})
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		key := it.src.Frame.Function + " (" + it.src.Frame.File + ")"
		bucket := buckets[it.dst]
		band, ok := bucket[key]
		if !ok {
			band = &ui.FlameNode{Label: key}
			bucket[key] = band
			buckets[band] = map[string]*ui.FlameNode{}
			it.dst.Children = append(it.dst.Children, band)
		}
		band.Value += it.src.Total
		for _, c := range it.src.Children() {
			queue = append(queue, item{c, band})
		}
	}
	return root
}
