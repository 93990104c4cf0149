package ui

import (
	"fmt"
	"hash/fnv"
)

// FlameNode is one band of a flame graph: a label, the weight that decides
// its width, and the bands stacked beneath it.
type FlameNode struct {
	Label    string
	Value    int64
	Children []*FlameNode
}

// Equal reports deep equality of two flame trees.
func (n *FlameNode) Equal(o *FlameNode) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Label != o.Label || n.Value != o.Value || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// FlameGraph draws a flame tree as rows of width-proportional bands,
// breadth-first: each level is one row, children sit under their parent
// starting at its left edge. The root itself is not drawn; the header line
// above the graph carries its totals.
type FlameGraph struct {
	widget
	root *FlameNode
}

// NewFlameGraph returns an empty graph expanding on both axes.
func NewFlameGraph(name string) *FlameGraph {
	return &FlameGraph{widget: widget{name: name}}
}

// SetRoot replaces the flame tree and reports whether it changed. The
// height request tracks the number of levels that would paint at least an
// eighth of a cell at the current width, so the scroll view sizes its
// content to the visible depth.
func (f *FlameGraph) SetRoot(root *FlameNode) bool {
	if f.root.Equal(root) {
		return false
	}
	f.root = root
	f.req.H = f.visibleDepth(f.rect.W)
	return true
}

// Resize memoizes the rect and re-derives the depth request at the new
// width.
func (f *FlameGraph) Resize(r Rect) bool {
	if !f.setRect(r) {
		return false
	}
	f.req.H = f.visibleDepth(r.W)
	return true
}

func (f *FlameGraph) visibleDepth(width int) int {
	if f.root == nil || f.root.Value <= 0 || width <= 0 {
		return 1
	}
	scale := float64(width) / float64(f.root.Value)
	depth := 1
	type item struct {
		n     *FlameNode
		level int
	}
	queue := []item{{f.root, 0}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		for _, c := range it.n.Children {
			if float64(c.Value)*scale*8 < 1 {
				continue
			}
			if it.level+1 > depth {
				depth = it.level + 1
			}
			queue = append(queue, item{c, it.level + 1})
		}
	}
	return depth
}

// Draw clears the canvas and paints the bands.
func (f *FlameGraph) Draw() bool {
	g := f.buffer()
	if g == nil || f.rect.W <= 0 || f.rect.H <= 0 {
		return false
	}
	g.ClearRect(f.rect)
	if f.root == nil || f.root.Value <= 0 {
		return true
	}

	scale := float64(f.rect.W) / float64(f.root.Value)
	type item struct {
		n *FlameNode
		x int
		y int
	}
	var queue []item
	enqueue := func(parent *FlameNode, x, y int) {
		off := 0
		for _, c := range parent.Children {
			queue = append(queue, item{c, x + off, y})
			off += int(float64(c.Value)*scale + 0.5)
		}
	}
	enqueue(f.root, f.rect.X, f.rect.Y)
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it.y >= f.rect.Y+f.rect.H {
			continue
		}
		f.drawBand(g, it.n.Label, it.y, it.x, float64(it.n.Value)*scale)
		enqueue(it.n, it.x, it.y+1)
	}
	return true
}

// drawBand paints one band: reverse-video cells for the integer width, a
// left-eighth block for the fraction, and the label over the band when at
// least five cells are available.
func (f *FlameGraph) drawBand(g *Grid, label string, y, x int, w float64) {
	iw := int(w)
	color := flameColor(label)
	band := Attr{Color: color, Reverse: true}
	if iw > 0 {
		g.FillRect(Rect{X: x, Y: y, W: iw, H: 1}, ' ', band)
	}
	if iw > 4 {
		text := label
		if r := []rune(text); len(r) > iw-2 {
			text = string(r[:iw-4]) + ".."
		}
		g.WriteString(y, x+1, text, band)
	}
	if e := int((w - float64(iw)) * 8); e > 0 {
		g.Set(y, x+iw, rune(0x2590-e), Attr{Color: color})
	}
}

// flameColor picks a stable palette entry for a label so bands keep their
// color across redraws.
func flameColor(label string) string {
	h := fnv.New32a()
	h.Write([]byte(label))
	return fmt.Sprintf("flame%d", h.Sum32()%6)
}
