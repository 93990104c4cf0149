// Package ui is a small retained-mode widget engine over a character grid.
// Containers assign rectangles to widgets, widgets paint cells, and the grid
// renders to a single styled frame string once per refresh. Every rune is
// treated as one cell wide; the dashboard draws ASCII, box drawing and block
// elements only.
package ui

import "strings"

// Rect is a widget's place on a canvas: origin and extent in cells.
type Rect struct {
	X, Y, W, H int
}

// Attr is the styling of one cell, resolved against the palette at render
// time. The zero Attr is the terminal default.
type Attr struct {
	Color   string // palette entry name, "" = default
	Bold    bool
	Reverse bool
}

// Cell is one character cell.
type Cell struct {
	Ch rune
	At Attr
}

// Grid is a rectangular buffer of cells. Both the screen and scroll-view
// virtual canvases are grids.
type Grid struct {
	w, h  int
	cells [][]Cell
}

// NewGrid returns a cleared grid of the given size.
func NewGrid(w, h int) *Grid {
	g := &Grid{}
	g.Resize(w, h)
	return g
}

// Size returns the grid extent.
func (g *Grid) Size() (w, h int) { return g.w, g.h }

// Buffer returns the grid itself, making a bare grid the simplest Canvas a
// widget tree can be attached to.
func (g *Grid) Buffer() *Grid { return g }

// Resize reallocates the grid and clears it. Negative sizes clamp to zero.
func (g *Grid) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g.w, g.h = w, h
	g.cells = make([][]Cell, h)
	for y := range g.cells {
		g.cells[y] = blankRow(w)
	}
}

func blankRow(w int) []Cell {
	row := make([]Cell, w)
	for x := range row {
		row[x] = Cell{Ch: ' '}
	}
	return row
}

// Clear resets every cell to a blank with default attributes.
func (g *Grid) Clear() {
	for y := range g.cells {
		g.cells[y] = blankRow(g.w)
	}
}

// ClearRect blanks the intersection of r with the grid.
func (g *Grid) ClearRect(r Rect) {
	g.FillRect(r, ' ', Attr{})
}

// FillRect paints every cell in the intersection of r with the grid.
func (g *Grid) FillRect(r Rect, ch rune, at Attr) {
	for y := r.Y; y < r.Y+r.H; y++ {
		if y < 0 || y >= g.h {
			continue
		}
		for x := r.X; x < r.X+r.W; x++ {
			if x < 0 || x >= g.w {
				continue
			}
			g.cells[y][x] = Cell{Ch: ch, At: at}
		}
	}
}

// Set paints a single cell, ignoring out-of-bounds writes.
func (g *Grid) Set(y, x int, ch rune, at Attr) {
	if y < 0 || y >= g.h || x < 0 || x >= g.w {
		return
	}
	g.cells[y][x] = Cell{Ch: ch, At: at}
}

// Cell returns the cell at y,x, or a blank for out-of-bounds reads.
func (g *Grid) Cell(y, x int) Cell {
	if y < 0 || y >= g.h || x < 0 || x >= g.w {
		return Cell{Ch: ' '}
	}
	return g.cells[y][x]
}

// WriteString paints s starting at y,x with one attribute, clipping at the
// right edge, and returns the number of cells written.
func (g *Grid) WriteString(y, x int, s string, at Attr) int {
	if y < 0 || y >= g.h {
		return 0
	}
	n := 0
	for _, ch := range s {
		cx := x + n
		if cx >= g.w {
			break
		}
		if cx >= 0 {
			g.cells[y][cx] = Cell{Ch: ch, At: at}
		}
		n++
	}
	return n
}

// Blit copies the from rectangle of src onto the receiver at dstY,dstX,
// clipping against both grids. Scroll views use it to project their virtual
// canvas onto the screen.
func (g *Grid) Blit(src *Grid, from Rect, dstY, dstX int) {
	for y := 0; y < from.H; y++ {
		sy := from.Y + y
		dy := dstY + y
		if sy < 0 || sy >= src.h || dy < 0 || dy >= g.h {
			continue
		}
		for x := 0; x < from.W; x++ {
			sx := from.X + x
			dx := dstX + x
			if sx < 0 || sx >= src.w || dx < 0 || dx >= g.w {
				continue
			}
			g.cells[dy][dx] = src.cells[sy][sx]
		}
	}
}

// Row returns the plain text of one row, attributes dropped. Tests and
// debugging use it; rendering goes through Render.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.h {
		return ""
	}
	var b strings.Builder
	for _, c := range g.cells[y] {
		b.WriteRune(c.Ch)
	}
	return b.String()
}

// Render serializes the grid to one styled frame string: runs of cells with
// equal attributes become single styled spans, rows join with newlines.
func (g *Grid) Render(p *Palette) string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y]
		x := 0
		for x < g.w {
			at := row[x].At
			var run strings.Builder
			for x < g.w && row[x].At == at {
				run.WriteRune(row[x].Ch)
				x++
			}
			b.WriteString(p.style(at).Render(run.String()))
		}
	}
	return b.String()
}
