package ui

// Table draws rows of styled cells, one row per line, cells painted left to
// right with no implicit column sizing: formatting decides the widths. Its
// height request follows the content, so inside a scroll view the virtual
// canvas grows with the data.
type Table struct {
	widget
	rows [][]Text
}

// NewTable returns an empty table expanding on both axes until it has rows.
func NewTable(name string) *Table {
	return &Table{widget: widget{name: name}}
}

// SetRows replaces the table content and reports whether it changed. The
// caller owns relayout: a scroll view wrapping the table re-derives its
// content height from the new request.
func (t *Table) SetRows(rows [][]Text) bool {
	if equalRows(t.rows, rows) {
		return false
	}
	t.rows = rows
	t.req.H = len(rows)
	return true
}

// RowCount returns the current number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

func equalRows(a, b [][]Text) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if !a[i][j].Equal(b[i][j]) {
				return false
			}
		}
	}
	return true
}

// Resize memoizes the assigned rect.
func (t *Table) Resize(r Rect) bool { return t.setRect(r) }

// Draw clears the canvas and paints every row.
func (t *Table) Draw() bool {
	g := t.buffer()
	if g == nil || t.rect.W <= 0 || t.rect.H <= 0 {
		return false
	}
	g.ClearRect(t.rect)
	for i, row := range t.rows {
		y := t.rect.Y + i
		if y >= t.rect.Y+t.rect.H {
			break
		}
		x := t.rect.X
		for _, cell := range row {
			x += cell.Write(g, y, x, t.rect.X+t.rect.W-x)
		}
	}
	return true
}
