package ui

// Align positions a label's text inside its rectangle.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Label is one or more lines of styled text. Fixed-size labels hold header
// fields; expanding ones absorb leftover row space.
type Label struct {
	widget
	lines   []Text
	align   Align
	fill    Attr
	hasFill bool
}

// NewLabel returns a label requesting w by h cells, zero meaning expand on
// that axis. Whatever slot its container hands it, the label trims back to
// its own request.
func NewLabel(name string, w, h int, align Align) *Label {
	return &Label{widget: widget{name: name, req: Size{W: w, H: h}}, align: align}
}

// SetFill paints the label's whole rectangle with the given attribute
// before the text, turning it into a full-width banner row.
func (l *Label) SetFill(at Attr) {
	l.fill = at
	l.hasFill = true
}

// SetLines replaces the label content and reports whether it changed.
func (l *Label) SetLines(lines []Text) bool {
	if equalLines(l.lines, lines) {
		return false
	}
	l.lines = lines
	return true
}

// SetText replaces the content with a single line.
func (l *Label) SetText(t Text) bool { return l.SetLines([]Text{t}) }

// SetString replaces the content with unstyled text, split on newlines.
func (l *Label) SetString(s string) bool {
	var lines []Text
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			lines = append(lines, Plain(s[start:i]))
			start = i + 1
		}
	}
	return l.SetLines(lines)
}

// Text returns the first content line.
func (l *Label) Text() Text {
	if len(l.lines) == 0 {
		return nil
	}
	return l.lines[0]
}

func equalLines(a, b []Text) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Resize clamps the offered rect to the label's own request, a fixed axis
// never growing past what was asked for, and memoizes the result.
func (l *Label) Resize(r Rect) bool {
	w := r.W
	if l.req.W > 0 && l.req.W < w {
		w = l.req.W
	}
	h := r.H
	if l.req.H > 0 && l.req.H < h {
		h = l.req.H
	}
	return l.setRect(Rect{X: r.X, Y: r.Y, W: w, H: h})
}

// Draw clears the label area and paints each line with its alignment.
func (l *Label) Draw() bool {
	g := l.buffer()
	if g == nil || l.rect.W <= 0 || l.rect.H <= 0 {
		return false
	}
	if l.hasFill {
		g.FillRect(l.rect, ' ', l.fill)
	} else {
		g.ClearRect(l.rect)
	}

	for i, line := range l.lines {
		if i >= l.rect.H {
			break
		}
		n := line.Len()
		x := l.rect.X
		switch l.align {
		case AlignCenter:
			if n < l.rect.W {
				x += (l.rect.W - n) / 2
			}
		case AlignRight:
			if n < l.rect.W {
				x += l.rect.W - n
			}
		}
		line.Write(g, l.rect.Y+i, x, l.rect.W-(x-l.rect.X))
	}
	return true
}
