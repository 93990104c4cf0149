package ui

// Direction is a box's flow axis.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Box lays its children out along one axis. Children with a fixed request
// on that axis get exactly what they asked for; the rest of the extent is
// split by floor division among expanding children, with the remainder
// handed out one cell at a time to the first of them. Children always fill
// the cross axis. A box paints nothing itself.
type Box struct {
	widget
	dir      Direction
	children []Widget
}

// NewHBox returns a box flowing left to right.
func NewHBox(name string, children ...Widget) *Box {
	return &Box{widget: widget{name: name}, dir: Horizontal, children: children}
}

// NewVBox returns a box flowing top to bottom.
func NewVBox(name string, children ...Widget) *Box {
	return &Box{widget: widget{name: name}, dir: Vertical, children: children}
}

// Children returns the box's children in layout order.
func (b *Box) Children() []Widget { return b.children }

// Request derives the box's footprint from its children: the sum of their
// requests along the flow axis and the largest across it. One expanding
// child on an axis makes the whole box expand on that axis, so nested
// boxes propagate flexibility upward.
func (b *Box) Request() Size {
	if b.dir == Horizontal {
		return Size{W: b.dimSum(Horizontal), H: b.dimMax(Vertical)}
	}
	return Size{W: b.dimMax(Horizontal), H: b.dimSum(Vertical)}
}

func (b *Box) dimSum(d Direction) int {
	sum := 0
	for _, ch := range b.children {
		v := axisRequest(ch, d)
		if v == 0 {
			return 0
		}
		sum += v
	}
	return sum
}

func (b *Box) dimMax(d Direction) int {
	if len(b.children) == 0 {
		return 0
	}
	max := 0
	for _, ch := range b.children {
		v := axisRequest(ch, d)
		if v == 0 {
			return 0
		}
		if v > max {
			max = v
		}
	}
	return max
}

func axisRequest(ch Widget, d Direction) int {
	if d == Horizontal {
		return ch.Request().W
	}
	return ch.Request().H
}

// Attach attaches the box and every child to the canvas.
func (b *Box) Attach(c Canvas) {
	b.canvas = c
	for _, ch := range b.children {
		ch.Attach(c)
	}
}

// Resize assigns the box rect and solves the layout. An unchanged rect is
// skipped entirely; otherwise children whose computed rect changed are
// resized recursively and the need for a redraw propagates up as a boolean
// OR. Degenerate extents are assigned as computed and draw as nothing.
func (b *Box) Resize(r Rect) bool {
	if !b.setRect(r) {
		return false
	}

	extent := r.W
	if b.dir == Vertical {
		extent = r.H
	}

	fixed := 0
	expanding := 0
	for _, ch := range b.children {
		m := axisRequest(ch, b.dir)
		if m > 0 {
			fixed += m
		} else {
			expanding++
		}
	}

	share, rem := 0, 0
	if expanding > 0 {
		share, rem = floorDiv(extent-fixed, expanding)
	}

	changed := false
	cur := 0
	expSeen := 0
	for _, ch := range b.children {
		m := axisRequest(ch, b.dir)
		if m <= 0 {
			m = share
			if expSeen < rem {
				m++
			}
			expSeen++
		}
		var cr Rect
		if b.dir == Horizontal {
			cr = Rect{X: r.X + cur, Y: r.Y, W: m, H: r.H}
		} else {
			cr = Rect{X: r.X, Y: r.Y + cur, W: r.W, H: m}
		}
		if ch.Resize(cr) {
			changed = true
		}
		cur += m
	}
	return changed
}

// Draw paints every child.
func (b *Box) Draw() bool {
	drew := false
	for _, ch := range b.children {
		if ch.Draw() {
			drew = true
		}
	}
	return drew
}

// floorDiv divides with flooring and returns a non-negative remainder, so a
// negative extent still assigns deterministic (degenerate) shares.
func floorDiv(a, n int) (q, r int) {
	q = a / n
	r = a % n
	if r < 0 {
		q--
		r += n
	}
	return q, r
}
